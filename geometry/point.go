package geometry

import (
	"math"
)

// Point represents a position on the frame plane
type Point struct {
	X float64
	Y float64
}

// NewPoint creates a new Point at the given coordinates
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// DistanceTo returns the euclidean distance from this point to the other
func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Segment represents a directed line segment running from Begin to End
type Segment struct {
	Begin Point
	End   Point
}

// NewSegment creates a new Segment between the two given points
func NewSegment(begin, end Point) Segment {
	return Segment{Begin: begin, End: end}
}

// Length returns the euclidean length of the segment
func (s Segment) Length() float64 {
	return s.Begin.DistanceTo(s.End)
}

// orientation returns the turn direction of the ordered point triple
// (p, q, r): 0 for collinear, 1 for clockwise, 2 for counterclockwise
func orientation(p, q, r Point) int {

	val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)

	if math.Abs(val) < 1e-12 {
		return 0
	}

	if val > 0 {
		return 1
	}

	return 2
}

// onSegment reports whether point q lies on the segment (p, r), assuming
// the three points are collinear
func onSegment(p, q, r Point) bool {
	return q.X <= math.Max(p.X, r.X)+1e-12 && q.X >= math.Min(p.X, r.X)-1e-12 &&
		q.Y <= math.Max(p.Y, r.Y)+1e-12 && q.Y >= math.Min(p.Y, r.Y)-1e-12
}

// segmentsIntersect reports whether segments (p1, q1) and (p2, q2) share at
// least one point, including endpoint touches and collinear overlap
func segmentsIntersect(p1, q1, p2, q2 Point) bool {

	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// collinear cases
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}

	if o2 == 0 && onSegment(p1, q2, q1) {
		return true
	}

	if o3 == 0 && onSegment(p2, p1, q2) {
		return true
	}

	if o4 == 0 && onSegment(p2, q1, q2) {
		return true
	}

	return false
}
