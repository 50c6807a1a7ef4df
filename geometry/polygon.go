package geometry

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// clipperScale is the fixed point scaling applied to coordinates when
// converting them to integer clipper paths
const clipperScale = 10000.0

// PolygonalArea represents a closed polygon given by its vertices in order.
// Each vertex may carry an optional string tag labelling the edge that runs
// from that vertex to the next one.
type PolygonalArea struct {
	vertices []Point
	tags     []*string
}

// NewPolygonalArea creates a new PolygonalArea from the given vertices and
// optional positional edge tags. Pass nil tags for an untagged polygon.
// Tags beyond the vertex count are ignored and missing tags are unset.
func NewPolygonalArea(vertices []Point, tags []*string) PolygonalArea {

	v := make([]Point, len(vertices))
	copy(v, vertices)

	var t []*string

	if tags != nil {
		t = make([]*string, len(vertices))
		copy(t, tags)
	}

	return PolygonalArea{
		vertices: v,
		tags:     t,
	}
}

// Vertices returns a copy of the polygon vertices in order
func (a PolygonalArea) Vertices() []Point {
	v := make([]Point, len(a.vertices))
	copy(v, a.vertices)
	return v
}

// VertexCount returns the number of polygon vertices
func (a PolygonalArea) VertexCount() int {
	return len(a.vertices)
}

// Tags returns a copy of the positional edge tags, or nil when the polygon
// is untagged
func (a PolygonalArea) Tags() []*string {

	if a.tags == nil {
		return nil
	}

	t := make([]*string, len(a.tags))
	copy(t, a.tags)
	return t
}

// TagAt returns the edge tag at the given vertex index and whether one is set
func (a PolygonalArea) TagAt(i int) (string, bool) {

	if a.tags == nil || i < 0 || i >= len(a.tags) || a.tags[i] == nil {
		return "", false
	}

	return *a.tags[i], true
}

// Equal reports whether the two polygons have the same vertices and tags
func (a PolygonalArea) Equal(other PolygonalArea) bool {

	if len(a.vertices) != len(other.vertices) {
		return false
	}

	for i := range a.vertices {
		if a.vertices[i] != other.vertices[i] {
			return false
		}
	}

	if (a.tags == nil) != (other.tags == nil) {
		return false
	}

	for i := range a.tags {
		at, aok := a.TagAt(i)
		bt, bok := other.TagAt(i)

		if aok != bok || at != bt {
			return false
		}
	}

	return true
}

// Area returns the area of the polygon
func (a PolygonalArea) Area() float64 {

	area := 0.0
	n := len(a.vertices)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += a.vertices[i].X*a.vertices[j].Y - a.vertices[i].Y*a.vertices[j].X
	}

	return math.Abs(area / 2.0)
}

// Contains reports whether the point lies inside the polygon or on its
// boundary
func (a PolygonalArea) Contains(p Point) bool {

	n := len(a.vertices)

	if n < 3 {
		return false
	}

	inside := false
	j := n - 1

	for i := 0; i < n; i++ {
		vi := a.vertices[i]
		vj := a.vertices[j]

		// boundary contact counts as inside
		if orientation(vi, p, vj) == 0 && onSegment(vi, p, vj) {
			return true
		}

		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := vi.X + (p.Y-vi.Y)*(vj.X-vi.X)/(vj.Y-vi.Y)

			if p.X < xCross {
				inside = !inside
			}
		}

		j = i
	}

	return inside
}

// ContainsMany reports membership for each of the given points
func (a PolygonalArea) ContainsMany(points []Point) []bool {

	result := make([]bool, len(points))

	for i, p := range points {
		result[i] = a.Contains(p)
	}

	return result
}

// Intersects reports whether the two polygons overlap, including full
// containment either way and edge touches
func (a PolygonalArea) Intersects(other PolygonalArea) bool {
	return a.intersectsPolygon(other.vertices)
}

// IntersectsBox reports whether the rotated box overlaps the polygon,
// including full containment either way and edge touches
func (a PolygonalArea) IntersectsBox(b RBBox) bool {
	return a.intersectsPolygon(b.Vertices())
}

// intersectsPolygon reports whether the polygon overlaps the polygon given
// by the other vertex list
func (a PolygonalArea) intersectsPolygon(other []Point) bool {

	for _, v := range other {
		if a.Contains(v) {
			return true
		}
	}

	ob := PolygonalArea{vertices: other}

	for _, v := range a.vertices {
		if ob.Contains(v) {
			return true
		}
	}

	n := len(a.vertices)
	m := len(other)

	for i := 0; i < n; i++ {
		p1 := a.vertices[i]
		q1 := a.vertices[(i+1)%n]

		for j := 0; j < m; j++ {
			if segmentsIntersect(p1, q1, other[j], other[(j+1)%m]) {
				return true
			}
		}
	}

	return false
}

// IntersectionKind classifies how a segment relates to a polygon
type IntersectionKind int

const (
	// IntersectionEnter is a segment starting outside and ending inside
	IntersectionEnter IntersectionKind = iota
	// IntersectionInside is a segment contained in the polygon
	IntersectionInside
	// IntersectionLeave is a segment starting inside and ending outside
	IntersectionLeave
	// IntersectionCross is a segment passing through the polygon with both
	// ends outside
	IntersectionCross
	// IntersectionOutside is a segment not touching the polygon
	IntersectionOutside
)

// String returns the name of the intersection kind
func (k IntersectionKind) String() string {

	switch k {
	case IntersectionEnter:
		return "enter"
	case IntersectionInside:
		return "inside"
	case IntersectionLeave:
		return "leave"
	case IntersectionCross:
		return "cross"
	case IntersectionOutside:
		return "outside"
	}

	return "unknown"
}

// IntersectionEdge identifies one polygon edge touched by a segment, by
// edge index and optional edge tag
type IntersectionEdge struct {
	Index int
	Tag   *string
}

// Intersection describes how a segment relates to a polygon and which edges
// it touches, in edge index order
type Intersection struct {
	Kind  IntersectionKind
	Edges []IntersectionEdge
}

// CrossedBySegment classifies how the segment relates to the polygon.
// Boundary contact counts as membership for the segment endpoints.
func (a PolygonalArea) CrossedBySegment(seg Segment) Intersection {

	n := len(a.vertices)
	var edges []IntersectionEdge

	for i := 0; i < n; i++ {
		p := a.vertices[i]
		q := a.vertices[(i+1)%n]

		if segmentsIntersect(seg.Begin, seg.End, p, q) {
			var tag *string

			if a.tags != nil && i < len(a.tags) {
				tag = a.tags[i]
			}

			edges = append(edges, IntersectionEdge{Index: i, Tag: tag})
		}
	}

	beginIn := a.Contains(seg.Begin)
	endIn := a.Contains(seg.End)

	var kind IntersectionKind

	switch {
	case beginIn && endIn:
		kind = IntersectionInside
	case beginIn:
		kind = IntersectionLeave
	case endIn:
		kind = IntersectionEnter
	case len(edges) > 0:
		kind = IntersectionCross
	default:
		kind = IntersectionOutside
	}

	return Intersection{
		Kind:  kind,
		Edges: edges,
	}
}

// CrossedBySegments classifies each of the given segments against the
// polygon
func (a PolygonalArea) CrossedBySegments(segs []Segment) []Intersection {

	result := make([]Intersection, len(segs))

	for i, seg := range segs {
		result[i] = a.CrossedBySegment(seg)
	}

	return result
}

// toClipperPath converts polygon vertices to a scaled integer path for
// clipping operations
func toClipperPath(points []Point) clipper.Path {

	path := make(clipper.Path, 0, len(points))

	for _, pt := range points {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(pt.X * clipperScale)),
			Y: clipper.CInt(math.Round(pt.Y * clipperScale)),
		})
	}

	return path
}

// pathsArea returns the unscaled total area of clipper solution paths,
// summing signed areas so holes subtract from their outer polygon
func pathsArea(paths clipper.Paths) float64 {

	total := 0.0

	for _, path := range paths {
		area := 0.0
		n := len(path)

		for i := 0; i < n; i++ {
			j := (i + 1) % n
			area += float64(path[i].X)*float64(path[j].Y) -
				float64(path[i].Y)*float64(path[j].X)
		}

		total += area / 2.0
	}

	return math.Abs(total) / (clipperScale * clipperScale)
}

// clipIntersectionArea returns the overlap area of the two polygons
func clipIntersectionArea(subject, clip []Point) float64 {

	c := clipper.NewClipper(0)
	c.AddPath(toClipperPath(subject), clipper.PtSubject, true)
	c.AddPath(toClipperPath(clip), clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection,
		clipper.PftNonZero, clipper.PftNonZero)

	if !ok {
		return 0
	}

	return pathsArea(solution)
}

// clipDifferenceArea returns the area of the subject polygon not covered by
// any of the clip polygons
func clipDifferenceArea(subject []Point, clips [][]Point) float64 {

	if len(clips) == 0 {
		return PolygonalArea{vertices: subject}.Area()
	}

	c := clipper.NewClipper(0)
	c.AddPath(toClipperPath(subject), clipper.PtSubject, true)

	for _, clip := range clips {
		c.AddPath(toClipperPath(clip), clipper.PtClip, true)
	}

	solution, ok := c.Execute1(clipper.CtDifference,
		clipper.PftNonZero, clipper.PftNonZero)

	if !ok {
		return 0
	}

	return pathsArea(solution)
}
