package geometry

import (
	"math"
	"sync"
)

// RBBox represents a rotated bounding box defined by its center coordinates,
// dimensions and an optional rotation angle in degrees. A box with no angle
// set behaves as axis aligned but remembers that the angle is undefined.
type RBBox struct {
	xc       float64
	yc       float64
	width    float64
	height   float64
	angle    float64
	hasAngle bool
}

// NewRBBox creates a new RBBox with the given center coordinates and
// dimensions and no rotation angle set
func NewRBBox(xc, yc, width, height float64) RBBox {
	return RBBox{
		xc:     xc,
		yc:     yc,
		width:  width,
		height: height,
	}
}

// NewRBBoxWithAngle creates a new RBBox with the given center coordinates,
// dimensions, and rotation angle in degrees
func NewRBBoxWithAngle(xc, yc, width, height, angle float64) RBBox {
	return RBBox{
		xc:       xc,
		yc:       yc,
		width:    width,
		height:   height,
		angle:    angle,
		hasAngle: true,
	}
}

// NewRBBoxFromLTRB creates an axis aligned RBBox from (left, top, right,
// bottom) corner coordinates
func NewRBBoxFromLTRB(left, top, right, bottom float64) RBBox {
	return NewRBBox((left+right)/2, (top+bottom)/2, right-left, bottom-top)
}

// XCenter returns the center x coordinate of the box
func (b RBBox) XCenter() float64 {
	return b.xc
}

// YCenter returns the center y coordinate of the box
func (b RBBox) YCenter() float64 {
	return b.yc
}

// Width returns the width of the box
func (b RBBox) Width() float64 {
	return b.width
}

// Height returns the height of the box
func (b RBBox) Height() float64 {
	return b.height
}

// Angle returns the rotation angle in degrees and whether an angle is set
func (b RBBox) Angle() (float64, bool) {
	return b.angle, b.hasAngle
}

// AngleOrZero returns the rotation angle in degrees, or zero when no angle
// is set
func (b RBBox) AngleOrZero() float64 {

	if !b.hasAngle {
		return 0
	}

	return b.angle
}

// WithAngle returns a copy of the box with the rotation angle set to the
// given value
func (b RBBox) WithAngle(angle float64) RBBox {
	b.angle = angle
	b.hasAngle = true
	return b
}

// WithoutAngle returns a copy of the box with the rotation angle unset
func (b RBBox) WithoutAngle() RBBox {
	b.angle = 0
	b.hasAngle = false
	return b
}

// Area returns the area of the box
func (b RBBox) Area() float64 {
	return b.width * b.height
}

// WidthToHeightRatio returns the ratio of the box width to its height
func (b RBBox) WidthToHeightRatio() float64 {
	return b.width / b.height
}

// Vertices returns the four corner points of the box in (left top,
// right top, right bottom, left bottom) order before rotation, rotated
// around the box center by the box angle
func (b RBBox) Vertices() []Point {

	rad := b.AngleOrZero() * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	dx := b.width / 2
	dy := b.height / 2

	corners := [4][2]float64{
		{-dx, -dy},
		{dx, -dy},
		{dx, dy},
		{-dx, dy},
	}

	vertices := make([]Point, 4)

	for i, c := range corners {
		vertices[i] = Point{
			X: b.xc + c[0]*cos - c[1]*sin,
			Y: b.yc + c[0]*sin + c[1]*cos,
		}
	}

	return vertices
}

// WrappingBox returns the smallest axis aligned box covering the rotated box
func (b RBBox) WrappingBox() BBox {

	vertices := b.Vertices()

	minX := vertices[0].X
	maxX := vertices[0].X
	minY := vertices[0].Y
	maxY := vertices[0].Y

	for _, v := range vertices[1:] {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}

	return NewBBoxFromLTRB(minX, minY, maxX, maxY)
}

// AsPolygonalArea converts the box corners to a polygonal area without tags
func (b RBBox) AsPolygonalArea() PolygonalArea {
	return NewPolygonalArea(b.Vertices(), nil)
}

// Shift returns a copy of the box with the center moved by the given deltas
func (b RBBox) Shift(dx, dy float64) RBBox {
	b.xc += dx
	b.yc += dy
	return b
}

// Scale scales the box by the given factors. An axis aligned box scales
// directly. For a rotated box the width axis direction vector is mapped
// through the scaling and the new angle and dimensions are taken from the
// mapped axes.
func (b RBBox) Scale(fx, fy float64) RBBox {

	if b.AngleOrZero() == 0 {
		b.xc *= fx
		b.yc *= fy
		b.width *= fx
		b.height *= fy
		return b
	}

	rad := b.angle * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	b.xc *= fx
	b.yc *= fy
	b.width *= math.Hypot(cos*fx, sin*fy)
	b.height *= math.Hypot(sin*fx, cos*fy)
	b.angle = math.Atan2(sin*fy, cos*fx) * 180.0 / math.Pi

	return b
}

// Padded returns a copy of the box grown by the given paddings, each applied
// along the box's own axes so a rotated box pads along its rotated sides
func (b RBBox) Padded(left, top, right, bottom float64) RBBox {

	rad := b.AngleOrZero() * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	sx := (right - left) / 2
	sy := (bottom - top) / 2

	b.xc += sx*cos - sy*sin
	b.yc += sx*sin + sy*cos
	b.width += left + right
	b.height += top + bottom

	return b
}

// IoU returns the intersection over union of the two boxes
func (b RBBox) IoU(other RBBox) float64 {

	inter := b.IntersectionArea(other)
	union := b.Area() + other.Area() - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// IoSelf returns the intersection area as a fraction of this box's area
func (b RBBox) IoSelf(other RBBox) float64 {

	area := b.Area()

	if area <= 0 {
		return 0
	}

	return b.IntersectionArea(other) / area
}

// IoOther returns the intersection area as a fraction of the other box's area
func (b RBBox) IoOther(other RBBox) float64 {

	area := other.Area()

	if area <= 0 {
		return 0
	}

	return b.IntersectionArea(other) / area
}

// IntersectionArea returns the overlap area of the two boxes. Axis aligned
// pairs use direct edge arithmetic, rotated pairs go through polygon
// clipping.
func (b RBBox) IntersectionArea(other RBBox) float64 {

	if b.AngleOrZero() == 0 && other.AngleOrZero() == 0 {
		iw := math.Min(b.xc+b.width/2, other.xc+other.width/2) -
			math.Max(b.xc-b.width/2, other.xc-other.width/2)

		if iw <= 0 {
			return 0
		}

		ih := math.Min(b.yc+b.height/2, other.yc+other.height/2) -
			math.Max(b.yc-b.height/2, other.yc-other.height/2)

		if ih <= 0 {
			return 0
		}

		return iw * ih
	}

	return clipIntersectionArea(b.Vertices(), other.Vertices())
}

// MetricType selects the overlap metric used when comparing two boxes
type MetricType int

const (
	// MetricIoU is intersection over union
	MetricIoU MetricType = iota
	// MetricIoSelf is intersection over the first box's area
	MetricIoSelf
	// MetricIoOther is intersection over the second box's area
	MetricIoOther
)

// String returns the name of the metric type
func (m MetricType) String() string {

	switch m {
	case MetricIoU:
		return "iou"
	case MetricIoSelf:
		return "ioself"
	case MetricIoOther:
		return "ioother"
	}

	return "unknown"
}

// Metric returns the value of the given overlap metric for the two boxes
func Metric(b, other RBBox, metric MetricType) float64 {

	switch metric {
	case MetricIoSelf:
		return b.IoSelf(other)
	case MetricIoOther:
		return b.IoOther(other)
	default:
		return b.IoU(other)
	}
}

// SolelyOwnedAreas returns, for each box, the area covered by that box and
// no other box in the list. When parallel is set the boxes are measured
// concurrently as each measurement is independent.
func SolelyOwnedAreas(boxes []RBBox, parallel bool) []float64 {

	areas := make([]float64, len(boxes))

	if !parallel {
		for i := range boxes {
			areas[i] = solelyOwnedArea(boxes, i)
		}
		return areas
	}

	var wg sync.WaitGroup

	for i := range boxes {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()
			areas[idx] = solelyOwnedArea(boxes, idx)
		}(i)
	}

	wg.Wait()

	return areas
}

// solelyOwnedArea returns the area of boxes[idx] not covered by any other
// box in the list
func solelyOwnedArea(boxes []RBBox, idx int) float64 {

	others := make([][]Point, 0, len(boxes)-1)

	for j, box := range boxes {
		if j == idx {
			continue
		}
		others = append(others, box.Vertices())
	}

	return clipDifferenceArea(boxes[idx].Vertices(), others)
}
