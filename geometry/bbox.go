package geometry

// BBox represents an axis aligned bounding box defined by its center
// coordinates and dimensions
type BBox struct {
	XC     float64
	YC     float64
	Width  float64
	Height float64
}

// NewBBox creates a new BBox with the given center coordinates and dimensions
func NewBBox(xc, yc, width, height float64) BBox {
	return BBox{
		XC:     xc,
		YC:     yc,
		Width:  width,
		Height: height,
	}
}

// NewBBoxFromLTRB creates a BBox from (left, top, right, bottom) corner
// coordinates
func NewBBoxFromLTRB(left, top, right, bottom float64) BBox {
	return BBox{
		XC:     (left + right) / 2,
		YC:     (top + bottom) / 2,
		Width:  right - left,
		Height: bottom - top,
	}
}

// NewBBoxFromLTWH creates a BBox from top left corner coordinates with width
// and height
func NewBBoxFromLTWH(left, top, width, height float64) BBox {
	return BBox{
		XC:     left + width/2,
		YC:     top + height/2,
		Width:  width,
		Height: height,
	}
}

// Left returns the left edge x coordinate of the box
func (b BBox) Left() float64 {
	return b.XC - b.Width/2
}

// Top returns the top edge y coordinate of the box
func (b BBox) Top() float64 {
	return b.YC - b.Height/2
}

// Right returns the right edge x coordinate of the box
func (b BBox) Right() float64 {
	return b.XC + b.Width/2
}

// Bottom returns the bottom edge y coordinate of the box
func (b BBox) Bottom() float64 {
	return b.YC + b.Height/2
}

// LTRB returns the box as (left, top, right, bottom) corner coordinates
func (b BBox) LTRB() (float64, float64, float64, float64) {
	return b.Left(), b.Top(), b.Right(), b.Bottom()
}

// LTWH returns the box as top left corner coordinates with width and height
func (b BBox) LTWH() (float64, float64, float64, float64) {
	return b.Left(), b.Top(), b.Width, b.Height
}

// Area returns the area of the box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// AsRBBox converts the box to a rotated box with the angle fixed at zero
func (b BBox) AsRBBox() RBBox {
	return NewRBBoxWithAngle(b.XC, b.YC, b.Width, b.Height, 0)
}
