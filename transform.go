package framemeta

// transformationKind identifies the variant of a recorded transformation
type transformationKind int

const (
	transformationInitialSize transformationKind = iota
	transformationResultingSize
	transformationScale
	transformationPadding
)

// VideoFrameTransformation records one step of the geometric history
// applied to the media behind a frame. The history explains how object
// coordinates relate to the original picture.
type VideoFrameTransformation struct {
	kind   transformationKind
	width  int64
	height int64
	left   int64
	top    int64
	right  int64
	bottom int64
}

// InitialSize records the original media dimensions
func InitialSize(width, height int64) VideoFrameTransformation {
	return VideoFrameTransformation{
		kind:   transformationInitialSize,
		width:  width,
		height: height,
	}
}

// ResultingSize records the final media dimensions after processing
func ResultingSize(width, height int64) VideoFrameTransformation {
	return VideoFrameTransformation{
		kind:   transformationResultingSize,
		width:  width,
		height: height,
	}
}

// Scale records a resize to the given dimensions
func Scale(width, height int64) VideoFrameTransformation {
	return VideoFrameTransformation{
		kind:   transformationScale,
		width:  width,
		height: height,
	}
}

// Padding records pixels added on each side
func Padding(left, top, right, bottom int64) VideoFrameTransformation {
	return VideoFrameTransformation{
		kind:   transformationPadding,
		left:   left,
		top:    top,
		right:  right,
		bottom: bottom,
	}
}

// AsInitialSize returns the dimensions and whether the transformation is an
// initial size record
func (t VideoFrameTransformation) AsInitialSize() (int64, int64, bool) {

	if t.kind != transformationInitialSize {
		return 0, 0, false
	}

	return t.width, t.height, true
}

// AsResultingSize returns the dimensions and whether the transformation is
// a resulting size record
func (t VideoFrameTransformation) AsResultingSize() (int64, int64, bool) {

	if t.kind != transformationResultingSize {
		return 0, 0, false
	}

	return t.width, t.height, true
}

// AsScale returns the dimensions and whether the transformation is a scale
// record
func (t VideoFrameTransformation) AsScale() (int64, int64, bool) {

	if t.kind != transformationScale {
		return 0, 0, false
	}

	return t.width, t.height, true
}

// AsPadding returns the per side paddings and whether the transformation is
// a padding record
func (t VideoFrameTransformation) AsPadding() (int64, int64, int64, int64, bool) {

	if t.kind != transformationPadding {
		return 0, 0, 0, 0, false
	}

	return t.left, t.top, t.right, t.bottom, true
}
