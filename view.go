package framemeta

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/swdee/go-framemeta/geometry"
	"github.com/swdee/go-framemeta/matrix"
	"github.com/swdee/go-framemeta/query"
)

// ObjectsView is a snapshot ordered read handle over a subset of a frame's
// objects. Membership is fixed when the view is built, frame mutations
// after that do not change it. Views never mutate graph membership, object
// field and attribute mutation through a view goes through the object API
// and synchronizes on the frame lock as usual.
type ObjectsView struct {
	frame   *VideoFrame
	objects []*VideoObject
}

// Len returns the number of objects in the view
func (v *ObjectsView) Len() int {
	return len(v.objects)
}

// At returns the object at the given position
func (v *ObjectsView) At(i int) *VideoObject {
	return v.objects[i]
}

// Objects returns the view objects in view order
func (v *ObjectsView) Objects() []*VideoObject {

	out := make([]*VideoObject, len(v.objects))
	copy(out, v.objects)
	return out
}

// IDs returns the object ids in view order
func (v *ObjectsView) IDs() []int64 {
	v.frame.mu.RLock()
	defer v.frame.mu.RUnlock()

	out := make([]int64, len(v.objects))

	for i, o := range v.objects {
		out[i] = o.id
	}

	return out
}

// TrackIDs returns the track ids in view order, nil for untracked objects
func (v *ObjectsView) TrackIDs() []*int64 {
	v.frame.mu.RLock()
	defer v.frame.mu.RUnlock()

	out := make([]*int64, len(v.objects))

	for i, o := range v.objects {
		if o.trackID != nil {
			id := *o.trackID
			out[i] = &id
		}
	}

	return out
}

// SortedByID returns a new view over the same objects ordered by id
func (v *ObjectsView) SortedByID() *ObjectsView {
	v.frame.mu.RLock()
	defer v.frame.mu.RUnlock()

	objects := make([]*VideoObject, len(v.objects))
	copy(objects, v.objects)

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].id < objects[j].id
	})

	return &ObjectsView{frame: v.frame, objects: objects}
}

// Filter returns the sub view of objects matching the query, preserving
// view order. Only the view objects are evaluated, the frame graph is not
// walked again.
func (v *ObjectsView) Filter(q query.MatchQuery) *ObjectsView {
	v.frame.mu.RLock()
	defer v.frame.mu.RUnlock()

	var matched []*VideoObject

	for _, o := range v.objects {
		if q.Matches(objectAccessor{o}) {
			matched = append(matched, o)
		}
	}

	return &ObjectsView{frame: v.frame, objects: matched}
}

// Partition splits the view into objects matching the query and objects
// not matching it, both preserving view order. Every view object lands in
// exactly one of the two results.
func (v *ObjectsView) Partition(q query.MatchQuery) (*ObjectsView, *ObjectsView) {
	v.frame.mu.RLock()
	defer v.frame.mu.RUnlock()

	var matched, rest []*VideoObject

	for _, o := range v.objects {
		if q.Matches(objectAccessor{o}) {
			matched = append(matched, o)
		} else {
			rest = append(rest, o)
		}
	}

	return &ObjectsView{frame: v.frame, objects: matched},
		&ObjectsView{frame: v.frame, objects: rest}
}

// DetectionBoxes returns the detection boxes in view order
func (v *ObjectsView) DetectionBoxes() []geometry.RBBox {
	v.frame.mu.RLock()
	defer v.frame.mu.RUnlock()

	out := make([]geometry.RBBox, len(v.objects))

	for i, o := range v.objects {
		out[i] = o.detectionBox
	}

	return out
}

// DetectionBoxesMatrix exports the detection boxes as an n by 5 dense
// matrix of xc, yc, width, height, angle rows
func (v *ObjectsView) DetectionBoxesMatrix() (*mat.Dense, error) {
	return matrix.FromRBBoxes(v.DetectionBoxes())
}

// SetDetectionBoxesFromMatrix replaces the detection boxes of the view
// objects from an n by 5 matrix, row i updating object i. The row count
// must equal the view length.
func (v *ObjectsView) SetDetectionBoxesFromMatrix(m mat.Matrix) error {

	boxes, err := matrix.ToRBBoxes(m)

	if err != nil {
		return err
	}

	v.frame.mu.Lock()
	defer v.frame.mu.Unlock()

	if len(boxes) != len(v.objects) {
		return fmt.Errorf("%w: %d rows for %d objects", matrix.ErrShapeMismatch,
			len(boxes), len(v.objects))
	}

	for i, o := range v.objects {
		o.detectionBox = boxes[i]
	}

	return nil
}
