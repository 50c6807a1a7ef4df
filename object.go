package framemeta

import (
	"fmt"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/geometry"
	"github.com/swdee/go-framemeta/query"
)

// VideoObject represents a single detected or tracked entity inside a
// frame. A detached object stands alone, once added to a VideoFrame the
// frame owns it and all accessors synchronize on the frame lock.
type VideoObject struct {
	// Unique ID within the owning frame
	id int64
	// Namespace of the producer that emitted the object
	namespace string
	// Object class label
	label string
	// Optional detection confidence
	confidence *float64
	// Bounding box of the detection
	detectionBox geometry.RBBox
	// Optional cross frame track ID
	trackID *int64
	// Optional box predicted by the tracker
	trackBox *geometry.RBBox
	// Optional parent object ID within the same frame
	parentID *int64
	// Optional label override used when rendering
	drawLabel *string
	// Attributes attached to the object
	attributes attribute.Store
	// Owning frame, nil while detached
	frame *VideoFrame
}

// NewObject creates a new detached VideoObject
func NewObject(id int64, namespace, label string, box geometry.RBBox) *VideoObject {
	return &VideoObject{
		id:           id,
		namespace:    namespace,
		label:        label,
		detectionBox: box,
	}
}

// rlock takes the owning frame read lock for an attached object
func (o *VideoObject) rlock() {
	if o.frame != nil {
		o.frame.mu.RLock()
	}
}

// runlock releases the owning frame read lock for an attached object
func (o *VideoObject) runlock() {
	if o.frame != nil {
		o.frame.mu.RUnlock()
	}
}

// lock takes the owning frame write lock for an attached object
func (o *VideoObject) lock() {
	if o.frame != nil {
		o.frame.mu.Lock()
	}
}

// unlock releases the owning frame write lock for an attached object
func (o *VideoObject) unlock() {
	if o.frame != nil {
		o.frame.mu.Unlock()
	}
}

// GetID returns the object id
func (o *VideoObject) GetID() int64 {
	o.rlock()
	defer o.runlock()
	return o.id
}

// GetNamespace returns the object namespace
func (o *VideoObject) GetNamespace() string {
	o.rlock()
	defer o.runlock()
	return o.namespace
}

// SetNamespace sets the object namespace
func (o *VideoObject) SetNamespace(namespace string) {
	o.lock()
	defer o.unlock()
	o.namespace = namespace
}

// GetLabel returns the object label
func (o *VideoObject) GetLabel() string {
	o.rlock()
	defer o.runlock()
	return o.label
}

// SetLabel sets the object label
func (o *VideoObject) SetLabel(label string) {
	o.lock()
	defer o.unlock()
	o.label = label
}

// GetConfidence returns the detection confidence and whether one is set
func (o *VideoObject) GetConfidence() (float64, bool) {
	o.rlock()
	defer o.runlock()

	if o.confidence == nil {
		return 0, false
	}

	return *o.confidence, true
}

// SetConfidence sets the detection confidence
func (o *VideoObject) SetConfidence(c float64) {
	o.lock()
	defer o.unlock()
	o.confidence = &c
}

// ClearConfidence removes the detection confidence
func (o *VideoObject) ClearConfidence() {
	o.lock()
	defer o.unlock()
	o.confidence = nil
}

// GetDetectionBox returns the detection box
func (o *VideoObject) GetDetectionBox() geometry.RBBox {
	o.rlock()
	defer o.runlock()
	return o.detectionBox
}

// SetDetectionBox sets the detection box
func (o *VideoObject) SetDetectionBox(box geometry.RBBox) {
	o.lock()
	defer o.unlock()
	o.detectionBox = box
}

// GetTrackID returns the track id and whether one is set
func (o *VideoObject) GetTrackID() (int64, bool) {
	o.rlock()
	defer o.runlock()

	if o.trackID == nil {
		return 0, false
	}

	return *o.trackID, true
}

// SetTrackID sets the track id
func (o *VideoObject) SetTrackID(id int64) {
	o.lock()
	defer o.unlock()
	o.trackID = &id
}

// ClearTrackID removes the track id
func (o *VideoObject) ClearTrackID() {
	o.lock()
	defer o.unlock()
	o.trackID = nil
}

// GetTrackBox returns the tracker predicted box and whether one is set
func (o *VideoObject) GetTrackBox() (geometry.RBBox, bool) {
	o.rlock()
	defer o.runlock()

	if o.trackBox == nil {
		return geometry.RBBox{}, false
	}

	return *o.trackBox, true
}

// SetTrackBox sets the tracker predicted box
func (o *VideoObject) SetTrackBox(box geometry.RBBox) {
	o.lock()
	defer o.unlock()
	o.trackBox = &box
}

// ClearTrackBox removes the tracker predicted box
func (o *VideoObject) ClearTrackBox() {
	o.lock()
	defer o.unlock()
	o.trackBox = nil
}

// GetParentID returns the parent object id and whether one is set
func (o *VideoObject) GetParentID() (int64, bool) {
	o.rlock()
	defer o.runlock()

	if o.parentID == nil {
		return 0, false
	}

	return *o.parentID, true
}

// GetParent returns the parent object and whether one is set. A detached
// object has no parent to resolve.
func (o *VideoObject) GetParent() (*VideoObject, bool) {
	o.rlock()
	defer o.runlock()

	if o.frame == nil || o.parentID == nil {
		return nil, false
	}

	p, ok := o.frame.objects[*o.parentID]
	return p, ok
}

// SetParent links the object to the parent with the given id. The parent
// must resolve within the owning frame and the link must not make the
// object its own ancestor.
func (o *VideoObject) SetParent(id int64) error {
	o.lock()
	defer o.unlock()

	if o.frame == nil {
		return fmt.Errorf("%w: object %d is detached", ErrNoSuchObject, o.id)
	}

	if _, ok := o.frame.objects[id]; !ok {
		return fmt.Errorf("%w: parent %d", ErrNoSuchObject, id)
	}

	// walk up from the proposed parent looking for ourselves
	for cur := &id; cur != nil; {
		if *cur == o.id {
			return fmt.Errorf("%w: object %d", ErrParentCycle, o.id)
		}

		p, ok := o.frame.objects[*cur]

		if !ok {
			break
		}

		cur = p.parentID
	}

	o.parentID = &id
	return nil
}

// ClearParent removes the parent link
func (o *VideoObject) ClearParent() {
	o.lock()
	defer o.unlock()
	o.parentID = nil
}

// GetChildren returns the objects of the owning frame whose parent link
// points at this object, in frame order
func (o *VideoObject) GetChildren() []*VideoObject {
	o.rlock()
	defer o.runlock()

	if o.frame == nil {
		return nil
	}

	var children []*VideoObject

	for _, id := range o.frame.order {
		c := o.frame.objects[id]

		if c.parentID != nil && *c.parentID == o.id {
			children = append(children, c)
		}
	}

	return children
}

// SetAttribute inserts or overwrites the attribute under its key and
// returns the previous attribute if one was replaced
func (o *VideoObject) SetAttribute(a attribute.Attribute) (attribute.Attribute, bool) {
	o.lock()
	defer o.unlock()
	return o.attributes.Set(a)
}

// GetAttribute returns the attribute stored under the exact key, hidden
// attributes included
func (o *VideoObject) GetAttribute(namespace, name string) (attribute.Attribute, bool) {
	o.rlock()
	defer o.runlock()
	return o.attributes.Get(namespace, name)
}

// DeleteAttribute removes and returns the attribute stored under the key
func (o *VideoObject) DeleteAttribute(namespace, name string) (attribute.Attribute, bool) {
	o.lock()
	defer o.unlock()
	return o.attributes.Delete(namespace, name)
}

// FindAttributes returns the keys of the attributes matching the filter in
// insertion order
func (o *VideoObject) FindAttributes(f attribute.Filter) []attribute.Key {
	o.rlock()
	defer o.runlock()
	return o.attributes.Find(f)
}

// DeleteAttributes removes the attributes matching the filter and returns
// their keys
func (o *VideoObject) DeleteAttributes(f attribute.Filter) []attribute.Key {
	o.lock()
	defer o.unlock()
	return o.attributes.DeleteMany(f)
}

// AttributeCount returns the number of attributes including hidden ones
func (o *VideoObject) AttributeCount() int {
	o.rlock()
	defer o.runlock()
	return o.attributes.Len()
}

// ClearAttributes removes all attributes
func (o *VideoObject) ClearAttributes() {
	o.lock()
	defer o.unlock()
	o.attributes.Clear()
}

// GetDrawLabel returns the label to render for the object, falling back to
// the object label when no override is set
func (o *VideoObject) GetDrawLabel() string {
	o.rlock()
	defer o.runlock()

	if o.drawLabel != nil {
		return *o.drawLabel
	}

	return o.label
}

// SetDrawLabel overrides the label to render for the object
func (o *VideoObject) SetDrawLabel(label string) {
	o.lock()
	defer o.unlock()
	o.drawLabel = &label
}

// ClearDrawLabel removes the rendering label override
func (o *VideoObject) ClearDrawLabel() {
	o.lock()
	defer o.unlock()
	o.drawLabel = nil
}

// Clone returns a detached deep copy of the object. The copy keeps the
// parent id but belongs to no frame.
func (o *VideoObject) Clone() *VideoObject {
	o.rlock()
	defer o.runlock()
	return o.clone()
}

// clone copies the object without synchronization
func (o *VideoObject) clone() *VideoObject {

	c := &VideoObject{
		id:           o.id,
		namespace:    o.namespace,
		label:        o.label,
		detectionBox: o.detectionBox,
		attributes:   *o.attributes.Clone(),
	}

	if o.confidence != nil {
		v := *o.confidence
		c.confidence = &v
	}

	if o.trackID != nil {
		v := *o.trackID
		c.trackID = &v
	}

	if o.trackBox != nil {
		v := *o.trackBox
		c.trackBox = &v
	}

	if o.parentID != nil {
		v := *o.parentID
		c.parentID = &v
	}

	if o.drawLabel != nil {
		v := *o.drawLabel
		c.drawLabel = &v
	}

	return c
}

// objectAccessor adapts a VideoObject to query evaluation without taking
// the frame lock, the caller must already hold it
type objectAccessor struct {
	o *VideoObject
}

func (a objectAccessor) ID() int64 {
	return a.o.id
}

func (a objectAccessor) Namespace() string {
	return a.o.namespace
}

func (a objectAccessor) Label() string {
	return a.o.label
}

func (a objectAccessor) Confidence() (float64, bool) {

	if a.o.confidence == nil {
		return 0, false
	}

	return *a.o.confidence, true
}

func (a objectAccessor) DetectionBox() geometry.RBBox {
	return a.o.detectionBox
}

func (a objectAccessor) TrackID() (int64, bool) {

	if a.o.trackID == nil {
		return 0, false
	}

	return *a.o.trackID, true
}

func (a objectAccessor) TrackBox() (geometry.RBBox, bool) {

	if a.o.trackBox == nil {
		return geometry.RBBox{}, false
	}

	return *a.o.trackBox, true
}

func (a objectAccessor) Parent() (query.Object, bool) {

	if a.o.frame == nil || a.o.parentID == nil {
		return nil, false
	}

	p, ok := a.o.frame.objects[*a.o.parentID]

	if !ok {
		return nil, false
	}

	return objectAccessor{p}, true
}

func (a objectAccessor) Children() []query.Object {

	if a.o.frame == nil {
		return nil
	}

	var children []query.Object

	for _, id := range a.o.frame.order {
		c := a.o.frame.objects[id]

		if c.parentID != nil && *c.parentID == a.o.id {
			children = append(children, objectAccessor{c})
		}
	}

	return children
}

func (a objectAccessor) Attribute(namespace, name string) (attribute.Attribute, bool) {
	return a.o.attributes.Get(namespace, name)
}

func (a objectAccessor) AttributeCount() int {
	return a.o.attributes.Len()
}
