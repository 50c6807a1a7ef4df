package framemeta

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swdee/go-framemeta/attribute"
	"github.com/swdee/go-framemeta/query"
)

// IDCollisionPolicy selects how AddObject resolves an id already taken in
// the frame
type IDCollisionPolicy int

const (
	// IDCollisionError rejects the incoming object
	IDCollisionError IDCollisionPolicy = iota
	// IDCollisionGenerateNewID assigns the incoming object a fresh id
	IDCollisionGenerateNewID
	// IDCollisionOverwrite replaces the resident object wholesale
	IDCollisionOverwrite
)

// VideoFrame is the aggregate metadata record for one unit of video
// content. The frame owns its objects and attributes, a single
// reader/writer lock guards the whole aggregate so reads share and
// mutations are exclusive. Distinct frames are fully independent.
type VideoFrame struct {
	mu sync.RWMutex

	// Immutable identity assigned at construction
	uuid uuid.UUID
	// Identifier of the stream the frame belongs to
	sourceID string
	// Framerate as a rational string, eg: "30/1"
	framerate string
	// Frame dimensions
	width  int64
	height int64
	// Media reference
	content VideoFrameContent
	// Optional codec name
	codec *string
	// Optional keyframe flag
	keyframe *bool
	// Presentation timestamp
	pts int64
	// Optional decode timestamp
	dts *int64
	// Optional duration
	duration *int64
	// Creation time in nanoseconds
	creationTimestamp int64

	// Frame level attributes
	attributes attribute.Store
	// Objects keyed by id plus their insertion order
	objects map[int64]*VideoObject
	order   []int64
	// Geometric history of the media
	transformations []VideoFrameTransformation
	// Highest object id ever present, drives fresh id generation
	maxObjectID int64
}

// NewVideoFrame creates an empty frame for the given source with a fresh
// time ordered UUID and the current creation timestamp
func NewVideoFrame(sourceID, framerate string, width, height int64) *VideoFrame {
	return &VideoFrame{
		uuid:              uuid.Must(uuid.NewV7()),
		sourceID:          sourceID,
		framerate:         framerate,
		width:             width,
		height:            height,
		content:           NoContent(),
		creationTimestamp: time.Now().UnixNano(),
		objects:           make(map[int64]*VideoObject),
		maxObjectID:       -1,
	}
}

// GetUUID returns the immutable frame identity
func (f *VideoFrame) GetUUID() uuid.UUID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.uuid
}

// GetSourceID returns the stream identifier
func (f *VideoFrame) GetSourceID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sourceID
}

// SetSourceID sets the stream identifier
func (f *VideoFrame) SetSourceID(sourceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceID = sourceID
}

// GetFramerate returns the framerate string
func (f *VideoFrame) GetFramerate() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.framerate
}

// SetFramerate sets the framerate string
func (f *VideoFrame) SetFramerate(framerate string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.framerate = framerate
}

// GetWidth returns the frame width
func (f *VideoFrame) GetWidth() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.width
}

// SetWidth sets the frame width
func (f *VideoFrame) SetWidth(width int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width = width
}

// GetHeight returns the frame height
func (f *VideoFrame) GetHeight() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.height
}

// SetHeight sets the frame height
func (f *VideoFrame) SetHeight(height int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.height = height
}

// GetContent returns the media reference
func (f *VideoFrame) GetContent() VideoFrameContent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.content
}

// SetContent sets the media reference
func (f *VideoFrame) SetContent(c VideoFrameContent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = c
}

// GetCodec returns the codec name and whether one is set
func (f *VideoFrame) GetCodec() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.codec == nil {
		return "", false
	}

	return *f.codec, true
}

// SetCodec sets the codec name
func (f *VideoFrame) SetCodec(codec string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codec = &codec
}

// ClearCodec removes the codec name
func (f *VideoFrame) ClearCodec() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codec = nil
}

// GetKeyframe returns the keyframe flag and whether one is set
func (f *VideoFrame) GetKeyframe() (bool, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.keyframe == nil {
		return false, false
	}

	return *f.keyframe, true
}

// SetKeyframe sets the keyframe flag
func (f *VideoFrame) SetKeyframe(keyframe bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyframe = &keyframe
}

// ClearKeyframe removes the keyframe flag
func (f *VideoFrame) ClearKeyframe() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyframe = nil
}

// GetPTS returns the presentation timestamp
func (f *VideoFrame) GetPTS() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pts
}

// SetPTS sets the presentation timestamp
func (f *VideoFrame) SetPTS(pts int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pts = pts
}

// GetDTS returns the decode timestamp and whether one is set
func (f *VideoFrame) GetDTS() (int64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.dts == nil {
		return 0, false
	}

	return *f.dts, true
}

// SetDTS sets the decode timestamp
func (f *VideoFrame) SetDTS(dts int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dts = &dts
}

// ClearDTS removes the decode timestamp
func (f *VideoFrame) ClearDTS() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dts = nil
}

// GetDuration returns the frame duration and whether one is set
func (f *VideoFrame) GetDuration() (int64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.duration == nil {
		return 0, false
	}

	return *f.duration, true
}

// SetDuration sets the frame duration
func (f *VideoFrame) SetDuration(duration int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = &duration
}

// ClearDuration removes the frame duration
func (f *VideoFrame) ClearDuration() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.duration = nil
}

// GetCreationTimestamp returns the creation time in nanoseconds
func (f *VideoFrame) GetCreationTimestamp() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.creationTimestamp
}

// SetCreationTimestamp sets the creation time in nanoseconds
func (f *VideoFrame) SetCreationTimestamp(ts int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creationTimestamp = ts
}

// SetAttribute inserts or overwrites the frame attribute under its key and
// returns the previous attribute if one was replaced
func (f *VideoFrame) SetAttribute(a attribute.Attribute) (attribute.Attribute, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attributes.Set(a)
}

// GetAttribute returns the frame attribute stored under the exact key,
// hidden attributes included
func (f *VideoFrame) GetAttribute(namespace, name string) (attribute.Attribute, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.attributes.Get(namespace, name)
}

// DeleteAttribute removes and returns the frame attribute under the key
func (f *VideoFrame) DeleteAttribute(namespace, name string) (attribute.Attribute, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attributes.Delete(namespace, name)
}

// FindAttributes returns the keys of the frame attributes matching the
// filter in insertion order
func (f *VideoFrame) FindAttributes(filter attribute.Filter) []attribute.Key {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.attributes.Find(filter)
}

// DeleteAttributes removes the frame attributes matching the filter and
// returns their keys
func (f *VideoFrame) DeleteAttributes(filter attribute.Filter) []attribute.Key {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attributes.DeleteMany(filter)
}

// AttributeCount returns the number of frame attributes including hidden
// ones
func (f *VideoFrame) AttributeCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.attributes.Len()
}

// ClearAttributes removes all frame attributes
func (f *VideoFrame) ClearAttributes() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attributes.Clear()
}

// AddTransformation appends a step to the geometric history
func (f *VideoFrame) AddTransformation(t VideoFrameTransformation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transformations = append(f.transformations, t)
}

// Transformations returns a copy of the geometric history in order
func (f *VideoFrame) Transformations() []VideoFrameTransformation {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]VideoFrameTransformation, len(f.transformations))
	copy(out, f.transformations)
	return out
}

// ClearTransformations resets the geometric history
func (f *VideoFrame) ClearTransformations() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transformations = nil
}

// AddObject inserts the object into the frame under the given collision
// policy. The frame takes ownership of the object. An object with a parent
// id set must point at an object already present.
func (f *VideoFrame) AddObject(o *VideoObject, policy IDCollisionPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if o.frame != nil {
		return fmt.Errorf("%w: object %d", ErrObjectAttached, o.id)
	}

	if o.parentID != nil {
		if _, ok := f.objects[*o.parentID]; !ok {
			return fmt.Errorf("%w: parent %d", ErrNoSuchObject, *o.parentID)
		}
	}

	if prev, taken := f.objects[o.id]; taken {
		switch policy {
		case IDCollisionError:
			return fmt.Errorf("%w: id %d", ErrDuplicateID, o.id)

		case IDCollisionGenerateNewID:
			o.id = f.maxObjectID + 1
			f.order = append(f.order, o.id)

		case IDCollisionOverwrite:
			// the incoming object takes the resident's order slot
			prev.frame = nil
		}
	} else {
		f.order = append(f.order, o.id)
	}

	f.objects[o.id] = o
	o.frame = f

	if o.id > f.maxObjectID {
		f.maxObjectID = o.id
	}

	return nil
}

// GetObject returns the object with the given id
func (f *VideoFrame) GetObject(id int64) (*VideoObject, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	o, ok := f.objects[id]
	return o, ok
}

// ObjectCount returns the number of objects in the frame
func (f *VideoFrame) ObjectCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.order)
}

// MaxObjectID returns the highest object id ever present in the frame, -1
// for a frame that never held an object
func (f *VideoFrame) MaxObjectID() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.maxObjectID
}

// objectsMatching returns the objects matching the query in frame order,
// the caller must hold the lock
func (f *VideoFrame) objectsMatching(q query.MatchQuery) []*VideoObject {

	var matched []*VideoObject

	for _, id := range f.order {
		o := f.objects[id]

		if q.Matches(objectAccessor{o}) {
			matched = append(matched, o)
		}
	}

	return matched
}

// deleteByIDs removes the given objects, detaches them and nulls the
// parent links of surviving children, the caller must hold the write lock
func (f *VideoFrame) deleteByIDs(ids []int64) []*VideoObject {

	var deleted []*VideoObject
	removed := make(map[int64]bool, len(ids))

	for _, id := range ids {
		o, ok := f.objects[id]

		if !ok || removed[id] {
			continue
		}

		removed[id] = true
		delete(f.objects, id)
		o.frame = nil
		deleted = append(deleted, o)
	}

	if len(deleted) == 0 {
		return nil
	}

	kept := f.order[:0]

	for _, id := range f.order {
		if !removed[id] {
			kept = append(kept, id)
		}
	}

	f.order = kept

	// parent links of survivors must never dangle
	for _, id := range f.order {
		o := f.objects[id]

		if o.parentID != nil && removed[*o.parentID] {
			o.parentID = nil
		}
	}

	return deleted
}

// DeleteObjectsByIDs removes the objects with the given ids, nulls the
// parent links of surviving children and returns the detached objects
func (f *VideoFrame) DeleteObjectsByIDs(ids ...int64) []*VideoObject {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteByIDs(ids)
}

// DeleteObjects removes the objects matching the query, nulls the parent
// links of surviving children and returns the detached objects
func (f *VideoFrame) DeleteObjects(q query.MatchQuery) []*VideoObject {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := f.objectsMatching(q)
	ids := make([]int64, len(matched))

	for i, o := range matched {
		ids[i] = o.id
	}

	return f.deleteByIDs(ids)
}

// ClearObjects removes and detaches every object in the frame
func (f *VideoFrame) ClearObjects() []*VideoObject {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]int64, len(f.order))
	copy(ids, f.order)

	return f.deleteByIDs(ids)
}

// AccessObjects returns a snapshot view of the objects matching the query
// in frame order. Later frame mutations do not change the view membership.
func (f *VideoFrame) AccessObjects(q query.MatchQuery) *ObjectsView {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return &ObjectsView{
		frame:   f,
		objects: f.objectsMatching(q),
	}
}

// SetDrawLabel applies the rendering hint to the objects matching the
// query. An own hint labels the matched objects, a parent hint labels
// their parents.
func (f *VideoFrame) SetDrawLabel(q query.MatchQuery, kind DrawLabel) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.objectsMatching(q) {
		label := kind.Label()

		if !kind.IsParent() {
			o.drawLabel = &label
			continue
		}

		if o.parentID == nil {
			continue
		}

		if p, ok := f.objects[*o.parentID]; ok {
			p.drawLabel = &label
		}
	}
}
