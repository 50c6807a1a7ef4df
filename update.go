package framemeta

import (
	"fmt"

	"github.com/swdee/go-framemeta/attribute"
)

// AttributeUpdatePolicy selects how an update resolves attributes whose
// key is already present on the target
type AttributeUpdatePolicy int

const (
	// ReplaceWithForeign overwrites the resident attribute
	ReplaceWithForeign AttributeUpdatePolicy = iota
	// KeepOwn keeps the resident attribute and drops the incoming one
	KeepOwn
	// ErrorOnCollision rejects the whole update
	ErrorOnCollision
)

// String returns the policy wire name
func (p AttributeUpdatePolicy) String() string {

	switch p {
	case ReplaceWithForeign:
		return "replace_with_foreign"
	case KeepOwn:
		return "keep_own"
	case ErrorOnCollision:
		return "error"
	}

	return "unknown"
}

// ObjectUpdatePolicy selects how an update merges incoming objects into
// the frame
type ObjectUpdatePolicy int

const (
	// AddForeignObjects inserts every incoming object under a fresh id
	AddForeignObjects ObjectUpdatePolicy = iota
	// ErrorIfLabelsCollide rejects the update when an incoming object
	// shares namespace and label with a resident object
	ErrorIfLabelsCollide
	// ReplaceSameLabelObjects removes resident objects sharing namespace
	// and label with an incoming object, then inserts the incoming one
	ReplaceSameLabelObjects
)

// String returns the policy wire name
func (p ObjectUpdatePolicy) String() string {

	switch p {
	case AddForeignObjects:
		return "add_foreign_objects"
	case ErrorIfLabelsCollide:
		return "error_if_labels_collide"
	case ReplaceSameLabelObjects:
		return "replace_same_label_objects"
	}

	return "unknown"
}

// objectAttributeUpdate carries one attribute addressed to a resident
// object
type objectAttributeUpdate struct {
	objectID int64
	attr     attribute.Attribute
}

// updateObject carries one incoming object and its optional parent id
type updateObject struct {
	object   *VideoObject
	parentID *int64
}

// VideoFrameUpdate is a serializable delta applied to a frame: frame
// attributes, attributes addressed to resident objects and new objects,
// each group governed by its policy. Applying an update does not consume
// it, incoming objects are cloned on apply.
type VideoFrameUpdate struct {
	frameAttributes       []attribute.Attribute
	objectAttributes      []objectAttributeUpdate
	objects               []updateObject
	frameAttributePolicy  AttributeUpdatePolicy
	objectAttributePolicy AttributeUpdatePolicy
	objectPolicy          ObjectUpdatePolicy
}

// NewVideoFrameUpdate creates an empty update with the replace and add
// policies
func NewVideoFrameUpdate() *VideoFrameUpdate {
	return &VideoFrameUpdate{}
}

// AddFrameAttribute appends a frame attribute to the update
func (u *VideoFrameUpdate) AddFrameAttribute(a attribute.Attribute) {
	u.frameAttributes = append(u.frameAttributes, a)
}

// AddObjectAttribute appends an attribute addressed to the resident object
// with the given id
func (u *VideoFrameUpdate) AddObjectAttribute(objectID int64, a attribute.Attribute) {
	u.objectAttributes = append(u.objectAttributes, objectAttributeUpdate{
		objectID: objectID,
		attr:     a,
	})
}

// AddObject appends an incoming object with an optional parent id. The
// parent id refers to an object resident in the target frame.
func (u *VideoFrameUpdate) AddObject(o *VideoObject, parentID *int64) {

	var pid *int64

	if parentID != nil {
		v := *parentID
		pid = &v
	}

	u.objects = append(u.objects, updateObject{object: o, parentID: pid})
}

// SetFrameAttributePolicy selects the collision policy for frame
// attributes
func (u *VideoFrameUpdate) SetFrameAttributePolicy(p AttributeUpdatePolicy) {
	u.frameAttributePolicy = p
}

// SetObjectAttributePolicy selects the collision policy for object
// attributes
func (u *VideoFrameUpdate) SetObjectAttributePolicy(p AttributeUpdatePolicy) {
	u.objectAttributePolicy = p
}

// SetObjectPolicy selects the merge policy for incoming objects
func (u *VideoFrameUpdate) SetObjectPolicy(p ObjectUpdatePolicy) {
	u.objectPolicy = p
}

// FrameAttributes returns the frame attributes carried by the update
func (u *VideoFrameUpdate) FrameAttributes() []attribute.Attribute {

	out := make([]attribute.Attribute, len(u.frameAttributes))
	copy(out, u.frameAttributes)
	return out
}

// Update applies the delta to the frame under a single exclusive lock.
// Validation runs before any mutation, a rejected update leaves the frame
// untouched.
func (f *VideoFrame) Update(u *VideoFrameUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// validate attribute targets and collision policies first
	if u.frameAttributePolicy == ErrorOnCollision {
		for _, a := range u.frameAttributes {
			if _, ok := f.attributes.Get(a.Namespace, a.Name); ok {
				return fmt.Errorf("%w: frame attribute %s.%s",
					ErrAttributeCollision, a.Namespace, a.Name)
			}
		}
	}

	for _, oa := range u.objectAttributes {
		o, ok := f.objects[oa.objectID]

		if !ok {
			return fmt.Errorf("%w: update targets object %d", ErrNoSuchObject,
				oa.objectID)
		}

		if u.objectAttributePolicy == ErrorOnCollision {
			if _, taken := o.attributes.Get(oa.attr.Namespace, oa.attr.Name); taken {
				return fmt.Errorf("%w: object %d attribute %s.%s",
					ErrAttributeCollision, oa.objectID,
					oa.attr.Namespace, oa.attr.Name)
			}
		}
	}

	if u.objectPolicy == ErrorIfLabelsCollide {
		for _, in := range u.objects {
			for _, id := range f.order {
				o := f.objects[id]

				if o.namespace == in.object.namespace && o.label == in.object.label {
					return fmt.Errorf("%w: %s.%s", ErrLabelCollision,
						o.namespace, o.label)
				}
			}
		}
	}

	for _, in := range u.objects {
		if in.parentID != nil {
			if _, ok := f.objects[*in.parentID]; !ok {
				return fmt.Errorf("%w: update parent %d", ErrNoSuchObject,
					*in.parentID)
			}
		}
	}

	// apply frame attributes
	for _, a := range u.frameAttributes {
		if u.frameAttributePolicy == KeepOwn {
			if _, ok := f.attributes.Get(a.Namespace, a.Name); ok {
				continue
			}
		}

		f.attributes.Set(a)
	}

	// apply object attributes
	for _, oa := range u.objectAttributes {
		o := f.objects[oa.objectID]

		if u.objectAttributePolicy == KeepOwn {
			if _, ok := o.attributes.Get(oa.attr.Namespace, oa.attr.Name); ok {
				continue
			}
		}

		o.attributes.Set(oa.attr)
	}

	// apply objects
	for _, in := range u.objects {
		if u.objectPolicy == ReplaceSameLabelObjects {
			var stale []int64

			for _, id := range f.order {
				o := f.objects[id]

				if o.namespace == in.object.namespace && o.label == in.object.label {
					stale = append(stale, id)
				}
			}

			f.deleteByIDs(stale)
		}

		o := in.object.clone()
		o.id = f.maxObjectID + 1
		o.parentID = nil

		if in.parentID != nil {
			v := *in.parentID
			o.parentID = &v
		}

		// the parent may itself have been replaced just above
		if o.parentID != nil {
			if _, ok := f.objects[*o.parentID]; !ok {
				o.parentID = nil
			}
		}

		f.objects[o.id] = o
		f.order = append(f.order, o.id)
		o.frame = f
		f.maxObjectID = o.id
	}

	return nil
}
