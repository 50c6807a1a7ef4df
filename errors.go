package framemeta

import "errors"

var (
	// ErrDuplicateID is returned when an object id is already taken in the
	// frame and the collision policy does not resolve it
	ErrDuplicateID = errors.New("object id already present in frame")

	// ErrNoSuchObject is returned when an object id does not resolve
	// within the frame
	ErrNoSuchObject = errors.New("object id not present in frame")

	// ErrObjectAttached is returned when an object already owned by a
	// frame is added again
	ErrObjectAttached = errors.New("object already belongs to a frame")

	// ErrParentCycle is returned when a parent link would make an object
	// its own ancestor
	ErrParentCycle = errors.New("parent link would create a cycle")

	// ErrLabelCollision is returned by updates rejecting objects whose
	// namespace and label are already taken
	ErrLabelCollision = errors.New("object label already present in frame")

	// ErrAttributeCollision is returned by updates rejecting attributes
	// already present on the target
	ErrAttributeCollision = errors.New("attribute already present")

	// ErrUnknownVariant is returned when a snapshot carries a kind or
	// policy name this version does not recognize
	ErrUnknownVariant = errors.New("unknown variant")
)
