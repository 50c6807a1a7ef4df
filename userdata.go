package framemeta

import "github.com/swdee/go-framemeta/attribute"

// UserData is a light payload carrying attributes for a stream without a
// frame. Unlike VideoFrame it is single owner state with no internal
// locking.
type UserData struct {
	sourceID   string
	attributes attribute.Store
}

// NewUserData creates an empty user data payload for the given source
func NewUserData(sourceID string) *UserData {
	return &UserData{sourceID: sourceID}
}

// GetSourceID returns the stream identifier
func (u *UserData) GetSourceID() string {
	return u.sourceID
}

// SetSourceID sets the stream identifier
func (u *UserData) SetSourceID(sourceID string) {
	u.sourceID = sourceID
}

// SetAttribute inserts or overwrites the attribute under its key and
// returns the previous attribute if one was replaced
func (u *UserData) SetAttribute(a attribute.Attribute) (attribute.Attribute, bool) {
	return u.attributes.Set(a)
}

// GetAttribute returns the attribute stored under the exact key, hidden
// attributes included
func (u *UserData) GetAttribute(namespace, name string) (attribute.Attribute, bool) {
	return u.attributes.Get(namespace, name)
}

// DeleteAttribute removes and returns the attribute stored under the key
func (u *UserData) DeleteAttribute(namespace, name string) (attribute.Attribute, bool) {
	return u.attributes.Delete(namespace, name)
}

// FindAttributes returns the keys of the attributes matching the filter in
// insertion order
func (u *UserData) FindAttributes(f attribute.Filter) []attribute.Key {
	return u.attributes.Find(f)
}

// AttributeCount returns the number of attributes including hidden ones
func (u *UserData) AttributeCount() int {
	return u.attributes.Len()
}

// ClearAttributes removes all attributes
func (u *UserData) ClearAttributes() {
	u.attributes.Clear()
}

// EndOfStream marks the end of a source stream
type EndOfStream struct {
	sourceID string
}

// NewEndOfStream creates an end of stream marker for the given source
func NewEndOfStream(sourceID string) *EndOfStream {
	return &EndOfStream{sourceID: sourceID}
}

// GetSourceID returns the stream identifier
func (e *EndOfStream) GetSourceID() string {
	return e.sourceID
}
