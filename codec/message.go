/*
Package codec serializes frames, batches, updates and user data records
into self describing binary messages. The wire format is deterministic
CBOR, an envelope carries the version, the payload kind and an optional
payload checksum so receivers can route messages without decoding them
fully.
*/
package codec

import (
	framemeta "github.com/swdee/go-framemeta"
)

// Kind identifies the payload carried by a message
type Kind int

const (
	// KindUnknown marks a payload this build cannot interpret
	KindUnknown Kind = iota
	// KindVideoFrame carries a single frame
	KindVideoFrame
	// KindVideoFrameBatch carries an ordered set of frames
	KindVideoFrameBatch
	// KindVideoFrameUpdate carries a frame delta
	KindVideoFrameUpdate
	// KindUserData carries a free form attribute record
	KindUserData
	// KindEndOfStream marks the end of a source stream
	KindEndOfStream
)

func (k Kind) String() string {

	switch k {
	case KindVideoFrame:
		return "video_frame"
	case KindVideoFrameBatch:
		return "video_frame_batch"
	case KindVideoFrameUpdate:
		return "video_frame_update"
	case KindUserData:
		return "user_data"
	case KindEndOfStream:
		return "end_of_stream"
	}

	return "unknown"
}

// Message is a typed wrapper around one serializable payload. Exactly one
// payload member is set, selected by the kind.
type Message struct {
	kind     Kind
	frame    *framemeta.VideoFrame
	batch    *framemeta.VideoFrameBatch
	update   *framemeta.VideoFrameUpdate
	userData *framemeta.UserData
	eos      *framemeta.EndOfStream
	// rawKind and raw preserve an unknown payload for passthrough
	rawKind string
	raw     []byte
}

// NewVideoFrameMessage wraps a frame
func NewVideoFrameMessage(f *framemeta.VideoFrame) *Message {
	return &Message{kind: KindVideoFrame, frame: f}
}

// NewVideoFrameBatchMessage wraps a frame batch
func NewVideoFrameBatchMessage(b *framemeta.VideoFrameBatch) *Message {
	return &Message{kind: KindVideoFrameBatch, batch: b}
}

// NewVideoFrameUpdateMessage wraps a frame update
func NewVideoFrameUpdateMessage(u *framemeta.VideoFrameUpdate) *Message {
	return &Message{kind: KindVideoFrameUpdate, update: u}
}

// NewUserDataMessage wraps a user data record
func NewUserDataMessage(u *framemeta.UserData) *Message {
	return &Message{kind: KindUserData, userData: u}
}

// NewEndOfStreamMessage wraps an end of stream marker
func NewEndOfStreamMessage(e *framemeta.EndOfStream) *Message {
	return &Message{kind: KindEndOfStream, eos: e}
}

// Kind returns the payload kind
func (m *Message) Kind() Kind {
	return m.kind
}

// IsUnknown reports whether the payload could not be interpreted
func (m *Message) IsUnknown() bool {
	return m.kind == KindUnknown
}

// AsVideoFrame returns the frame payload
func (m *Message) AsVideoFrame() (*framemeta.VideoFrame, bool) {
	return m.frame, m.kind == KindVideoFrame
}

// AsVideoFrameBatch returns the batch payload
func (m *Message) AsVideoFrameBatch() (*framemeta.VideoFrameBatch, bool) {
	return m.batch, m.kind == KindVideoFrameBatch
}

// AsVideoFrameUpdate returns the update payload
func (m *Message) AsVideoFrameUpdate() (*framemeta.VideoFrameUpdate, bool) {
	return m.update, m.kind == KindVideoFrameUpdate
}

// AsUserData returns the user data payload
func (m *Message) AsUserData() (*framemeta.UserData, bool) {
	return m.userData, m.kind == KindUserData
}

// AsEndOfStream returns the end of stream payload
func (m *Message) AsEndOfStream() (*framemeta.EndOfStream, bool) {
	return m.eos, m.kind == KindEndOfStream
}
