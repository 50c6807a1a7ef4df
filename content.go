package framemeta

// contentKind identifies the media reference variant of a frame
type contentKind int

const (
	contentNone contentKind = iota
	contentInternal
	contentExternal
)

// VideoFrameContent describes where the media for a frame lives. The frame
// model never interprets it, internal bytes pass through untouched.
type VideoFrameContent struct {
	kind     contentKind
	data     []byte
	method   string
	location string
}

// NoContent returns a content reference for a frame without media
func NoContent() VideoFrameContent {
	return VideoFrameContent{kind: contentNone}
}

// InternalContent returns a content reference embedding the media bytes
func InternalContent(data []byte) VideoFrameContent {

	d := make([]byte, len(data))
	copy(d, data)

	return VideoFrameContent{kind: contentInternal, data: d}
}

// ExternalContent returns a content reference locating the media elsewhere,
// method names the access scheme and location the address
func ExternalContent(method, location string) VideoFrameContent {
	return VideoFrameContent{kind: contentExternal, method: method, location: location}
}

// IsNone reports whether the frame carries no media reference
func (c VideoFrameContent) IsNone() bool {
	return c.kind == contentNone
}

// Internal returns the embedded media bytes and whether the content is
// internal
func (c VideoFrameContent) Internal() ([]byte, bool) {

	if c.kind != contentInternal {
		return nil, false
	}

	d := make([]byte, len(c.data))
	copy(d, c.data)

	return d, true
}

// External returns the access method and location and whether the content
// is external
func (c VideoFrameContent) External() (string, string, bool) {

	if c.kind != contentExternal {
		return "", "", false
	}

	return c.method, c.location, true
}
