package codec

import "errors"

// ErrUnknownVariant is returned when a message carries a payload kind this
// build does not know
var ErrUnknownVariant = errors.New("unknown message variant")

// ErrVersionMismatch is returned when a message was written by an
// incompatible wire version
var ErrVersionMismatch = errors.New("wire version mismatch")

// ErrChecksumMismatch is returned when a stamped payload checksum does not
// match the payload
var ErrChecksumMismatch = errors.New("payload checksum mismatch")
