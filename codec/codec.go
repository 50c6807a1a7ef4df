package codec

import (
	"fmt"
	"hash/crc32"

	"github.com/fxamacker/cbor/v2"

	framemeta "github.com/swdee/go-framemeta"
)

// Version is the wire format version stamped into every envelope. Decoders
// reject envelopes written under a different version.
const Version = 1

// envelope is the outer wire record. The payload is an opaque CBOR blob so
// routers can inspect kind and version without decoding it.
type envelope struct {
	Version  uint32          `cbor:"version"`
	Kind     string          `cbor:"kind"`
	Payload  cbor.RawMessage `cbor:"payload"`
	Checksum *uint32         `cbor:"checksum,omitempty"`
}

// encMode is the deterministic encoder shared by all codecs, equal inputs
// always produce equal bytes
var encMode cbor.EncMode

func init() {

	em, err := cbor.CoreDetEncOptions().EncMode()

	if err != nil {
		panic(err)
	}

	encMode = em
}

// Codec encodes and decodes messages. The zero value is ready to use.
type Codec struct {
	// SkipUnknown makes Decode hand back an unknown message for payload
	// kinds this build does not know instead of failing. Unknown messages
	// keep their payload and can be re encoded unchanged. The flag also
	// drops attribute values with unrecognized kinds during restore, an
	// attribute emptied by the drop goes away with them.
	SkipUnknown bool
	// Checksum makes Encode stamp a crc32 of the payload into the
	// envelope. Decode always verifies a stamp when one is present.
	Checksum bool
}

// Encode serializes a message into its binary wire form
func (c *Codec) Encode(m *Message) ([]byte, error) {

	var (
		payload []byte
		err     error
		kind    string
	)

	switch m.kind {

	case KindVideoFrame:
		payload, err = encMode.Marshal(m.frame.Snapshot())
		kind = m.kind.String()

	case KindVideoFrameBatch:
		payload, err = encMode.Marshal(m.batch.Snapshot())
		kind = m.kind.String()

	case KindVideoFrameUpdate:
		payload, err = encMode.Marshal(m.update.Snapshot())
		kind = m.kind.String()

	case KindUserData:
		payload, err = encMode.Marshal(m.userData.Snapshot())
		kind = m.kind.String()

	case KindEndOfStream:
		payload, err = encMode.Marshal(m.eos.Snapshot())
		kind = m.kind.String()

	case KindUnknown:
		// pass an undecoded payload through untouched
		if m.rawKind == "" {
			return nil, fmt.Errorf("%w: message has no payload", ErrUnknownVariant)
		}

		payload = m.raw
		kind = m.rawKind

	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownVariant, m.kind)
	}

	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}

	env := envelope{
		Version: Version,
		Kind:    kind,
		Payload: payload,
	}

	if c.Checksum {
		sum := crc32.ChecksumIEEE(payload)
		env.Checksum = &sum
	}

	data, err := encMode.Marshal(env)

	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}

	return data, nil
}

// Decode deserializes a binary message. The reconstructed payload is a live
// value, a decoded frame enforces the same invariants as one built in
// process.
func (c *Codec) Decode(data []byte) (*Message, error) {

	var env envelope

	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if env.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch,
			env.Version, Version)
	}

	if env.Checksum != nil {
		if sum := crc32.ChecksumIEEE(env.Payload); sum != *env.Checksum {
			return nil, fmt.Errorf("%w: got %08x, want %08x",
				ErrChecksumMismatch, sum, *env.Checksum)
		}
	}

	switch env.Kind {

	case "video_frame":
		var s framemeta.VideoFrameSnapshot

		if err := cbor.Unmarshal(env.Payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}

		if c.SkipUnknown {
			s.DropUnknownValues()
		}

		f, err := framemeta.FrameFromSnapshot(&s)

		if err != nil {
			return nil, fmt.Errorf("restore %s: %w", env.Kind, err)
		}

		return NewVideoFrameMessage(f), nil

	case "video_frame_batch":
		var s framemeta.VideoFrameBatchSnapshot

		if err := cbor.Unmarshal(env.Payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}

		if c.SkipUnknown {
			s.DropUnknownValues()
		}

		b, err := framemeta.BatchFromSnapshot(&s)

		if err != nil {
			return nil, fmt.Errorf("restore %s: %w", env.Kind, err)
		}

		return NewVideoFrameBatchMessage(b), nil

	case "video_frame_update":
		var s framemeta.VideoFrameUpdateSnapshot

		if err := cbor.Unmarshal(env.Payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}

		if c.SkipUnknown {
			s.DropUnknownValues()
		}

		u, err := framemeta.UpdateFromSnapshot(&s)

		if err != nil {
			return nil, fmt.Errorf("restore %s: %w", env.Kind, err)
		}

		return NewVideoFrameUpdateMessage(u), nil

	case "user_data":
		var s framemeta.UserDataSnapshot

		if err := cbor.Unmarshal(env.Payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}

		if c.SkipUnknown {
			s.DropUnknownValues()
		}

		u, err := framemeta.UserDataFromSnapshot(&s)

		if err != nil {
			return nil, fmt.Errorf("restore %s: %w", env.Kind, err)
		}

		return NewUserDataMessage(u), nil

	case "end_of_stream":
		var s framemeta.EndOfStreamSnapshot

		if err := cbor.Unmarshal(env.Payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Kind, err)
		}

		return NewEndOfStreamMessage(framemeta.EndOfStreamFromSnapshot(&s)), nil
	}

	if c.SkipUnknown {
		return &Message{kind: KindUnknown, rawKind: env.Kind, raw: env.Payload}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, env.Kind)
}
