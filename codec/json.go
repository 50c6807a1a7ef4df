package codec

import (
	"encoding/json"
	"fmt"

	framemeta "github.com/swdee/go-framemeta"
)

// FrameToJSON renders a frame as a JSON document. The output is an export
// format for debugging and interop, there is no JSON decode path.
func FrameToJSON(f *framemeta.VideoFrame) (string, error) {

	data, err := json.Marshal(f.Snapshot())

	if err != nil {
		return "", fmt.Errorf("marshal frame: %w", err)
	}

	return string(data), nil
}

// FrameToJSONPretty renders a frame as an indented JSON document
func FrameToJSONPretty(f *framemeta.VideoFrame) (string, error) {

	data, err := json.MarshalIndent(f.Snapshot(), "", "  ")

	if err != nil {
		return "", fmt.Errorf("marshal frame: %w", err)
	}

	return string(data), nil
}

// UserDataToJSON renders a user data record as a JSON document
func UserDataToJSON(u *framemeta.UserData) (string, error) {

	data, err := json.Marshal(u.Snapshot())

	if err != nil {
		return "", fmt.Errorf("marshal user data: %w", err)
	}

	return string(data), nil
}
