package codec

import (
	"fmt"
	"os"
)

// Save encodes a message and writes it to a file
func (c *Codec) Save(path string, m *Message) error {

	data, err := c.Encode(m)

	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write message file: %w", err)
	}

	return nil
}

// Load reads a message file and decodes it
func (c *Codec) Load(path string) (*Message, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("read message file: %w", err)
	}

	return c.Decode(data)
}
