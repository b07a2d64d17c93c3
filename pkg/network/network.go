package network

import (
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MagicSize is the width of a network magic in bytes.
const MagicSize = 4

// Magic is the 4-byte environment tag embedded in store file headers.
type Magic [MagicSize]byte

// String renders the magic as 8 lowercase hex digits.
func (m Magic) String() string {
	return hex.EncodeToString(m[:])
}

// ParseMagic parses 8 hex digits (e.g. "b8f4d5c2") into a Magic.
func ParseMagic(s string) (Magic, error) {
	var m Magic
	b, err := hex.DecodeString(s)
	if err != nil {
		return m, fmt.Errorf("invalid magic %q: %w", s, err)
	}
	if len(b) != MagicSize {
		return m, fmt.Errorf("invalid magic %q: need %d bytes, got %d", s, MagicSize, len(b))
	}
	copy(m[:], b)
	return m, nil
}

// MarshalYAML encodes the magic as a hex string.
func (m Magic) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML decodes a hex string into the magic.
func (m *Magic) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseMagic(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Network is a named environment a store file can be written for.
type Network struct {
	Name  string `yaml:"name"`
	Magic Magic  `yaml:"magic"`
}

// String renders the network as "name (magic)".
func (n Network) String() string {
	return fmt.Sprintf("%s (%s)", n.Name, n.Magic)
}
