package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ToTOML serializes the configuration to TOML format.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = ""
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// ToTOMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToTOMLWithHeader(header string) ([]byte, error) {
	tomlBytes, err := c.ToTOML()
	if err != nil {
		return nil, err
	}
	return withHeader(header, tomlBytes), nil
}

// FromTOML parses a configuration from TOML bytes.
func FromTOML(data []byte) (*Config, error) {
	cfg, _, err := DecodeTOML(data)
	return cfg, err
}

// DecodeTOML parses a configuration from TOML bytes and also returns the keys
// that did not map to any configuration field.
func DecodeTOML(data []byte) (*Config, []string, error) {
	cfg := &Config{}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parse toml: %w", err)
	}

	undecoded := meta.Undecoded()
	unknown := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}
