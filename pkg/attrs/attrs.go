// Package attrs extracts the pipe-delimited name=value pairs carried by record payloads.
package attrs

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// pairPattern matches one "|name=value" run. Neither part may contain '|' or '='.
var pairPattern = regexp.MustCompile(`\|([^|=]+?)=([^|=]+)`)

// Attribute is one raw name/value pair as it appears in the payload.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Text decodes a payload as UTF-8, dropping a trailing NUL terminator.
// Invalid sequences become U+FFFD.
func Text(payload []byte) string {
	if n := len(payload); n > 0 && payload[n-1] == 0 {
		payload = payload[:n-1]
	}
	return strings.ToValidUTF8(string(payload), "�")
}

// Parse returns the payload's pairs in order of appearance. Duplicates are kept.
func Parse(payload []byte) []Attribute {
	matches := pairPattern.FindAllStringSubmatch(Text(payload), -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]Attribute, 0, len(matches))
	for _, m := range matches {
		out = append(out, Attribute{Name: m[1], Value: m[2]})
	}
	return out
}

// Normalize maps a raw attribute name to its lookup key: lowercase, every '%'
// replaced by '_', and only the first '.' removed ("A.B.C" becomes "ab.c").
//
// Normalize is not idempotent; apply it to raw names only.
func Normalize(name string) string {
	key := strings.ReplaceAll(strings.ToLower(name), "%", "_")
	return strings.Replace(key, ".", "", 1)
}

// Map is a normalized, read-only view of a record's attributes.
// The zero value is an empty map.
type Map struct {
	values map[string]string
	keys   []string
}

// NewMap normalizes attrs into a map. A later pair overwrites an earlier one
// with the same key; Keys keeps the order of first appearance.
func NewMap(attrs []Attribute) Map {
	m := Map{values: make(map[string]string, len(attrs))}
	for _, attr := range attrs {
		key := Normalize(attr.Name)
		if _, seen := m.values[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.values[key] = attr.Value
	}
	return m
}

// FromPayload parses and normalizes a payload in one step.
func FromPayload(payload []byte) Map {
	return NewMap(Parse(payload))
}

// Lookup returns the value stored under a normalized key.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Get returns the value under key, or "" if absent.
func (m Map) Get(key string) string {
	return m.values[key]
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of distinct keys.
func (m Map) Len() int {
	return len(m.values)
}

// Keys returns the normalized keys in order of first appearance.
func (m Map) Keys() []string {
	return slices.Clone(m.keys)
}

// All returns a copy of the underlying map.
func (m Map) All() map[string]string {
	if m.values == nil {
		return map[string]string{}
	}
	return maps.Clone(m.values)
}

// MarshalJSON encodes the map as a JSON object.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.All())
}
