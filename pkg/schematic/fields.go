package schematic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/gosch/pkg/attrs"
)

// utf8Prefix marks attributes that carry a UTF-8 copy of a legacy-encoded value.
const utf8Prefix = "_utf8_"

//nolint:gochecknoglobals // Compiled once.
var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// ParseInt reads the leading base-10 integer of s after optional whitespace,
// so "12mil" yields 12. It reports false when no digits lead the string.
func ParseInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat reads the leading decimal number of s.
func ParseFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// fields reads typed values out of a normalized attribute map.
// The first required-attribute failure is kept in err; later reads still return defaults.
type fields struct {
	m      attrs.Map
	record int
	kind   Kind
	err    error
}

func newFields(m attrs.Map, record int, kind Kind) *fields {
	return &fields{m: m, record: record, kind: kind}
}

func (f *fields) fail(key, value string) {
	if f.err == nil {
		f.err = &MissingAttributeError{Record: f.record, Kind: f.kind, Attribute: key, Value: value}
	}
}

// str returns the raw value or "".
func (f *fields) str(key string) string {
	return f.m.Get(key)
}

// text prefers the UTF-8 variant of key.
func (f *fields) text(key string) string {
	if v, ok := f.m.Lookup(utf8Prefix + key); ok {
		return v
	}
	return f.m.Get(key)
}

func (f *fields) int(key string, def int) int {
	if v, ok := ParseInt(f.m.Get(key)); ok {
		return v
	}
	return def
}

func (f *fields) requiredInt(key string) int {
	raw, ok := f.m.Lookup(key)
	if !ok {
		f.fail(key, "")
		return 0
	}
	v, ok := ParseInt(raw)
	if !ok {
		f.fail(key, raw)
		return 0
	}
	return v
}

func (f *fields) float(key string, def float64) float64 {
	if v, ok := ParseFloat(f.m.Get(key)); ok {
		return v
	}
	return def
}

// bool is true only for the literal "T".
func (f *fields) bool(key string) bool {
	return f.m.Get(key) == "T"
}

// color reads "color", falling back to the "colour" spelling some records use.
func (f *fields) color(def int) int {
	if f.m.Has("color") {
		return f.int("color", def)
	}
	return f.int("colour", def)
}

// Coordinate keys. "Location.X" normalizes to "locationx".
const (
	keyLocationX = "locationx"
	keyLocationY = "locationy"
	keyCornerX   = "cornerx"
	keyCornerY   = "cornery"
)

// location reads the required Location.X/Location.Y pair.
func (f *fields) location() Point {
	return Point{X: f.requiredInt(keyLocationX), Y: f.requiredInt(keyLocationY)}
}

// optionalLocation reads Location.X/Location.Y, defaulting each to zero.
func (f *fields) optionalLocation() Point {
	return Point{X: f.int(keyLocationX, 0), Y: f.int(keyLocationY, 0)}
}

// corner reads the required Corner.X/Corner.Y pair.
func (f *fields) corner() Point {
	return Point{X: f.requiredInt(keyCornerX), Y: f.requiredInt(keyCornerY)}
}

// points reads x1/y1, x2/y2, ... until an x coordinate is absent.
func (f *fields) points() []Point {
	var out []Point
	for i := 1; ; i++ {
		n := strconv.Itoa(i)
		if !f.m.Has("x" + n) {
			return out
		}
		out = append(out, Point{X: f.int("x"+n, 0), Y: f.int("y"+n, 0)})
	}
}
