package attrs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/pkg/attrs"
)

func TestParse_OrderedPairs(t *testing.T) {
	t.Parallel()

	got := attrs.Parse([]byte("|RECORD=1|OWNERINDEX=4|NAME=R1|\x00"))
	assert.Equal(t, []attrs.Attribute{
		{Name: "RECORD", Value: "1"},
		{Name: "OWNERINDEX", Value: "4"},
		{Name: "NAME", Value: "R1"},
	}, got)

	m := attrs.NewMap(got)
	assert.Equal(t, map[string]string{"record": "1", "ownerindex": "4", "name": "R1"}, m.All())
	assert.Equal(t, []string{"record", "ownerindex", "name"}, m.Keys())
}

func TestParse_EdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		payload  string
		expected []attrs.Attribute
	}{
		{
			name:     "empty",
			payload:  "",
			expected: nil,
		},
		{
			name:     "only terminator",
			payload:  "\x00",
			expected: nil,
		},
		{
			name:     "no terminator",
			payload:  "|A=1",
			expected: []attrs.Attribute{{Name: "A", Value: "1"}},
		},
		{
			name:     "empty value is skipped",
			payload:  "|A=|B=2|",
			expected: []attrs.Attribute{{Name: "B", Value: "2"}},
		},
		{
			name:     "duplicates retained",
			payload:  "|X=1|X=2|",
			expected: []attrs.Attribute{{Name: "X", Value: "1"}, {Name: "X", Value: "2"}},
		},
		{
			name:     "value with spaces",
			payload:  "|TEXT=Hello World|",
			expected: []attrs.Attribute{{Name: "TEXT", Value: "Hello World"}},
		},
		{
			name:     "utf8 value",
			payload:  "|%UTF8%TEXT=Ω 10k|",
			expected: []attrs.Attribute{{Name: "%UTF8%TEXT", Value: "Ω 10k"}},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, attrs.Parse([]byte(testCase.payload)))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"RECORD", "record"},
		{"Location.X", "locationx"},
		{"%UTF8%Text", "_utf8_text"},
		// Only the first dot is removed.
		{"A.B.C", "ab.c"},
		{"...", ".."},
		{"", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, attrs.Normalize(testCase.input))
		})
	}
}

func TestMap_LastWriteWins(t *testing.T) {
	t.Parallel()

	m := attrs.FromPayload([]byte("|Name=first|NAME=second|Other=x|\x00"))

	value, ok := m.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "second", value)
	assert.Equal(t, []string{"name", "other"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Has("other"))
	assert.False(t, m.Has("missing"))
	assert.Empty(t, m.Get("missing"))
}

func TestMap_ZeroValue(t *testing.T) {
	t.Parallel()

	var m attrs.Map
	_, ok := m.Lookup("x")
	assert.False(t, ok)
	assert.Empty(t, m.Keys())
	assert.Equal(t, map[string]string{}, m.All())

	out, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestText_InvalidUTF8(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a�b", attrs.Text([]byte{'a', 0xFF, 'b', 0}))
}
