package config

import (
	"fmt"
	"strings"
)

// Formats returns every output format in display order.
func Formats() []OutputFormat {
	return []OutputFormat{
		FormatText, FormatTable, FormatJSON, FormatTree,
		FormatBOM, FormatMarkdown, FormatHTML, FormatSummary,
	}
}

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	for _, known := range Formats() {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat converts a format name to an OutputFormat.
// "md" is accepted for markdown.
func ParseFormat(s string) (OutputFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "md" {
		return FormatMarkdown, nil
	}
	format := OutputFormat(name)
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q (valid: %s)", s, FormatNames())
	}
	return format, nil
}

// FormatNames returns the format names joined for help text.
func FormatNames() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// IsValidPolicy returns true if name is a missing-attribute policy.
func IsValidPolicy(name string) bool {
	switch name {
	case PolicySkip, PolicyAbort, PolicyGeneric:
		return true
	default:
		return false
	}
}
