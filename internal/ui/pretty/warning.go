package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gosch/pkg/diag"
)

// Location renders a warning's record index and byte offset, e.g. "record 3 @0x2a".
// Warnings tied to neither return "-".
func Location(w diag.Warning) string {
	var parts []string
	if w.HasRecord() {
		parts = append(parts, fmt.Sprintf("record %d", w.Record))
	}
	if w.HasOffset() {
		parts = append(parts, fmt.Sprintf("@0x%x", w.Offset))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// FormatWarning formats a single decoding warning for terminal output.
func (s *Styles) FormatWarning(path string, w diag.Warning) string {
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		s.FilePath.Render(path)+s.Location.Render(" "+Location(w)),
		s.Warning.Render("warning"),
		s.Message.Render(w.Message),
		s.Code.Render("("+string(w.Code)+")"),
	)
}

// FormatFailure formats a file that could not be parsed.
func (s *Styles) FormatFailure(path string, err error) string {
	return fmt.Sprintf("  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Error.Render("error"),
		s.Message.Render(err.Error()),
	)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, warningCount int) string {
	header := s.FilePath.Render(path)
	if warningCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", warningCount, plural(warningCount, "warning", "warnings")))
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
