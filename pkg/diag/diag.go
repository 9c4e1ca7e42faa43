// Package diag defines the non-fatal warnings accumulated while decoding a document.
package diag

import (
	"fmt"
	"math"
	"slices"
)

// Code identifies the category of a warning.
type Code string

// Warning codes.
const (
	// Container header anomalies.
	CodeHeaderCLSID    Code = "header-clsid"
	CodeHeaderReserved Code = "header-reserved"

	// Container directory anomalies that do not prevent decoding.
	CodeDirectoryEntry Code = "directory-entry"

	// Record stream anomalies.
	CodeRecordPadding Code = "record-padding"
	CodeRecordID      Code = "record-id"

	// Object graph anomalies.
	CodeUnknownRecordType Code = "unknown-record-type"
	CodeObjectSkipped     Code = "object-skipped"
	CodeObjectGeneric     Code = "object-generic"
	CodeMissingSheet      Code = "missing-sheet"
	CodeMultipleSheets    Code = "multiple-sheets"
	CodeSelfOwner         Code = "self-owner"
)

// NoOffset marks a warning without a byte offset.
const NoOffset int64 = -1

// NoRecord marks a warning that is not tied to a record.
// Record index -1 is the header pseudo-record, so a distinct sentinel is needed.
const NoRecord = math.MinInt32

// Warning is one non-fatal condition found during decoding.
type Warning struct {
	// Code categorizes the warning.
	Code Code

	// Message is the human-readable description.
	Message string

	// Offset is the byte offset in the container or stream, or NoOffset.
	Offset int64

	// Record is the record index, or NoRecord.
	Record int
}

// HasOffset reports whether the warning carries a byte offset.
func (w Warning) HasOffset() bool {
	return w.Offset != NoOffset
}

// HasRecord reports whether the warning is tied to a record.
func (w Warning) HasRecord() bool {
	return w.Record != NoRecord
}

// String formats the warning with its location.
func (w Warning) String() string {
	switch {
	case w.HasRecord() && w.HasOffset():
		return fmt.Sprintf("%s: record %d (offset %d): %s", w.Code, w.Record, w.Offset, w.Message)
	case w.HasRecord():
		return fmt.Sprintf("%s: record %d: %s", w.Code, w.Record, w.Message)
	case w.HasOffset():
		return fmt.Sprintf("%s: offset %d: %s", w.Code, w.Offset, w.Message)
	default:
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
}

// List accumulates warnings in the order they were raised.
// The zero value is ready to use; a nil *List discards everything.
type List struct {
	items []Warning
}

// Add appends a warning.
func (l *List) Add(w Warning) {
	if l == nil {
		return
	}
	l.items = append(l.items, w)
}

// Addf appends a formatted warning.
func (l *List) Addf(code Code, offset int64, record int, format string, args ...any) {
	l.Add(Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Record:  record,
	})
}

// Extend appends all warnings from another list.
func (l *List) Extend(other []Warning) {
	if l == nil {
		return
	}
	l.items = append(l.items, other...)
}

// All returns a copy of the accumulated warnings.
func (l *List) All() []Warning {
	if l == nil {
		return nil
	}
	return slices.Clone(l.items)
}

// Len returns the number of warnings.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Count returns how many warnings carry the given code.
func Count(warnings []Warning, code Code) int {
	n := 0
	for _, w := range warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}

// Filter returns the warnings whose code is not in suppressed.
func Filter(warnings []Warning, suppressed []string) []Warning {
	if len(suppressed) == 0 {
		return warnings
	}
	out := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if !slices.Contains(suppressed, string(w.Code)) {
			out = append(out, w)
		}
	}
	return out
}

// KnownCodes returns every warning code in a stable order.
func KnownCodes() []Code {
	return []Code{
		CodeHeaderCLSID,
		CodeHeaderReserved,
		CodeDirectoryEntry,
		CodeRecordPadding,
		CodeRecordID,
		CodeUnknownRecordType,
		CodeObjectSkipped,
		CodeObjectGeneric,
		CodeMissingSheet,
		CodeMultipleSheets,
		CodeSelfOwner,
	}
}

// Describe returns a one-line description of a warning code.
func Describe(code Code) string {
	switch code {
	case CodeHeaderCLSID:
		return "container header CLSID is not all zero"
	case CodeHeaderReserved:
		return "container header reserved bytes are not zero"
	case CodeDirectoryEntry:
		return "directory entry has an unsupported kind and was treated as unused"
	case CodeRecordPadding:
		return "record padding byte is not zero"
	case CodeRecordID:
		return "record payload carries no |RECORD=n| type tag"
	case CodeUnknownRecordType:
		return "record type is not registered; kept as an unknown object with raw attributes"
	case CodeObjectSkipped:
		return "object lacked a required attribute and was dropped"
	case CodeObjectGeneric:
		return "object lacked a required attribute and was kept as an unknown object"
	case CodeMissingSheet:
		return "document has no sheet object"
	case CodeMultipleSheets:
		return "document has more than one sheet object; the first is used"
	case CodeSelfOwner:
		return "object names itself as owner and was treated as a root"
	default:
		return "unknown warning code"
	}
}
