package cfb

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these.
var (
	// ErrFormat marks structural or header validation failures.
	ErrFormat = errors.New("cfb: invalid or unsupported container format")

	// ErrCorrupt marks broken sector chains and invalid directory references.
	ErrCorrupt = errors.New("cfb: corrupt container")

	// ErrStreamNotFound is returned when a directory path or entry id does not resolve.
	ErrStreamNotFound = errors.New("cfb: stream not found")

	// ErrNotStream is returned when a storage entry is read as a stream.
	ErrNotStream = errors.New("cfb: entry is not a stream")
)

// noOffset marks an error without a known file offset.
const noOffset int64 = -1

// FormatError reports a header field that failed validation.
type FormatError struct {
	// Field names the header field.
	Field string

	// Offset is the byte offset of the field in the file.
	Offset int64

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("cfb: %s at offset %d: %s", e.Field, e.Offset, e.Message)
}

// Unwrap returns ErrFormat.
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// CorruptContainerError reports a broken chain or invalid directory reference.
type CorruptContainerError struct {
	// Offset is the file offset of the offending sector or entry, or -1 if unknown.
	Offset int64

	// Sector is the offending sector (or mini-sector, or entry) index.
	Sector uint32

	// Message describes the failure.
	Message string

	// Err is an optional underlying cause.
	Err error
}

// Error implements the error interface.
func (e *CorruptContainerError) Error() string {
	msg := "cfb: corrupt container"
	if e.Offset != noOffset {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrCorrupt and the underlying cause, if any.
func (e *CorruptContainerError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCorrupt}
	}
	return []error{ErrCorrupt, e.Err}
}

// StreamError reports a stream lookup or read on the wrong kind of entry.
type StreamError struct {
	// ID is the entry id, or NoStream for path lookups.
	ID uint32

	// Name is the entry name or the joined lookup path.
	Name string

	// Err is ErrStreamNotFound or ErrNotStream.
	Err error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.ID == NoStream {
		return fmt.Sprintf("%v: %q", e.Err, e.Name)
	}
	if e.Name == "" {
		return fmt.Sprintf("%v: entry %d", e.Err, e.ID)
	}
	return fmt.Sprintf("%v: entry %d (%q)", e.Err, e.ID, e.Name)
}

// Unwrap returns the sentinel.
func (e *StreamError) Unwrap() error {
	return e.Err
}

func corruptf(offset int64, sector uint32, format string, args ...any) *CorruptContainerError {
	return &CorruptContainerError{
		Offset:  offset,
		Sector:  sector,
		Message: fmt.Sprintf(format, args...),
	}
}
