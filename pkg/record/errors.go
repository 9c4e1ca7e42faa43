package record

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecordMarker is returned when a record's marker byte is not zero.
	ErrInvalidRecordMarker = errors.New("record: invalid record marker")

	// ErrTruncatedRecord is returned when a record extends past the end of the stream.
	ErrTruncatedRecord = errors.New("record: truncated record")
)

// InvalidMarkerError reports a non-zero marker byte.
type InvalidMarkerError struct {
	Index  int
	Offset int64
	Marker byte
}

// Error implements the error interface.
func (e *InvalidMarkerError) Error() string {
	return fmt.Sprintf("record %d at offset %d: marker byte is 0x%02X, want 0x00", e.Index, e.Offset, e.Marker)
}

// Unwrap returns ErrInvalidRecordMarker.
func (e *InvalidMarkerError) Unwrap() error {
	return ErrInvalidRecordMarker
}

// TruncatedError reports a record prefix or payload cut short by the end of the stream.
type TruncatedError struct {
	Index  int
	Offset int64

	// Want is the number of bytes the record needs; Have is what the stream still holds.
	Want int
	Have int
}

// Error implements the error interface.
func (e *TruncatedError) Error() string {
	return fmt.Sprintf("record %d at offset %d: needs %d bytes but only %d remain", e.Index, e.Offset, e.Want, e.Have)
}

// Unwrap returns ErrTruncatedRecord.
func (e *TruncatedError) Unwrap() error {
	return ErrTruncatedRecord
}
