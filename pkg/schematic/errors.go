package schematic

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredAttribute is returned when an object lacks an attribute it needs to be placed.
var ErrMissingRequiredAttribute = errors.New("schematic: missing required attribute")

// MissingAttributeError identifies the record and attribute that failed to decode.
type MissingAttributeError struct {
	Record    int
	Kind      Kind
	Attribute string

	// Value is the unparseable value, or empty when the attribute is absent.
	Value string
}

// Error implements the error interface.
func (e *MissingAttributeError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("record %d (%s): attribute %q has invalid value %q", e.Record, e.Kind, e.Attribute, e.Value)
	}
	return fmt.Sprintf("record %d (%s): missing required attribute %q", e.Record, e.Kind, e.Attribute)
}

// Unwrap returns ErrMissingRequiredAttribute.
func (e *MissingAttributeError) Unwrap() error {
	return ErrMissingRequiredAttribute
}
