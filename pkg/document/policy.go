package document

import (
	"fmt"
	"strings"
)

// Policy decides what happens to an object whose required attributes are missing.
type Policy int

const (
	// PolicySkip drops the object and records a warning.
	PolicySkip Policy = iota

	// PolicyAbort fails the whole build.
	PolicyAbort

	// PolicyGeneric keeps the object as an Unknown object and records a warning.
	PolicyGeneric
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyAbort:
		return "abort"
	case PolicyGeneric:
		return "generic"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return PolicySkip, nil
	case "abort":
		return PolicyAbort, nil
	case "generic":
		return PolicyGeneric, nil
	default:
		return PolicySkip, fmt.Errorf("unknown missing-attribute policy %q (valid: skip, abort, generic)", s)
	}
}

// PolicyNames returns the valid policy names.
func PolicyNames() []string {
	return []string{"skip", "abort", "generic"}
}
