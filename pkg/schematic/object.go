// Package schematic turns decoded records into typed schematic objects.
//
// Dispatch is data-only: a Registry maps record type ids to decode functions,
// each producing one Variant. Unregistered ids yield an Unknown object that keeps
// its full attribute map.
package schematic

import (
	"github.com/yaklabco/gosch/pkg/attrs"
)

// NoOwner is the owner index of an object without a structural parent.
const NoOwner = -1

// Point is a coordinate in schematic units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Variant is the kind-specific payload of an Object.
type Variant interface {
	Kind() Kind
}

// Object is one schematic object decoded from a record.
// Parent and child relations live in the document graph, not here.
type Object struct {
	// RecordIndex is the index of the source record (0-based, header excluded).
	RecordIndex int `json:"recordIndex"`

	// TypeID is the record's |RECORD=n| id, or -1.
	TypeID int `json:"typeId"`

	Kind Kind `json:"kind"`

	// OwnerIndex is the record index of the structural parent, or NoOwner.
	OwnerIndex int `json:"ownerIndex"`

	IndexInSheet int `json:"indexInSheet"`

	// OwnerPartID is nil when the record does not name a part.
	OwnerPartID *int `json:"ownerPartId,omitempty"`

	// Unknown is set for unregistered types and for objects kept generic after a decode failure.
	Unknown bool `json:"unknown,omitempty"`

	Attributes attrs.Map         `json:"attributes"`
	Raw        []attrs.Attribute `json:"-"`

	Data Variant `json:"data,omitempty"`
}

// Is reports whether the object has the given kind.
func (o *Object) Is(kind Kind) bool {
	return o != nil && o.Kind == kind
}

// As returns the object's variant as T.
func As[T Variant](o *Object) (T, bool) {
	var zero T
	if o == nil || o.Data == nil {
		return zero, false
	}
	v, ok := o.Data.(T)
	return v, ok
}

// Generic is the variant of Unknown objects. It carries no decoded fields.
type Generic struct{}

// Kind implements Variant.
func (*Generic) Kind() Kind { return KindUnknown }
