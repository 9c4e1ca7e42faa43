package schematic

import (
	"cmp"
	"slices"
	"sync"

	"github.com/yaklabco/gosch/pkg/attrs"
	"github.com/yaklabco/gosch/pkg/record"
)

// DecodeFunc builds a variant from a normalized attribute map.
// record is the source record index, used for error context.
type DecodeFunc func(m attrs.Map, record int) (Variant, error)

// Entry binds a record type id to a kind and its decoder.
type Entry struct {
	ID     int
	Kind   Kind
	Name   string
	Decode DecodeFunc
}

// Registry maps record type ids to decoders. It is immutable after construction
// and safe for concurrent use.
type Registry struct {
	byID   map[int]Entry
	byKind map[Kind]Entry
	sorted []Entry
}

// NewRegistry builds a registry from entries. A later entry with the same id replaces an earlier one.
func NewRegistry(entries []Entry) *Registry {
	reg := &Registry{
		byID:   make(map[int]Entry, len(entries)),
		byKind: make(map[Kind]Entry, len(entries)),
	}
	for _, entry := range entries {
		reg.byID[entry.ID] = entry
		reg.byKind[entry.Kind] = entry
	}

	reg.sorted = make([]Entry, 0, len(reg.byID))
	for _, entry := range reg.byID {
		reg.sorted = append(reg.sorted, entry)
	}
	slices.SortFunc(reg.sorted, func(a, b Entry) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return reg
}

//nolint:gochecknoglobals // Built lazily on first use, never mutated.
var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(DefaultEntries())
})

// DefaultRegistry returns the registry of every built-in record type.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// DefaultEntries returns the built-in record type table.
func DefaultEntries() []Entry {
	return []Entry{
		{ID: 1, Kind: KindComponent, Name: "Component", Decode: decodeComponent},
		{ID: 2, Kind: KindPin, Name: "Pin", Decode: decodePin},
		{ID: 3, Kind: KindIEEESymbol, Name: "IEEE Symbol", Decode: empty[IEEESymbol]},
		{ID: 4, Kind: KindLabel, Name: "Label", Decode: decodeLabel},
		{ID: 5, Kind: KindBezier, Name: "Bezier", Decode: decodeBezier},
		{ID: 6, Kind: KindPolyline, Name: "Polyline", Decode: decodePolyline},
		{ID: 7, Kind: KindPolygon, Name: "Polygon", Decode: decodePolygon},
		{ID: 8, Kind: KindEllipse, Name: "Ellipse", Decode: decodeEllipse},
		{ID: 9, Kind: KindPieChart, Name: "Pie Chart", Decode: empty[PieChart]},
		{ID: 10, Kind: KindRoundedRectangle, Name: "Rounded Rectangle", Decode: empty[RoundedRectangle]},
		{ID: 11, Kind: KindEllipticalArc, Name: "Elliptical Arc", Decode: empty[EllipticalArc]},
		{ID: 12, Kind: KindArc, Name: "Arc", Decode: decodeArc},
		{ID: 13, Kind: KindLine, Name: "Line", Decode: decodeLine},
		{ID: 14, Kind: KindRectangle, Name: "Rectangle", Decode: decodeRectangle},
		{ID: 15, Kind: KindSheetSymbol, Name: "Sheet Symbol", Decode: empty[SheetSymbol]},
		{ID: 16, Kind: KindSheetEntry, Name: "Sheet Entry", Decode: empty[SheetEntry]},
		{ID: 17, Kind: KindPowerPort, Name: "Power Port", Decode: decodePowerPort},
		{ID: 18, Kind: KindPort, Name: "Port", Decode: decodePort},
		{ID: 22, Kind: KindNoERC, Name: "No ERC", Decode: decodeNoERC},
		{ID: 25, Kind: KindNetLabel, Name: "Net Label", Decode: decodeNetLabel},
		{ID: 26, Kind: KindBus, Name: "Bus", Decode: decodeBus},
		{ID: 27, Kind: KindWire, Name: "Wire", Decode: decodeWire},
		{ID: 28, Kind: KindTextFrame, Name: "Text Frame", Decode: decodeTextFrame},
		{ID: 29, Kind: KindJunction, Name: "Junction", Decode: decodeJunction},
		{ID: 30, Kind: KindImage, Name: "Image", Decode: empty[Image]},
		{ID: 31, Kind: KindSheet, Name: "Sheet", Decode: decodeSheet},
		{ID: 34, Kind: KindDesignator, Name: "Designator", Decode: decodeDesignator},
		{ID: 41, Kind: KindParameter, Name: "Parameter", Decode: decodeParameter},
		{ID: 43, Kind: KindWarningSign, Name: "Warning Sign", Decode: empty[WarningSign]},
		{ID: 44, Kind: KindImplementationList, Name: "Implementation List", Decode: empty[ImplementationList]},
		{ID: 45, Kind: KindImplementation, Name: "Implementation", Decode: decodeImplementation},
		{ID: 46, Kind: KindImplementationPinAssociation, Name: "Implementation Pin Association",
			Decode: empty[ImplementationPinAssociation]},
		{ID: 47, Kind: KindImplementationPin, Name: "Implementation Pin", Decode: decodeImplementationPin},
		{ID: 48, Kind: KindImplementationParameterList, Name: "Implementation Parameter List",
			Decode: empty[ImplementationParameterList]},
	}
}

// empty decodes variants that carry no fields.
func empty[T any, P interface {
	*T
	Variant
}](attrs.Map, int) (Variant, error) {
	return P(new(T)), nil
}

// Lookup returns the entry for a record type id.
func (r *Registry) Lookup(id int) (Entry, bool) {
	entry, ok := r.byID[id]
	return entry, ok
}

// ForKind returns the entry that produces kind.
func (r *Registry) ForKind(kind Kind) (Entry, bool) {
	entry, ok := r.byKind[kind]
	return entry, ok
}

// Entries returns every entry sorted by id.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.sorted)
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Build decodes a record into an object. Unregistered ids yield an Unknown object.
// A decode failure returns the error and no object.
func (r *Registry) Build(rec record.Record) (*Object, error) {
	obj := newObject(rec)

	entry, ok := r.byID[rec.TypeID]
	if !ok {
		return obj, nil
	}

	data, err := entry.Decode(obj.Attributes, rec.Index)
	if err != nil {
		return nil, err
	}
	obj.Kind = entry.Kind
	obj.Unknown = false
	obj.Data = data
	return obj, nil
}

// BuildGeneric decodes only the common fields of a record and returns an Unknown object.
func (r *Registry) BuildGeneric(rec record.Record) *Object {
	return newObject(rec)
}

func newObject(rec record.Record) *Object {
	raw := rec.Attributes()
	m := attrs.NewMap(raw)
	f := newFields(m, rec.Index, KindUnknown)

	obj := &Object{
		RecordIndex:  rec.Index,
		TypeID:       rec.TypeID,
		Kind:         KindUnknown,
		OwnerIndex:   f.int("ownerindex", NoOwner),
		IndexInSheet: f.int("indexinsheet", -1),
		Unknown:      true,
		Attributes:   m,
		Raw:          raw,
		Data:         &Generic{},
	}
	if v, ok := ParseInt(m.Get("ownerpartid")); ok {
		obj.OwnerPartID = &v
	}
	return obj
}
