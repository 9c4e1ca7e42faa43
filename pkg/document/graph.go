// Package document assembles schematic objects into an ownership forest.
//
// Objects live in one slice; parent and child links are slot indices into it.
// Owner references come from untrusted input, so every upward walk is bounded.
package document

import (
	"slices"

	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/record"
	"github.com/yaklabco/gosch/pkg/schematic"
)

// MaxAncestorDepth bounds every walk up the owner chain.
const MaxAncestorDepth = 1024

// noSlot marks a missing parent or sheet.
const noSlot = -1

// Options configures Build.
type Options struct {
	// Registry maps record types to decoders. Nil means schematic.DefaultRegistry().
	Registry *schematic.Registry

	// OnMissingAttribute selects how objects that fail to decode are handled.
	OnMissingAttribute Policy
}

// Graph is the read-only object graph of one document.
type Graph struct {
	records  []record.Record
	recordAt map[int]int // record index -> position in records
	owners   []int       // parallel to records; parsed OWNERINDEX or -1

	objects  []*schematic.Object
	slotOf   map[int]int // record index -> slot
	parent   []int
	children [][]int
	roots    []int
	sheet    int

	warnings []diag.Warning
}

// Build instantiates an object for every non-header record, then links each
// object to its owner. Records are retained as given.
func Build(records []record.Record, opts Options) (*Graph, error) {
	reg := opts.Registry
	if reg == nil {
		reg = schematic.DefaultRegistry()
	}

	var warn diag.List
	graph := &Graph{
		records:  slices.Clone(records),
		recordAt: make(map[int]int, len(records)),
		owners:   make([]int, len(records)),
		objects:  make([]*schematic.Object, 0, len(records)),
		slotOf:   make(map[int]int, len(records)),
		sheet:    noSlot,
	}

	sheets := 0
	for pos, rec := range graph.records {
		graph.recordAt[rec.Index] = pos
		graph.owners[pos] = schematic.NoOwner

		if rec.IsHeader() || rec.Index < 0 {
			continue
		}

		if _, known := reg.Lookup(rec.TypeID); !known {
			warn.Addf(diag.CodeUnknownRecordType, rec.Offset, rec.Index, "record type %d is not registered", rec.TypeID)
		}

		obj, err := reg.Build(rec)
		if err != nil {
			switch opts.OnMissingAttribute {
			case PolicyAbort:
				return nil, err
			case PolicyGeneric:
				obj = reg.BuildGeneric(rec)
				warn.Addf(diag.CodeObjectGeneric, rec.Offset, rec.Index, "kept as generic object: %v", err)
			default:
				warn.Addf(diag.CodeObjectSkipped, rec.Offset, rec.Index, "object skipped: %v", err)
				graph.owners[pos] = reg.BuildGeneric(rec).OwnerIndex
				continue
			}
		}

		graph.owners[pos] = obj.OwnerIndex
		if _, dup := graph.slotOf[rec.Index]; dup {
			continue
		}

		slot := len(graph.objects)
		graph.objects = append(graph.objects, obj)
		graph.slotOf[rec.Index] = slot

		if obj.Kind == schematic.KindSheet {
			sheets++
			if graph.sheet == noSlot {
				graph.sheet = slot
			}
		}
	}

	switch {
	case sheets == 0:
		warn.Addf(diag.CodeMissingSheet, diag.NoOffset, diag.NoRecord, "document has no sheet object")
	case sheets > 1:
		warn.Addf(diag.CodeMultipleSheets, diag.NoOffset, graph.objects[graph.sheet].RecordIndex,
			"document has %d sheet objects; using the first", sheets)
	}

	graph.link(&warn)
	graph.warnings = warn.All()
	return graph, nil
}

// link sets parent and child slots from owner indices. Unresolved owners and
// self-owners leave roots.
func (g *Graph) link(warn *diag.List) {
	g.parent = make([]int, len(g.objects))
	g.children = make([][]int, len(g.objects))

	for slot, obj := range g.objects {
		g.parent[slot] = noSlot
		if obj.OwnerIndex < 0 {
			g.roots = append(g.roots, slot)
			continue
		}
		owner, ok := g.slotOf[obj.OwnerIndex]
		if !ok {
			g.roots = append(g.roots, slot)
			continue
		}
		if owner == slot {
			warn.Addf(diag.CodeSelfOwner, diag.NoOffset, obj.RecordIndex,
				"object names itself as owner; treating it as a root")
			g.roots = append(g.roots, slot)
			continue
		}
		g.parent[slot] = owner
		g.children[owner] = append(g.children[owner], slot)
	}
}
