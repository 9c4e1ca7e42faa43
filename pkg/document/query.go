package document

import (
	"errors"
	"slices"

	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/record"
	"github.com/yaklabco/gosch/pkg/schematic"
)

// Records returns every record, header included, in stream order.
func (g *Graph) Records() []record.Record {
	return slices.Clone(g.records)
}

// Objects returns every object in record order.
func (g *Graph) Objects() []*schematic.Object {
	return slices.Clone(g.objects)
}

// Len returns the number of objects.
func (g *Graph) Len() int {
	return len(g.objects)
}

// Warnings returns the non-fatal conditions found while building.
func (g *Graph) Warnings() []diag.Warning {
	return slices.Clone(g.warnings)
}

// Object resolves a record index to its object.
func (g *Graph) Object(recordIndex int) (*schematic.Object, bool) {
	slot, ok := g.slotOf[recordIndex]
	if !ok {
		return nil, false
	}
	return g.objects[slot], true
}

// slot returns o's slot, verifying that o belongs to this graph.
func (g *Graph) slot(o *schematic.Object) (int, bool) {
	if o == nil {
		return noSlot, false
	}
	slot, ok := g.slotOf[o.RecordIndex]
	if !ok || g.objects[slot] != o {
		return noSlot, false
	}
	return slot, true
}

// Parent returns o's owner object.
func (g *Graph) Parent(o *schematic.Object) (*schematic.Object, bool) {
	slot, ok := g.slot(o)
	if !ok || g.parent[slot] == noSlot {
		return nil, false
	}
	return g.objects[g.parent[slot]], true
}

// Children returns the objects owned by o in record order.
func (g *Graph) Children(o *schematic.Object) []*schematic.Object {
	slot, ok := g.slot(o)
	if !ok {
		return nil
	}
	return g.resolve(g.children[slot])
}

// Roots returns the objects without a resolvable owner.
func (g *Graph) Roots() []*schematic.Object {
	return g.resolve(g.roots)
}

func (g *Graph) resolve(slots []int) []*schematic.Object {
	out := make([]*schematic.Object, 0, len(slots))
	for _, slot := range slots {
		out = append(out, g.objects[slot])
	}
	return out
}

// OfKind returns every object of the given kind in record order.
func (g *Graph) OfKind(kind schematic.Kind) []*schematic.Object {
	var out []*schematic.Object
	for _, obj := range g.objects {
		if obj.Kind == kind {
			out = append(out, obj)
		}
	}
	return out
}

// Sheet returns the document's sheet object, if any.
func (g *Graph) Sheet() (*schematic.Object, bool) {
	if g.sheet == noSlot {
		return nil, false
	}
	return g.objects[g.sheet], true
}

// FindParent returns the nearest ancestor of o with the given kind.
// The walk stops after MaxAncestorDepth hops, so owner cycles report not found.
func (g *Graph) FindParent(o *schematic.Object, kind schematic.Kind) (*schematic.Object, bool) {
	slot, ok := g.slot(o)
	if !ok {
		return nil, false
	}

	cur := g.parent[slot]
	for hops := 0; cur != noSlot && hops < MaxAncestorDepth; hops++ {
		if g.objects[cur].Kind == kind {
			return g.objects[cur], true
		}
		cur = g.parent[cur]
	}
	return nil, false
}

// SkipChildren returned from a WalkFunc skips the current object's children.
//
//nolint:errname,revive,staticcheck,gochecknoglobals // Named like fs.SkipDir.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each object with its depth below the root.
type WalkFunc func(o *schematic.Object, depth int) error

// Walk visits the forest depth-first, roots in record order and children in
// insertion order. Each object is visited at most once; objects reachable only
// through an owner cycle have no root and are not visited.
func (g *Graph) Walk(fn WalkFunc) error {
	type frame struct {
		slot  int
		depth int
	}

	visited := make([]bool, len(g.objects))
	stack := make([]frame, 0, len(g.roots))
	for i := len(g.roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{slot: g.roots[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[top.slot] {
			continue
		}
		visited[top.slot] = true

		err := fn(g.objects[top.slot], top.depth)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}

		kids := g.children[top.slot]
		for i := len(kids) - 1; i >= 0; i-- {
			if !visited[kids[i]] {
				stack = append(stack, frame{slot: kids[i], depth: top.depth + 1})
			}
		}
	}
	return nil
}

// FindParentRecord walks raw owner indices from the record at index, returning
// the first record (itself included) whose type id matches. The walk is bounded
// by the record count.
func (g *Graph) FindParentRecord(index, typeID int) (record.Record, bool) {
	pos, ok := g.recordAt[index]
	if !ok {
		return record.Record{}, false
	}

	for range len(g.records) + 1 {
		rec := g.records[pos]
		if rec.TypeID == typeID {
			return rec, true
		}
		owner := g.owners[pos]
		if owner < 0 {
			return record.Record{}, false
		}
		if pos, ok = g.recordAt[owner]; !ok {
			return record.Record{}, false
		}
	}
	return record.Record{}, false
}

// ChildRecords returns the records whose owner index is index, in stream order.
// With typeIDs given, only records of those types are returned.
func (g *Graph) ChildRecords(index int, typeIDs ...int) []record.Record {
	var out []record.Record
	for pos, rec := range g.records {
		if g.owners[pos] != index || rec.IsHeader() {
			continue
		}
		if len(typeIDs) > 0 && !slices.Contains(typeIDs, rec.TypeID) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
