// Package bom derives a bill of materials from a document's designators.
package bom

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/yaklabco/gosch/pkg/schematic"
)

// Source is the part of a document graph the BOM needs.
type Source interface {
	OfKind(kind schematic.Kind) []*schematic.Object
	Parent(o *schematic.Object) (*schematic.Object, bool)
	InCurrentPart(o *schematic.Object) bool
}

// Line is one placed part.
type Line struct {
	Designator  string `json:"designator"`
	Part        string `json:"part"`
	Description string `json:"description"`
}

// Group is a set of lines sharing part and description.
type Group struct {
	Part        string   `json:"part"`
	Description string   `json:"description"`
	Designators []string `json:"designators"`
}

// Quantity returns the number of designators in the group.
func (g Group) Quantity() int {
	return len(g.Designators)
}

// Derive returns one line per visible designator directly owned by a component,
// in record order. Double quotes in descriptions become single quotes.
func Derive(src Source) []Line {
	var lines []Line
	for _, obj := range src.OfKind(schematic.KindDesignator) {
		if !src.InCurrentPart(obj) {
			continue
		}
		designator, ok := schematic.As[*schematic.Designator](obj)
		if !ok {
			continue
		}
		owner, ok := src.Parent(obj)
		if !ok {
			continue
		}
		component, ok := schematic.As[*schematic.Component](owner)
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Designator:  designator.Text,
			Part:        component.DesignItemID,
			Description: strings.ReplaceAll(component.Description, `"`, "'"),
		})
	}
	return lines
}

// GroupLines merges lines with the same part and description. Groups are
// ordered by part, then description; designators keep their input order.
func GroupLines(lines []Line) []Group {
	type key struct{ part, description string }

	index := make(map[key]int)
	var groups []Group
	for _, line := range lines {
		k := key{line.Part, line.Description}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Part: line.Part, Description: line.Description})
		}
		groups[i].Designators = append(groups[i].Designators, line.Designator)
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		return cmp.Or(cmp.Compare(a.Part, b.Part), cmp.Compare(a.Description, b.Description))
	})
	return groups
}

// WriteText writes lines as quoted, comma-separated text with a header row:
//
//	"designator", "part", "description"
//	"R1", "RES-10K", "Resistor"
func WriteText(w io.Writer, lines []Line) error {
	if _, err := io.WriteString(w, `"designator", "part", "description"`+"\n"); err != nil {
		return fmt.Errorf("write bom header: %w", err)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "\"%s\", \"%s\", \"%s\"\n", line.Designator, line.Part, line.Description); err != nil {
			return fmt.Errorf("write bom line: %w", err)
		}
	}
	return nil
}
