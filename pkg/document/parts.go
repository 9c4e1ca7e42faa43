package document

import "github.com/yaklabco/gosch/pkg/schematic"

// owningComponent returns the Component that o belongs to.
func (g *Graph) owningComponent(o *schematic.Object) (*schematic.Component, bool) {
	parent, ok := g.FindParent(o, schematic.KindComponent)
	if !ok {
		return nil, false
	}
	return schematic.As[*schematic.Component](parent)
}

// FullDesignator returns a designator's text with the part suffix of its
// component appended ("U1" + "B"). Objects that are not designators yield "".
func (g *Graph) FullDesignator(o *schematic.Object) string {
	d, ok := schematic.As[*schematic.Designator](o)
	if !ok {
		return ""
	}
	comp, ok := g.owningComponent(o)
	if !ok {
		return d.Text
	}
	return d.Text + comp.PartSuffix()
}

// InCurrentPart reports whether o is drawn for its component's displayed part.
// Objects without a part id, or whose component has no current part, always are.
func (g *Graph) InCurrentPart(o *schematic.Object) bool {
	if o == nil || o.OwnerPartID == nil || *o.OwnerPartID < 1 {
		return true
	}
	comp, ok := g.owningComponent(o)
	if !ok || comp.CurrentPartID < 1 {
		return true
	}
	return *o.OwnerPartID == comp.CurrentPartID
}

// IsImplementationParameter reports whether o hangs off an implementation's
// parameter list rather than the component itself.
func (g *Graph) IsImplementationParameter(o *schematic.Object) bool {
	parent, ok := g.Parent(o)
	return ok && parent.Kind == schematic.KindImplementationParameterList
}
