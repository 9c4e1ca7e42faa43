package schematic

import (
	"strconv"

	"github.com/yaklabco/gosch/pkg/attrs"
)

// Component is a placed library part. Pins, graphics, the designator and
// parameters are owned by it.
type Component struct {
	LibReference string `json:"libReference"`
	DesignItemID string `json:"designItemId"`
	Description  string `json:"description"`

	// CurrentPartID is the displayed part of a multi-part component, or -1.
	CurrentPartID int `json:"currentPartId"`
	PartCount     int `json:"partCount"`
}

// Kind implements Variant.
func (*Component) Kind() Kind { return KindComponent }

// IsMultiPart reports whether the component spans several parts.
// Single-part components record a part count of 2.
func (c *Component) IsMultiPart() bool {
	return c.PartCount > 2
}

// PartSuffix returns the designator suffix of the current part:
// "" for single parts, "A".."Z" for parts 1-26, "[n]" beyond.
func (c *Component) PartSuffix() string {
	if !c.IsMultiPart() || c.CurrentPartID <= 0 {
		return ""
	}
	if c.CurrentPartID <= 26 {
		return string(rune('A' + c.CurrentPartID - 1))
	}
	return "[" + strconv.Itoa(c.CurrentPartID) + "]"
}

func decodeComponent(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindComponent)
	return &Component{
		LibReference:  f.str("libreference"),
		DesignItemID:  f.str("designitemid"),
		Description:   f.text("componentdescription"),
		CurrentPartID: f.int("currentpartid", -1),
		PartCount:     f.int("partcount", 1),
	}, f.err
}

// Pin conglomerate bits.
const (
	pinOrientationMask   = 0x03
	pinShowNameBit       = 0x08
	pinShowDesignatorBit = 0x10
)

// Pin is an electrical connection point of a component.
type Pin struct {
	Location Point `json:"location"`
	Length   int   `json:"length"`

	// Orientation is 0 (right), 1 (up), 2 (left) or 3 (down).
	Orientation    int    `json:"orientation"`
	Name           string `json:"name"`
	Designator     string `json:"designator,omitempty"`
	ShowName       bool   `json:"showName"`
	ShowDesignator bool   `json:"showDesignator"`

	NameOrientation int `json:"nameOrientation"`
}

// Kind implements Variant.
func (*Pin) Kind() Kind { return KindPin }

// Angle returns the pin direction in degrees.
func (p *Pin) Angle() int {
	return 90 * p.Orientation
}

// Direction returns the unit vector pointing from the pin's base to its tip.
func (p *Pin) Direction() Point {
	switch p.Orientation {
	case 1:
		return Point{X: 0, Y: 1}
	case 2:
		return Point{X: -1, Y: 0}
	case 3:
		return Point{X: 0, Y: -1}
	default:
		return Point{X: 1, Y: 0}
	}
}

// Tip returns the outer end of the pin.
func (p *Pin) Tip() Point {
	d := p.Direction()
	return Point{X: p.Location.X + d.X*p.Length, Y: p.Location.Y + d.Y*p.Length}
}

func decodePin(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindPin)
	conglomerate := f.int("pinconglomerate", 0)
	return &Pin{
		Location:        f.location(),
		Length:          f.int("pinlength", 0),
		Orientation:     conglomerate & pinOrientationMask,
		Name:            f.text("name"),
		Designator:      f.str("designator"),
		ShowName:        conglomerate&pinShowNameBit != 0,
		ShowDesignator:  conglomerate&pinShowDesignatorBit != 0,
		NameOrientation: f.int("pinname_positionconglomerate", 0),
	}, f.err
}

// IEEESymbol is an IEEE logic symbol glyph. Its fields are not decoded.
type IEEESymbol struct{}

// Kind implements Variant.
func (*IEEESymbol) Kind() Kind { return KindIEEESymbol }

// Designator is a component's reference designator text ("R1", "U3").
type Designator struct {
	Location    Point  `json:"location"`
	Color       int    `json:"color"`
	Hidden      bool   `json:"hidden"`
	Text        string `json:"text"`
	Mirrored    bool   `json:"mirrored"`
	Orientation int    `json:"orientation"`
}

// Kind implements Variant.
func (*Designator) Kind() Kind { return KindDesignator }

func decodeDesignator(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindDesignator)
	return &Designator{
		Location:    f.optionalLocation(),
		Color:       f.color(0),
		Hidden:      f.bool("ishidden"),
		Text:        f.text("text"),
		Mirrored:    f.bool("ismirrored"),
		Orientation: f.int("orientation", 0),
	}, f.err
}

// Parameter is a named value attached to a component or implementation.
type Parameter struct {
	Name        string `json:"name"`
	Location    Point  `json:"location"`
	Color       int    `json:"color"`
	Hidden      bool   `json:"hidden"`
	Text        string `json:"text"`
	Mirrored    bool   `json:"mirrored"`
	Orientation int    `json:"orientation"`
}

// Kind implements Variant.
func (*Parameter) Kind() Kind { return KindParameter }

func decodeParameter(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindParameter)
	return &Parameter{
		Name:        f.text("name"),
		Location:    f.optionalLocation(),
		Color:       f.color(0),
		Hidden:      f.bool("ishidden"),
		Text:        f.text("text"),
		Mirrored:    f.bool("ismirrored"),
		Orientation: f.int("orientation", 0),
	}, f.err
}

// ImplementationList groups a component's model implementations.
type ImplementationList struct{}

// Kind implements Variant.
func (*ImplementationList) Kind() Kind { return KindImplementationList }

// Model types of an Implementation.
const (
	ModelFootprint       = "PCBLIB"
	ModelSimulation      = "SIM"
	ModelSignalIntegrity = "SI"
)

// Implementation links a component to a footprint or simulation model.
type Implementation struct {
	IsCurrent   bool   `json:"isCurrent"`
	Description string `json:"description"`
	ModelName   string `json:"modelName"`
	ModelType   string `json:"modelType"`
}

// Kind implements Variant.
func (*Implementation) Kind() Kind { return KindImplementation }

// IsFootprint reports whether the model is a PCB footprint.
func (i *Implementation) IsFootprint() bool { return i.ModelType == ModelFootprint }

// IsSimulation reports whether the model is a simulation model.
func (i *Implementation) IsSimulation() bool { return i.ModelType == ModelSimulation }

// IsSignalIntegrity reports whether the model is a signal-integrity model.
func (i *Implementation) IsSignalIntegrity() bool { return i.ModelType == ModelSignalIntegrity }

func decodeImplementation(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindImplementation)
	return &Implementation{
		IsCurrent:   f.bool("iscurrent"),
		Description: f.text("description"),
		ModelName:   f.str("modelname"),
		ModelType:   f.str("modeltype"),
	}, f.err
}

// ImplementationPinAssociation groups the pin map of an implementation.
type ImplementationPinAssociation struct{}

// Kind implements Variant.
func (*ImplementationPinAssociation) Kind() Kind { return KindImplementationPinAssociation }

// ImplementationPin maps a model pin to a component pin.
type ImplementationPin struct {
	PinName string `json:"pinName"`
}

// Kind implements Variant.
func (*ImplementationPin) Kind() Kind { return KindImplementationPin }

func decodeImplementationPin(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindImplementationPin)
	return &ImplementationPin{PinName: f.str("desintf")}, f.err
}

// ImplementationParameterList groups parameters that belong to an implementation.
type ImplementationParameterList struct{}

// Kind implements Variant.
func (*ImplementationParameterList) Kind() Kind { return KindImplementationParameterList }
