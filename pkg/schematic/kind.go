package schematic

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a schematic object.
type Kind int

// Object kinds.
const (
	// KindUnknown is used for unregistered record types and for objects kept generic.
	KindUnknown Kind = iota

	// Symbol structure.
	KindComponent
	KindPin
	KindIEEESymbol
	KindDesignator
	KindParameter

	// Text.
	KindLabel
	KindTextFrame
	KindNetLabel

	// Graphics.
	KindBezier
	KindPolyline
	KindPolygon
	KindEllipse
	KindPieChart
	KindRoundedRectangle
	KindEllipticalArc
	KindArc
	KindLine
	KindRectangle
	KindImage

	// Connectivity.
	KindSheetSymbol
	KindSheetEntry
	KindPowerPort
	KindPort
	KindNoERC
	KindBus
	KindWire
	KindJunction
	KindWarningSign

	// Document.
	KindSheet

	// Model implementations.
	KindImplementationList
	KindImplementation
	KindImplementationPinAssociation
	KindImplementationPin
	KindImplementationParameterList

	kindCount
)

//nolint:gochecknoglobals // Read-only name table indexed by Kind.
var kindNames = [kindCount]string{
	KindUnknown:                      "Unknown",
	KindComponent:                    "Component",
	KindPin:                          "Pin",
	KindIEEESymbol:                   "IEEE Symbol",
	KindDesignator:                   "Designator",
	KindParameter:                    "Parameter",
	KindLabel:                        "Label",
	KindTextFrame:                    "Text Frame",
	KindNetLabel:                     "Net Label",
	KindBezier:                       "Bezier",
	KindPolyline:                     "Polyline",
	KindPolygon:                      "Polygon",
	KindEllipse:                      "Ellipse",
	KindPieChart:                     "Pie Chart",
	KindRoundedRectangle:             "Rounded Rectangle",
	KindEllipticalArc:                "Elliptical Arc",
	KindArc:                          "Arc",
	KindLine:                         "Line",
	KindRectangle:                    "Rectangle",
	KindImage:                        "Image",
	KindSheetSymbol:                  "Sheet Symbol",
	KindSheetEntry:                   "Sheet Entry",
	KindPowerPort:                    "Power Port",
	KindPort:                         "Port",
	KindNoERC:                        "No ERC",
	KindBus:                          "Bus",
	KindWire:                         "Wire",
	KindJunction:                     "Junction",
	KindWarningSign:                  "Warning Sign",
	KindSheet:                        "Sheet",
	KindImplementationList:           "Implementation List",
	KindImplementation:               "Implementation",
	KindImplementationPinAssociation: "Implementation Pin Association",
	KindImplementationPin:            "Implementation Pin",
	KindImplementationParameterList:  "Implementation Parameter List",
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Slug returns the kind name in lowercase-hyphenated form ("power-port").
func (k Kind) Slug() string {
	return strings.ReplaceAll(strings.ToLower(k.String()), " ", "-")
}

// MarshalText encodes the kind as its slug.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.Slug()), nil
}

// Kinds returns every kind, KindUnknown first.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := range kindCount {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a kind from its name or slug, ignoring case, spaces and hyphens.
func ParseKind(s string) (Kind, bool) {
	want := squash(s)
	for k := range kindCount {
		if squash(k.String()) == want {
			return k, true
		}
	}
	return KindUnknown, false
}

func squash(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}
