package schematic

import (
	"github.com/yaklabco/gosch/pkg/attrs"
)

// PowerPortStyle is the glyph drawn for a power port.
type PowerPortStyle int

// Power port styles.
const (
	PowerDefault PowerPortStyle = iota
	PowerArrow
	PowerBar
	PowerWave
	PowerGround
	PowerSignalGround
	PowerEarth
	PowerGOSTArrow
	PowerGOSTGround
	PowerGOSTEarth
	PowerGOSTBar
)

//nolint:gochecknoglobals // Read-only name table indexed by PowerPortStyle.
var powerPortStyleNames = [...]string{
	PowerDefault:      "DEFAULT",
	PowerArrow:        "ARROW",
	PowerBar:          "BAR",
	PowerWave:         "WAVE",
	PowerGround:       "POWER_GND",
	PowerSignalGround: "SIGNAL_GND",
	PowerEarth:        "EARTH",
	PowerGOSTArrow:    "GOST_ARROW",
	PowerGOSTGround:   "GOST_POWER_GND",
	PowerGOSTEarth:    "GOST_EARTH",
	PowerGOSTBar:      "GOST_BAR",
}

// String returns the style name, or "UNKNOWN" when out of range.
func (s PowerPortStyle) String() string {
	if s < 0 || int(s) >= len(powerPortStyleNames) {
		return "UNKNOWN"
	}
	return powerPortStyleNames[s]
}

// MarshalText encodes the style as its name.
func (s PowerPortStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PowerPort is a named supply or ground net symbol.
type PowerPort struct {
	Location    Point          `json:"location"`
	Color       int            `json:"color"`
	ShowNetName bool           `json:"showNetName"`
	Text        string         `json:"text"`
	Style       PowerPortStyle `json:"style"`
	Orientation int            `json:"orientation"`

	// CrossSheet is set for off-sheet connectors.
	CrossSheet bool `json:"crossSheet"`
}

// Kind implements Variant.
func (*PowerPort) Kind() Kind { return KindPowerPort }

func decodePowerPort(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindPowerPort)
	return &PowerPort{
		Location:    f.location(),
		Color:       f.color(0),
		ShowNetName: f.bool("shownetname"),
		Text:        f.text("text"),
		Style:       PowerPortStyle(f.int("style", 0)),
		Orientation: f.int("orientation", 0),
		CrossSheet:  f.bool("iscrosssheetconnector"),
	}, f.err
}

// NetLabel names the net it is attached to.
type NetLabel struct {
	Location      Point  `json:"location"`
	Color         int    `json:"color"`
	Text          string `json:"text"`
	Orientation   int    `json:"orientation"`
	Justification int    `json:"justification"`
}

// Kind implements Variant.
func (*NetLabel) Kind() Kind { return KindNetLabel }

func decodeNetLabel(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindNetLabel)
	return &NetLabel{
		Location:      f.location(),
		Color:         f.color(0),
		Text:          f.text("text"),
		Orientation:   f.int("orientation", 0),
		Justification: f.int("justification", 0),
	}, f.err
}

// Wire is an electrical connection drawn as a polyline.
type Wire struct {
	Points    []Point `json:"points"`
	LineWidth int     `json:"lineWidth"`
	Color     int     `json:"color"`
}

// Kind implements Variant.
func (*Wire) Kind() Kind { return KindWire }

func decodeWire(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindWire)
	return &Wire{
		Points:    f.points(),
		LineWidth: f.int("linewidth", 0),
		Color:     f.color(0),
	}, f.err
}

// Bus is a bundle of nets drawn as a polyline.
type Bus struct {
	Points    []Point `json:"points"`
	LineWidth int     `json:"lineWidth"`
	Color     int     `json:"color"`
}

// Kind implements Variant.
func (*Bus) Kind() Kind { return KindBus }

func decodeBus(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindBus)
	return &Bus{
		Points:    f.points(),
		LineWidth: f.int("linewidth", 0),
		Color:     f.color(0),
	}, f.err
}

// Junction is a connection dot where wires meet.
type Junction struct {
	Location Point `json:"location"`
	Color    int   `json:"color"`
}

// Kind implements Variant.
func (*Junction) Kind() Kind { return KindJunction }

func decodeJunction(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindJunction)
	return &Junction{Location: f.location(), Color: f.color(0)}, f.err
}

// Port is an inter-sheet port.
type Port struct {
	Location Point  `json:"location"`
	Name     string `json:"name"`
}

// Kind implements Variant.
func (*Port) Kind() Kind { return KindPort }

func decodePort(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindPort)
	return &Port{Location: f.optionalLocation(), Name: f.text("name")}, f.err
}

// NoERC suppresses electrical rule checks at a point.
type NoERC struct {
	Location Point `json:"location"`
}

// Kind implements Variant.
func (*NoERC) Kind() Kind { return KindNoERC }

func decodeNoERC(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindNoERC)
	return &NoERC{Location: f.optionalLocation()}, f.err
}

// SheetSymbol references a child sheet. Its fields are not decoded.
type SheetSymbol struct{}

// Kind implements Variant.
func (*SheetSymbol) Kind() Kind { return KindSheetSymbol }

// SheetEntry is a port on a sheet symbol. Its fields are not decoded.
type SheetEntry struct{}

// Kind implements Variant.
func (*SheetEntry) Kind() Kind { return KindSheetEntry }

// WarningSign is a compiler warning marker. Its fields are not decoded.
type WarningSign struct{}

// Kind implements Variant.
func (*WarningSign) Kind() Kind { return KindWarningSign }
