package schematic

import (
	"strconv"

	"github.com/yaklabco/gosch/pkg/attrs"
)

// PaperSize is a standard sheet size in schematic units.
type PaperSize struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// paperSizes is indexed by the sheetstyle attribute.
//
//nolint:gochecknoglobals // Read-only lookup table.
var paperSizes = [...]PaperSize{
	{"A4", 1150, 760},
	{"A3", 1550, 1110},
	{"A2", 2230, 1570},
	{"A1", 3150, 2230},
	{"A0", 4460, 3150},
	{"A", 950, 750},
	{"B", 1500, 950},
	{"C", 2000, 1500},
	{"D", 3200, 2000},
	{"E", 4200, 3200},
	{"Letter", 1100, 850},
	{"Legal", 1400, 850},
	{"Tabloid", 1700, 1100},
	{"OrCAD A", 990, 790},
	{"OrCAD B", 1540, 990},
	{"OrCAD C", 2060, 1560},
	{"OrCAD D", 3260, 2060},
	{"OrCAD E", 4280, 3280},
}

// LookupPaperSize returns the paper size for a sheetstyle index.
func LookupPaperSize(style int) (PaperSize, bool) {
	if style < 0 || style >= len(paperSizes) {
		return PaperSize{}, false
	}
	return paperSizes[style], true
}

// defaultFontSize applies when a font entry has no size.
const defaultFontSize = 12

// Font is one entry of the sheet font table. IDs start at 1.
type Font struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Sheet holds document-wide settings. A document has one.
type Sheet struct {
	GridSize int  `json:"gridSize"`
	ShowGrid bool `json:"showGrid"`

	// Style is the paper size index; ignored when Custom is set.
	Style  int  `json:"style"`
	Custom bool `json:"custom"`

	// Width and Height are zero when the style is outside the paper table.
	Width  int `json:"width"`
	Height int `json:"height"`

	Fonts []Font `json:"fonts"`
}

// Kind implements Variant.
func (*Sheet) Kind() Kind { return KindSheet }

// Font returns the font with the given id.
func (s *Sheet) Font(id int) (Font, bool) {
	if id < 1 || id > len(s.Fonts) {
		return Font{}, false
	}
	return s.Fonts[id-1], true
}

func decodeSheet(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindSheet)
	sheet := &Sheet{
		GridSize: f.int("visiblegridsize", 10),
		ShowGrid: f.str("visiblegridon") != "F",
		Style:    f.int("sheetstyle", 0),
		Custom:   f.bool("usecustomsheet"),
	}

	if sheet.Custom {
		sheet.Width = f.int("customx", 0)
		sheet.Height = f.int("customy", 0)
	} else if size, ok := LookupPaperSize(sheet.Style); ok {
		sheet.Width = size.Width
		sheet.Height = size.Height
	}

	for id := 1; ; id++ {
		n := strconv.Itoa(id)
		name, ok := m.Lookup("fontname" + n)
		if !ok {
			break
		}
		sheet.Fonts = append(sheet.Fonts, Font{ID: id, Name: name, Size: f.int("size"+n, defaultFontSize)})
	}

	return sheet, f.err
}
