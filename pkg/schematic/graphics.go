package schematic

import (
	"github.com/yaklabco/gosch/pkg/attrs"
)

// LineStyle is the dash pattern of a polyline.
type LineStyle int

// Line styles.
const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
	LineDashDotted
)

// Label is free text placed on the sheet or inside a symbol.
type Label struct {
	Location      Point  `json:"location"`
	Text          string `json:"text"`
	Hidden        bool   `json:"hidden"`
	Color         int    `json:"color"`
	Orientation   int    `json:"orientation"`
	Justification int    `json:"justification"`
}

// Kind implements Variant.
func (*Label) Kind() Kind { return KindLabel }

func decodeLabel(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindLabel)
	return &Label{
		Location:      f.location(),
		Text:          f.text("text"),
		Hidden:        f.bool("ishidden"),
		Color:         f.color(0),
		Orientation:   f.int("orientation", 0),
		Justification: f.int("justification", 0),
	}, f.err
}

// Bezier is a cubic curve through its control points.
type Bezier struct {
	Points    []Point `json:"points"`
	LineWidth int     `json:"lineWidth"`
	Color     int     `json:"color"`
}

// Kind implements Variant.
func (*Bezier) Kind() Kind { return KindBezier }

func decodeBezier(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindBezier)
	return &Bezier{
		Points:    f.points(),
		LineWidth: f.int("linewidth", 0),
		Color:     f.color(0),
	}, f.err
}

// Polyline is an open path of line segments.
type Polyline struct {
	Points     []Point   `json:"points"`
	LineWidth  int       `json:"lineWidth"`
	Color      int       `json:"color"`
	StartShape int       `json:"startShape"`
	EndShape   int       `json:"endShape"`
	ShapeSize  int       `json:"shapeSize"`
	LineStyle  LineStyle `json:"lineStyle"`
}

// Kind implements Variant.
func (*Polyline) Kind() Kind { return KindPolyline }

func decodePolyline(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindPolyline)
	return &Polyline{
		Points:     f.points(),
		LineWidth:  f.int("linewidth", 0),
		Color:      f.color(0),
		StartShape: f.int("startlineshape", 0),
		EndShape:   f.int("endlineshape", 0),
		ShapeSize:  f.int("lineshapesize", 0),
		LineStyle:  LineStyle(f.int("linestyle", 0)),
	}, f.err
}

// Polygon is a closed, filled path.
type Polygon struct {
	Points    []Point `json:"points"`
	LineWidth int     `json:"lineWidth"`
	Color     int     `json:"color"`
	AreaColor int     `json:"areaColor"`
}

// Kind implements Variant.
func (*Polygon) Kind() Kind { return KindPolygon }

func decodePolygon(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindPolygon)
	return &Polygon{
		Points:    f.points(),
		LineWidth: f.int("linewidth", 0),
		Color:     f.color(0),
		AreaColor: f.int("areacolor", 0),
	}, f.err
}

// Ellipse is an axis-aligned ellipse. RadiusY equals RadiusX when no secondary radius is given.
type Ellipse struct {
	Center      Point `json:"center"`
	RadiusX     int   `json:"radiusX"`
	RadiusY     int   `json:"radiusY"`
	LineWidth   int   `json:"lineWidth"`
	Color       int   `json:"color"`
	AreaColor   int   `json:"areaColor"`
	Transparent bool  `json:"transparent"`
}

// Kind implements Variant.
func (*Ellipse) Kind() Kind { return KindEllipse }

func decodeEllipse(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindEllipse)
	e := &Ellipse{
		Center:      f.location(),
		RadiusX:     f.requiredInt("radius"),
		LineWidth:   f.int("linewidth", 1),
		Color:       f.color(0),
		AreaColor:   f.int("areacolor", 0),
		Transparent: f.str("issolid") != "T",
	}
	e.RadiusY = f.int("secondaryradius", e.RadiusX)
	return e, f.err
}

// PieChart is a filled circular sector. Its fields are not decoded.
type PieChart struct{}

// Kind implements Variant.
func (*PieChart) Kind() Kind { return KindPieChart }

// RoundedRectangle is a rectangle with rounded corners. Its fields are not decoded.
type RoundedRectangle struct{}

// Kind implements Variant.
func (*RoundedRectangle) Kind() Kind { return KindRoundedRectangle }

// EllipticalArc is an arc of an ellipse. Its fields are not decoded.
type EllipticalArc struct{}

// Kind implements Variant.
func (*EllipticalArc) Kind() Kind { return KindEllipticalArc }

// Arc is a circular arc; angles are in degrees counter-clockwise.
type Arc struct {
	Center     Point   `json:"center"`
	Radius     int     `json:"radius"`
	StartAngle float64 `json:"startAngle"`
	EndAngle   float64 `json:"endAngle"`
	LineWidth  int     `json:"lineWidth"`
	Color      int     `json:"color"`
}

// Kind implements Variant.
func (*Arc) Kind() Kind { return KindArc }

func decodeArc(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindArc)
	return &Arc{
		Center:     f.location(),
		Radius:     f.requiredInt("radius"),
		StartAngle: f.float("startangle", 0),
		EndAngle:   f.float("endangle", 360),
		LineWidth:  f.int("linewidth", 1),
		Color:      f.color(0),
	}, f.err
}

// Line is a single straight segment.
type Line struct {
	Start     Point `json:"start"`
	End       Point `json:"end"`
	LineWidth int   `json:"lineWidth"`
	Color     int   `json:"color"`
}

// Kind implements Variant.
func (*Line) Kind() Kind { return KindLine }

func decodeLine(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindLine)
	return &Line{
		Start:     f.location(),
		End:       f.corner(),
		LineWidth: f.int("linewidth", 1),
		Color:     f.color(0),
	}, f.err
}

// Rectangle is an axis-aligned box spanning location (bottom-left) to corner (top-right).
type Rectangle struct {
	Left        int  `json:"left"`
	Bottom      int  `json:"bottom"`
	Right       int  `json:"right"`
	Top         int  `json:"top"`
	Color       int  `json:"color"`
	AreaColor   int  `json:"areaColor"`
	Transparent bool `json:"transparent"`
}

// Kind implements Variant.
func (*Rectangle) Kind() Kind { return KindRectangle }

func decodeRectangle(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindRectangle)
	location := f.location()
	corner := f.corner()
	return &Rectangle{
		Left:        location.X,
		Bottom:      location.Y,
		Right:       corner.X,
		Top:         corner.Y,
		Color:       f.color(0),
		AreaColor:   f.int("areacolor", 0),
		Transparent: f.str("issolid") != "T" || f.bool("transparent"),
	}, f.err
}

// Image is an embedded bitmap. Its fields are not decoded.
type Image struct{}

// Kind implements Variant.
func (*Image) Kind() Kind { return KindImage }

// TextFrame is a bordered box of wrapped text.
type TextFrame struct {
	Left        int    `json:"left"`
	Bottom      int    `json:"bottom"`
	Right       int    `json:"right"`
	Top         int    `json:"top"`
	BorderColor int    `json:"borderColor"`
	TextColor   int    `json:"textColor"`
	AreaColor   int    `json:"areaColor"`
	Text        string `json:"text"`
	Orientation int    `json:"orientation"`
	Alignment   int    `json:"alignment"`
	ShowBorder  bool   `json:"showBorder"`
	Transparent bool   `json:"transparent"`
	TextMargin  int    `json:"textMargin"`
	WordWrap    bool   `json:"wordWrap"`

	// FontID indexes the sheet font table, or is -1.
	FontID int `json:"fontId"`
}

// Kind implements Variant.
func (*TextFrame) Kind() Kind { return KindTextFrame }

// defaultTextFrameArea is white in the 0xBBGGRR encoding.
const defaultTextFrameArea = 0xFFFFFF

func decodeTextFrame(m attrs.Map, record int) (Variant, error) {
	f := newFields(m, record, KindTextFrame)
	location := f.location()
	corner := f.corner()
	return &TextFrame{
		Left:        location.X,
		Bottom:      location.Y,
		Right:       corner.X,
		Top:         corner.Y,
		BorderColor: f.color(0),
		TextColor:   f.int("textcolor", 0),
		AreaColor:   f.int("areacolor", defaultTextFrameArea),
		Text:        f.text("text"),
		Orientation: f.int("orientation", 0),
		Alignment:   f.int("alignment", 0),
		ShowBorder:  f.bool("showborder"),
		Transparent: f.str("issolid") != "F",
		TextMargin:  f.int("textmargin", 2),
		WordWrap:    f.bool("wordwrap"),
		FontID:      f.int("fontid", -1),
	}, f.err
}
