package construct

import "github.com/example/geoboard/internal/board"

// Styles holds the presentation of every shape family the machine builds.
type Styles struct {
	Point           board.Style
	Line            board.Style
	Area            board.Style
	Triangle        board.Style
	TriangleMarker  board.Style
	TrianglePreview board.Style
	Curve           board.Style
	CurvePoint      board.Style
	// Anchor is used for the invisible points that drive lines, rectangles
	// and circles.
	Anchor board.Style
	// Tension of the curve spline. 0.5 is Catmull-Rom.
	Tension float64
}

const (
	blue   = "#3b82f6"
	amber  = "#fbbf24"
	orange = "#f59e0b"
)

// DefaultStyles returns the stock palette.
func DefaultStyles() Styles {
	return Styles{
		Point: board.Style{Size: 4, Face: "circle", FillColor: blue, StrokeColor: blue, Fixed: true},
		Line:  board.Style{StrokeColor: blue, StrokeWidth: 2, Fixed: true},
		Area: board.Style{
			FillColor: blue, FillOpacity: 0.3,
			StrokeColor: blue, StrokeWidth: 2, Fixed: true,
		},
		Triangle: board.Style{
			FillColor: amber, FillOpacity: 0.2,
			StrokeColor: orange, StrokeWidth: 2, Fixed: true,
		},
		TriangleMarker:  board.Style{Size: 3, Face: "circle", FillColor: orange, StrokeColor: orange, Fixed: true},
		TrianglePreview: board.Style{StrokeColor: orange, StrokeWidth: 1, StrokeOpacity: 0.6, Fixed: true},
		Curve:           board.Style{StrokeColor: blue, StrokeWidth: 2, Fixed: true},
		CurvePoint:      board.Style{Size: 3, Face: "circle", FillColor: blue, StrokeColor: blue},
		Anchor:          board.Style{Hidden: true, Fixed: true},
		Tension:         0.5,
	}
}

// WithColor recolours the blue shape families.
func (s Styles) WithColor(hex string) Styles {
	for _, st := range []*board.Style{&s.Point, &s.Line, &s.Area, &s.Curve, &s.CurvePoint} {
		st.StrokeColor = hex
		if st.FillColor != "" {
			st.FillColor = hex
		}
	}
	return s
}
