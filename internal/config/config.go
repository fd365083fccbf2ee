package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/construct"
	"github.com/example/geoboard/internal/theme"
)

// Board holds the [board] section.
type Board struct {
	BoundingBox board.BoundingBox
	Width       int
	Height      int
	Axis        bool
	ExportScale float64
}

// Draw holds the [draw] section. Zero values keep the built-in styles.
type Draw struct {
	Color         string
	FillOpacity   float64
	StrokeWidth   float64
	PointSize     float64
	TriangleColor string
	TriangleFill  float64
	Tension       float64
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Board   Board
	Draw    Draw
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Empty falls back to env, then the default theme
		Board: Board{
			BoundingBox: board.DefaultBoundingBox(),
			Width:       600,
			Height:      500,
			Axis:        true,
			ExportScale: 2,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// BoardOptions converts the [board] section into board options.
func (c *Config) BoardOptions() board.Options {
	return board.Options{
		BoundingBox: c.Board.BoundingBox,
		Width:       c.Board.Width,
		Height:      c.Board.Height,
		Axis:        c.Board.Axis,
	}
}

// Styles applies the [draw] section to the default styles.
func (c *Config) Styles() construct.Styles {
	st := construct.DefaultStyles()
	d := c.Draw
	if d.Color != "" {
		st = st.WithColor(d.Color)
	}
	if d.FillOpacity > 0 {
		st.Area.FillOpacity = d.FillOpacity
	}
	if d.StrokeWidth > 0 {
		st.Line.StrokeWidth = d.StrokeWidth
		st.Area.StrokeWidth = d.StrokeWidth
		st.Triangle.StrokeWidth = d.StrokeWidth
		st.Curve.StrokeWidth = d.StrokeWidth
	}
	if d.PointSize > 0 {
		st.Point.Size = d.PointSize
	}
	if d.TriangleColor != "" {
		st.Triangle.FillColor = d.TriangleColor
	}
	if d.TriangleFill > 0 {
		st.Triangle.FillOpacity = d.TriangleFill
	}
	if d.Tension > 0 {
		st.Tension = d.Tension
	}
	return st
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	bb := c.Board.BoundingBox
	sb.WriteString("[board]\n")
	fmt.Fprintf(&sb, "bounding_box = %g, %g, %g, %g\n", bb[0], bb[1], bb[2], bb[3])
	fmt.Fprintf(&sb, "width = %d\n", c.Board.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Board.Height)
	fmt.Fprintf(&sb, "axis = %v\n", c.Board.Axis)
	fmt.Fprintf(&sb, "export_scale = %g\n", c.Board.ExportScale)
	sb.WriteString("\n")

	d := c.Draw
	sb.WriteString("[draw]\n")
	if d.Color != "" {
		fmt.Fprintf(&sb, "color = %s\n", d.Color)
	}
	if d.FillOpacity > 0 {
		fmt.Fprintf(&sb, "fill_opacity = %g\n", d.FillOpacity)
	}
	if d.StrokeWidth > 0 {
		fmt.Fprintf(&sb, "stroke_width = %g\n", d.StrokeWidth)
	}
	if d.PointSize > 0 {
		fmt.Fprintf(&sb, "point_size = %g\n", d.PointSize)
	}
	if d.TriangleColor != "" {
		fmt.Fprintf(&sb, "triangle_color = %s\n", d.TriangleColor)
	}
	if d.TriangleFill > 0 {
		fmt.Fprintf(&sb, "triangle_fill = %g\n", d.TriangleFill)
	}
	if d.Tension > 0 {
		fmt.Fprintf(&sb, "tension = %g\n", d.Tension)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
