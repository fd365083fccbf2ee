// Package render rasterises a board with fogleman/gg.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/theme"
)

const (
	arrowHead   = 10.0
	tickLength  = 4.0
	labelSize   = 11.0
	axisNameGap = 14.0
)

// Renderer draws boards. The zero value draws at 1x with the default theme.
type Renderer struct {
	Theme *theme.Theme
	// Scale multiplies the board's pixel size. Exports use 2.
	Scale float64
}

// New returns a renderer for th at the given scale.
func New(th *theme.Theme, scale float64) *Renderer {
	return &Renderer{Theme: th, Scale: scale}
}

func (r *Renderer) scale() float64 {
	if r == nil || r.Scale <= 0 {
		return 1
	}
	return r.Scale
}

func (r *Renderer) theme() *theme.Theme {
	if r == nil || r.Theme == nil {
		return theme.Default()
	}
	return r.Theme
}

// Context renders b into a new gg context sized Scale times the board.
func (r *Renderer) Context(b *board.Board) *gg.Context {
	w, h := b.Size()
	s := r.scale()
	dc := gg.NewContext(int(math.Round(float64(w)*s)), int(math.Round(float64(h)*s)))
	dc.Scale(s, s)
	r.Draw(dc, b)
	return dc
}

// Image renders b into an RGBA image.
func (r *Renderer) Image(b *board.Board) *image.RGBA {
	img := r.Context(b).Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// Draw paints b onto dc in board pixel units. The background is opaque;
// primitives are painted in creation order.
func (r *Renderer) Draw(dc *gg.Context, b *board.Board) {
	th := r.theme()
	w, h := b.Size()
	dc.SetColor(th.CanvasBackground)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	if face, err := labelFace(labelSize * r.scale()); err == nil {
		dc.SetFontFace(face)
	} else {
		log.Printf("render: font: %v", err)
	}

	for _, o := range b.Objects() {
		if !o.Visible() {
			continue
		}
		switch p := o.(type) {
		case *board.Axis:
			r.drawAxis(dc, b, p)
		case *board.Polygon:
			drawPolygon(dc, b, p)
		case *board.Circle:
			drawCircle(dc, b, p)
		case *board.Segment:
			drawSegment(dc, b, p)
		case *board.Curve:
			drawCurve(dc, b, p)
		case *board.Point:
			drawPoint(dc, b, p)
		}
	}
}

func (r *Renderer) drawAxis(dc *gg.Context, b *board.Board, a *board.Axis) {
	th := r.theme()
	x1, y1 := b.UserToScreen(a.From)
	x2, y2 := b.UserToScreen(a.To)
	dc.SetColor(th.Axis)
	dc.SetLineWidth(1)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	arrowTip(dc, x1, y1, x2, y2, arrowHead)

	horizontal := a.From.Y == a.To.Y
	step := a.TickDistance
	if step <= 0 {
		step = 1
	}
	lo, hi := a.From.X, a.To.X
	if !horizontal {
		lo, hi = a.From.Y, a.To.Y
	}
	for v := math.Ceil(lo/step) * step; v < hi; v += step {
		if v == 0 || v == lo {
			continue
		}
		c := board.Coords{X: v, Y: a.From.Y}
		if !horizontal {
			c = board.Coords{X: a.From.X, Y: v}
		}
		px, py := b.UserToScreen(c)
		dc.SetColor(th.Axis)
		if horizontal {
			dc.DrawLine(px, py-tickLength, px, py+tickLength)
		} else {
			dc.DrawLine(px-tickLength, py, px+tickLength, py)
		}
		dc.Stroke()
		dc.SetColor(th.TickLabel)
		label := formatTick(v)
		if horizontal {
			dc.DrawStringAnchored(label, px, py+tickLength+2, 0.5, 1)
		} else {
			dc.DrawStringAnchored(label, px-tickLength-3, py, 1, 0.5)
		}
	}

	dc.SetColor(th.TickLabel)
	if horizontal {
		dc.DrawStringAnchored(a.Label, x2-axisNameGap, y2-axisNameGap, 0.5, 0.5)
	} else {
		dc.DrawStringAnchored(a.Label, x2+axisNameGap, y2+axisNameGap, 0.5, 0.5)
	}
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%g", v)
}

func drawPolygon(dc *gg.Context, b *board.Board, p *board.Polygon) {
	vs := p.Vertices()
	if len(vs) < 2 {
		return
	}
	for i, v := range vs {
		x, y := b.UserToScreen(v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	fillAndStroke(dc, p.Style())
}

func drawCircle(dc *gg.Context, b *board.Board, c *board.Circle) {
	cx, cy := b.UserToScreen(c.Center())
	ux, uy := b.UnitSize()
	r := c.Radius()
	dc.DrawEllipse(cx, cy, r*ux, r*uy)
	fillAndStroke(dc, c.Style())
}

func drawSegment(dc *gg.Context, b *board.Board, s *board.Segment) {
	x1, y1 := b.UserToScreen(s.Point1().Coords())
	x2, y2 := b.UserToScreen(s.Point2().Coords())
	st := s.Style()
	col, ok := styleColor(st.StrokeColor, st.StrokeOpacity)
	if !ok {
		return
	}
	dc.SetColor(col)
	dc.SetLineWidth(lineWidth(st))
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
	if s.Arrow() {
		arrowTip(dc, x1, y1, x2, y2, arrowHead+lineWidth(st)*2)
	}
}

func drawCurve(dc *gg.Context, b *board.Board, c *board.Curve) {
	path := c.Path()
	if len(path) < 2 {
		return
	}
	st := c.Style()
	col, ok := styleColor(st.StrokeColor, st.StrokeOpacity)
	if !ok {
		return
	}
	for i, v := range path {
		x, y := b.UserToScreen(v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.SetColor(col)
	dc.SetLineWidth(lineWidth(st))
	dc.SetLineJoin(gg.LineJoinRound)
	dc.Stroke()
}

func drawPoint(dc *gg.Context, b *board.Board, p *board.Point) {
	st := p.Style()
	x, y := b.UserToScreen(p.Coords())
	size := st.Size
	if size <= 0 {
		size = 3
	}
	dc.DrawCircle(x, y, size)
	if col, ok := styleColor(st.FillColor, 1); ok {
		dc.SetColor(col)
		dc.FillPreserve()
	}
	if col, ok := styleColor(st.StrokeColor, st.StrokeOpacity); ok {
		dc.SetColor(col)
		dc.SetLineWidth(1)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func fillAndStroke(dc *gg.Context, st board.Style) {
	if col, ok := styleColor(st.FillColor, st.FillOpacity); ok && st.FillOpacity > 0 {
		dc.SetColor(col)
		dc.FillPreserve()
	}
	if col, ok := styleColor(st.StrokeColor, st.StrokeOpacity); ok {
		dc.SetColor(col)
		dc.SetLineWidth(lineWidth(st))
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

func lineWidth(st board.Style) float64 {
	if st.StrokeWidth <= 0 {
		return 1
	}
	return st.StrokeWidth
}

// arrowTip fills a triangular head at (x2, y2) pointing away from (x1, y1).
func arrowTip(dc *gg.Context, x1, y1, x2, y2, size float64) {
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l < 0.1 {
		return
	}
	dx /= l
	dy /= l
	const spread = 0.45
	dc.MoveTo(x2, y2)
	dc.LineTo(x2-size*dx+size*dy*spread, y2-size*dy-size*dx*spread)
	dc.LineTo(x2-size*dx-size*dy*spread, y2-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

// styleColor resolves a style colour with an opacity multiplier. An empty or
// unparsable colour yields false.
func styleColor(hex string, opacity float64) (color.Color, bool) {
	if hex == "" || hex == "none" {
		return nil, false
	}
	c, err := theme.ParseColor(hex)
	if err != nil {
		return nil, false
	}
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * opacity))}, true
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	return truetype.NewFace(goFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
