package appstate

import (
	"context"
	"image"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/geoboard/internal/theme"
)

const (
	titleHeight  = 24
	statusHeight = 24
	buttonHeight = 24
	canvasMargin = 8
	minToolbar   = 48
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// layout places the toolbar, canvas and status bar for a board of the given
// pixel size.
type layout struct {
	toolbarWidth int
	canvas       image.Rectangle
	width        int
	height       int
}

func newLayout(boardW, boardH int, labels []string) layout {
	d := &font.Drawer{Face: basicfont.Face7x13}
	tw := d.MeasureString("GeoBoard").Ceil() + 8
	for _, l := range labels {
		if w := d.MeasureString(l).Ceil() + 8; w > tw {
			tw = w
		}
	}
	if tw < minToolbar {
		tw = minToolbar
	}
	x0 := tw + canvasMargin
	y0 := titleHeight + canvasMargin
	canvas := image.Rect(x0, y0, x0+boardW, y0+boardH)
	h := canvas.Max.Y + canvasMargin + statusHeight
	if need := titleHeight + len(labels)*buttonHeight + 8 + statusHeight; need > h {
		h = need
	}
	return layout{toolbarWidth: tw, canvas: canvas, width: canvas.Max.X + canvasMargin, height: h}
}

// buttonRects lays n buttons down the toolbar, leaving a gap after the
// first split entries.
func (l layout) buttonRects(n, split int) []image.Rectangle {
	rects := make([]image.Rectangle, n)
	y := titleHeight
	for i := range rects {
		if i == split {
			y += 8
		}
		rects[i] = image.Rect(0, y, l.toolbarWidth, y+buttonHeight)
		y += buttonHeight
	}
	return rects
}

// hitButton returns the index of the button under p, or -1.
func hitButton(buttons []*CacheButton, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

// paintState is everything the paint goroutine needs for one frame. The
// board image is rendered on the event goroutine and never mutated after.
type paintState struct {
	width, height int
	layout        layout
	theme         *theme.Theme
	board         *image.RGBA
	buttons       []*CacheButton
	states        []ButtonState
	title         string
	status        string
	alert         bool
}

// enqueueFrame replaces any frame still waiting in ch with st. ch must have
// a buffer of one and a single sender.
func enqueueFrame(ch chan paintState, st paintState) {
	select {
	case <-ch:
	default:
	}
	ch <- st
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	th := st.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	if st.board != nil {
		draw.Draw(dst, st.layout.canvas, st.board, st.board.Bounds().Min, draw.Src)
		strokeRect(dst, st.layout.canvas.Inset(-1), th.ButtonBorder)
	}
	if ctx.Err() != nil {
		return
	}

	drawTitle(dst, st)
	drawToolbar(dst, st)
	if ctx.Err() != nil {
		return
	}
	drawStatus(dst, st)

	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawTitle(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, image.Rect(0, 0, st.width, titleHeight),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	d.DrawString("GeoBoard")
	if st.title != "" {
		d.Dot = fixed.P(st.layout.canvas.Min.X, 16)
		d.DrawString(st.title)
	}
}

func drawToolbar(dst *image.RGBA, st paintState) {
	draw.Draw(dst, image.Rect(0, titleHeight, st.layout.toolbarWidth, st.height-statusHeight),
		&image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, b := range st.buttons {
		state := StateDefault
		if i < len(st.states) {
			state = st.states[i]
		}
		b.Draw(dst, state)
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	rect := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	col := th.StatusText
	if st.alert {
		col = th.AlertText
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
		Dot: fixed.P(4, st.height-statusHeight+16)}
	d.DrawString(st.status)
}
