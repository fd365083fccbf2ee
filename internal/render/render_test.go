package render

import (
	"testing"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/theme"
)

func rectangleBoard(t *testing.T) (*board.Board, *board.Polygon) {
	t.Helper()
	b, err := board.New(board.DefaultOptions())
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	pg, err := b.CreatePolygonAt([]board.Coords{{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 6, Y: 5}, {X: 2, Y: 5}}, board.Style{
		FillColor: "#3b82f6", FillOpacity: 0.3, StrokeColor: "#3b82f6", StrokeWidth: 2,
	})
	if err != nil {
		t.Fatalf("CreatePolygonAt: %v", err)
	}
	return b, pg
}

func TestImageScaleAndBackground(t *testing.T) {
	b, _ := rectangleBoard(t)
	img := New(nil, 2).Image(b)
	if got := img.Bounds().Dx(); got != 1200 {
		t.Fatalf("width %d", got)
	}
	if got := img.Bounds().Dy(); got != 1000 {
		t.Fatalf("height %d", got)
	}
	c := img.RGBAAt(4, 4)
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Fatalf("corner pixel %+v is not opaque white", c)
	}
}

func TestFilledShapeIsPainted(t *testing.T) {
	b, pg := rectangleBoard(t)
	r := &Renderer{Scale: 1}
	px, py := b.UserToScreen(board.Coords{X: 4, Y: 3.5})
	c := r.Image(b).RGBAAt(int(px), int(py))
	if c.R > 230 || c.B <= c.R {
		t.Fatalf("rectangle interior %+v is not blue-tinted", c)
	}

	if err := pg.Hide(); err != nil {
		t.Fatal(err)
	}
	c = r.Image(b).RGBAAt(int(px), int(py))
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("hidden rectangle still painted: %+v", c)
	}
}

func TestThemeBackground(t *testing.T) {
	b, err := board.New(board.Options{})
	if err != nil {
		t.Fatal(err)
	}
	th := theme.Default()
	th.CanvasBackground.R, th.CanvasBackground.G, th.CanvasBackground.B = 10, 20, 30
	c := New(th, 1).Image(b).RGBAAt(100, 100)
	if c.R != 10 || c.G != 20 || c.B != 30 {
		t.Fatalf("background %+v", c)
	}
}

func TestStyleColor(t *testing.T) {
	if _, ok := styleColor("", 1); ok {
		t.Error("empty colour should not resolve")
	}
	c, ok := styleColor("#ff0000", 0.5)
	if !ok {
		t.Fatal("hex colour did not resolve")
	}
	r, _, _, a := c.RGBA()
	if a>>8 < 126 || a>>8 > 129 || r == 0 {
		t.Errorf("unexpected colour %+v", c)
	}
}
