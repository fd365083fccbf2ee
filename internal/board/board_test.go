package board

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func newTestBoard(t *testing.T, axis bool) (*Board, *int) {
	t.Helper()
	updates := 0
	n := 0
	b, err := New(Options{
		Axis:     axis,
		OnUpdate: func() { updates++ },
		NewID: func() string {
			n++
			return fmt.Sprintf("id%d", n)
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b, &updates
}

func TestNewRejectsInvalidBox(t *testing.T) {
	if _, err := New(Options{BoundingBox: BoundingBox{5, 11, 1, -1}}); err == nil {
		t.Fatal("expected error for inverted horizontal extent")
	}
	if _, err := New(Options{BoundingBox: BoundingBox{-1, -1, 11, 11}}); err == nil {
		t.Fatal("expected error for inverted vertical extent")
	}
	if _, err := New(Options{Width: -5}); err == nil {
		t.Fatal("expected error for negative width")
	}
}

func TestCoordinateMapping(t *testing.T) {
	b, _ := newTestBoard(t, false)
	if w, h := b.Size(); w != 600 || h != 500 {
		t.Fatalf("default size %dx%d", w, h)
	}
	c := b.ScreenToUser(0, 0)
	if c.X != -1 || c.Y != 11 {
		t.Fatalf("top-left maps to %+v", c)
	}
	c = b.ScreenToUser(600, 500)
	if c.X != 11 || c.Y != -1 {
		t.Fatalf("bottom-right maps to %+v", c)
	}
	px, py := b.UserToScreen(Coords{X: 2, Y: 5})
	back := b.ScreenToUser(px, py)
	if math.Abs(back.X-2) > 1e-9 || math.Abs(back.Y-5) > 1e-9 {
		t.Fatalf("round trip gave %+v", back)
	}
}

func TestAxesAreInfrastructure(t *testing.T) {
	b, _ := newTestBoard(t, true)
	objs := b.Objects()
	if len(objs) != 2 {
		t.Fatalf("expected 2 axes, got %d", len(objs))
	}
	for _, o := range objs {
		if !o.Kind().Infrastructure() {
			t.Errorf("%s is not infrastructure", o.Kind())
		}
	}
}

func TestSuspendBatchesUpdates(t *testing.T) {
	b, updates := newTestBoard(t, false)
	b.SuspendUpdate()
	b.SuspendUpdate()
	p, err := b.CreatePoint(Coords{1, 1}, Style{})
	if err != nil {
		t.Fatalf("CreatePoint: %v", err)
	}
	_ = p.SetPosition(Coords{2, 2})
	b.UnsuspendUpdate()
	if *updates != 0 {
		t.Fatalf("inner unsuspend published %d updates", *updates)
	}
	b.UnsuspendUpdate()
	if *updates != 1 {
		t.Fatalf("expected a single update, got %d", *updates)
	}
}

func TestRemoveAndVisibility(t *testing.T) {
	b, _ := newTestBoard(t, false)
	p, _ := b.CreatePoint(Coords{1, 1}, Style{})
	q, _ := b.CreatePoint(Coords{2, 2}, Style{Hidden: true})
	if q.Visible() {
		t.Fatal("hidden style should create an invisible point")
	}
	if err := p.Hide(); err != nil || p.Visible() {
		t.Fatalf("Hide: %v visible=%v", err, p.Visible())
	}
	if err := p.Show(); err != nil || !p.Visible() {
		t.Fatalf("Show: %v visible=%v", err, p.Visible())
	}
	if err := p.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !errors.Is(p.Remove(), ErrRemoved) {
		t.Fatal("second Remove should report ErrRemoved")
	}
	if !errors.Is(p.Show(), ErrRemoved) {
		t.Fatal("Show after Remove should report ErrRemoved")
	}
	objs := b.Objects()
	if len(objs) != 1 || objs[0].ID() != q.ID() {
		t.Fatalf("unexpected objects %v", objs)
	}
}

func TestShapesFollowPoints(t *testing.T) {
	b, _ := newTestBoard(t, false)
	c, _ := b.CreatePoint(Coords{0, 0}, Style{})
	r, _ := b.CreatePoint(Coords{0, 0}, Style{})
	circ, err := b.CreateCircle(c, r, Style{})
	if err != nil {
		t.Fatalf("CreateCircle: %v", err)
	}
	_ = r.SetPosition(Coords{3, 4})
	if circ.Radius() != 5 {
		t.Fatalf("radius %v", circ.Radius())
	}

	pg, _ := b.CreatePolygon([]*Point{c, r}, Style{})
	_ = c.SetPosition(Coords{1, 1})
	if v := pg.Vertices(); v[0] != (Coords{1, 1}) {
		t.Fatalf("polygon vertex did not follow point: %+v", v)
	}

	fixed, _ := b.CreatePolygonAt([]Coords{{0, 0}, {1, 0}, {0, 1}}, Style{})
	_ = c.SetPosition(Coords{9, 9})
	if v := fixed.Vertices(); v[0] != (Coords{0, 0}) {
		t.Fatalf("independent polygon moved: %+v", v)
	}
}

func TestFree(t *testing.T) {
	b, updates := newTestBoard(t, true)
	_, _ = b.CreatePoint(Coords{1, 1}, Style{})
	before := *updates
	b.Free()
	if len(b.Objects()) != 0 {
		t.Fatal("Free left objects behind")
	}
	if *updates != before {
		t.Fatal("callback fired after Free")
	}
	if _, err := b.CreatePoint(Coords{1, 1}, Style{}); !errors.Is(err, ErrFreed) {
		t.Fatalf("expected ErrFreed, got %v", err)
	}
}

func TestCardinalSplineInterpolates(t *testing.T) {
	pts := []Coords{{0, 0}, {1, 2}, {3, 3}, {4, 0}}
	path := CardinalSpline(pts, 0.5, 8)
	if len(path) != 3*8+1 {
		t.Fatalf("path length %d", len(path))
	}
	for i, p := range pts {
		if path[i*8] != p {
			t.Errorf("control point %d: got %+v want %+v", i, path[i*8], p)
		}
	}
	if got := CardinalSpline(pts[:1], 0.5, 8); len(got) != 1 {
		t.Fatalf("single point path %v", got)
	}
}
