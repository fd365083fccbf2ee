// Package board implements the coordinate-mapped drawing surface that shapes
// are constructed on. A Board owns every primitive created on it, maps between
// screen pixels and user coordinates and batches redraw notifications.
package board

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrRemoved is returned by operations on a primitive that was removed.
	ErrRemoved = errors.New("primitive has been removed")
	// ErrFreed is returned when creating primitives on a freed board.
	ErrFreed = errors.New("board has been freed")
)

const (
	defaultWidth  = 600
	defaultHeight = 500
)

// Coords is a position in user (board) coordinates.
type Coords struct {
	X, Y float64
}

// BoundingBox describes the visible user-space window as
// [left, top, right, bottom].
type BoundingBox [4]float64

// DefaultBoundingBox returns the window used when none is configured.
func DefaultBoundingBox() BoundingBox { return BoundingBox{-1, 11, 11, -1} }

func (b BoundingBox) Left() float64   { return b[0] }
func (b BoundingBox) Top() float64    { return b[1] }
func (b BoundingBox) Right() float64  { return b[2] }
func (b BoundingBox) Bottom() float64 { return b[3] }

// Validate reports whether the box spans a positive area.
func (b BoundingBox) Validate() error {
	if b.Right() <= b.Left() {
		return fmt.Errorf("bounding box right %v must exceed left %v", b.Right(), b.Left())
	}
	if b.Top() <= b.Bottom() {
		return fmt.Errorf("bounding box top %v must exceed bottom %v", b.Top(), b.Bottom())
	}
	return nil
}

// Options configures a Board.
type Options struct {
	BoundingBox BoundingBox
	// Width and Height are the surface size in pixels.
	Width  int
	Height int
	// Axis adds the x and y axes as infrastructure primitives.
	Axis bool
	// OnUpdate is called after every batch of mutations.
	OnUpdate func()
	// NewID generates primitive identifiers. Defaults to random UUIDs.
	NewID func() string
}

// DefaultOptions returns the options of the stock 600x500 board with axes.
func DefaultOptions() Options {
	return Options{
		BoundingBox: DefaultBoundingBox(),
		Width:       defaultWidth,
		Height:      defaultHeight,
		Axis:        true,
	}
}

// Board is a coordinate-mapped drawing surface. It is not safe for
// concurrent use; all calls are expected on the UI goroutine.
type Board struct {
	box      BoundingBox
	width    int
	height   int
	axis     bool
	onUpdate func()
	newID    func() string

	objects []Primitive
	suspend int
	dirty   bool
	freed   bool
	version uint64
}

// New initialises a board.
func New(opts Options) (*Board, error) {
	if opts.BoundingBox == (BoundingBox{}) {
		opts.BoundingBox = DefaultBoundingBox()
	}
	if err := opts.BoundingBox.Validate(); err != nil {
		return nil, err
	}
	if opts.Width == 0 {
		opts.Width = defaultWidth
	}
	if opts.Height == 0 {
		opts.Height = defaultHeight
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", opts.Width, opts.Height)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	b := &Board{
		box:      opts.BoundingBox,
		width:    opts.Width,
		height:   opts.Height,
		axis:     opts.Axis,
		onUpdate: opts.OnUpdate,
		newID:    opts.NewID,
	}
	if opts.Axis {
		b.SuspendUpdate()
		b.createAxes()
		b.UnsuspendUpdate()
	}
	return b, nil
}

// BoundingBox returns the visible user-space window.
func (b *Board) BoundingBox() BoundingBox { return b.box }

// Size returns the surface size in pixels.
func (b *Board) Size() (width, height int) { return b.width, b.height }

// Axis reports whether the board was created with axes.
func (b *Board) Axis() bool { return b.axis }

// Freed reports whether Free has been called.
func (b *Board) Freed() bool { return b.freed }

// Version increases every time an update is published.
func (b *Board) Version() uint64 { return b.version }

// ScreenToUser converts a pixel position relative to the surface's top-left
// corner into user coordinates.
func (b *Board) ScreenToUser(px, py float64) Coords {
	ux := float64(b.width) / (b.box.Right() - b.box.Left())
	uy := float64(b.height) / (b.box.Top() - b.box.Bottom())
	return Coords{
		X: b.box.Left() + px/ux,
		Y: b.box.Top() - py/uy,
	}
}

// UserToScreen converts user coordinates into pixels relative to the surface's
// top-left corner.
func (b *Board) UserToScreen(c Coords) (px, py float64) {
	ux := float64(b.width) / (b.box.Right() - b.box.Left())
	uy := float64(b.height) / (b.box.Top() - b.box.Bottom())
	return (c.X - b.box.Left()) * ux, (b.box.Top() - c.Y) * uy
}

// UnitSize returns the number of pixels per user unit along each axis.
func (b *Board) UnitSize() (ux, uy float64) {
	return float64(b.width) / (b.box.Right() - b.box.Left()),
		float64(b.height) / (b.box.Top() - b.box.Bottom())
}

// SuspendUpdate starts a batch. Updates are published when the outermost
// batch ends.
func (b *Board) SuspendUpdate() { b.suspend++ }

// UnsuspendUpdate ends a batch started by SuspendUpdate.
func (b *Board) UnsuspendUpdate() {
	if b.suspend > 0 {
		b.suspend--
	}
	if b.suspend == 0 && b.dirty {
		b.publish()
	}
}

func (b *Board) changed() {
	b.dirty = true
	if b.suspend == 0 {
		b.publish()
	}
}

func (b *Board) publish() {
	b.dirty = false
	b.version++
	if b.onUpdate != nil {
		b.onUpdate()
	}
}

// Objects returns the live primitives in creation order.
func (b *Board) Objects() []Primitive {
	out := make([]Primitive, len(b.objects))
	copy(out, b.objects)
	return out
}

// Lookup finds a live primitive by identifier.
func (b *Board) Lookup(id string) (Primitive, bool) {
	for _, p := range b.objects {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Free removes every primitive and unbinds the update callback. The board
// cannot be used for drawing afterwards.
func (b *Board) Free() {
	if b.freed {
		return
	}
	b.onUpdate = nil
	for _, p := range b.Objects() {
		_ = p.Remove()
	}
	b.objects = nil
	b.freed = true
}

func (b *Board) register(p Primitive) error {
	if b.freed {
		return ErrFreed
	}
	b.objects = append(b.objects, p)
	b.changed()
	return nil
}

func (b *Board) detach(p Primitive) {
	for i, o := range b.objects {
		if o == p {
			b.objects = append(b.objects[:i], b.objects[i+1:]...)
			break
		}
	}
	b.changed()
}

func (b *Board) createAxes() {
	box := b.box
	x := &Axis{From: Coords{box.Left(), 0}, To: Coords{box.Right(), 0}, Label: "x"}
	y := &Axis{From: Coords{0, box.Bottom()}, To: Coords{0, box.Top()}, Label: "y"}
	for _, a := range []*Axis{x, y} {
		a.base = b.newBase(KindAxis, Style{StrokeColor: "#666666", StrokeWidth: 1, Fixed: true})
		a.self = a
		a.name = a.Label
		a.TickDistance = 1
		_ = b.register(a)
	}
}
