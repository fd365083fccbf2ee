// Package construct turns pointer and keyboard events into shapes on a board.
//
// A Machine holds the active drawing mode and whatever shape is currently
// being built. Finished shapes are handed to a Recorder as one history
// action each.
package construct

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/history"
)

// Surface is the part of a board the machine draws on. *board.Board
// implements it.
type Surface interface {
	CreatePoint(c board.Coords, st board.Style) (*board.Point, error)
	CreateSegment(p1, p2 *board.Point, st board.Style) (*board.Segment, error)
	CreateArrow(p1, p2 *board.Point, st board.Style) (*board.Segment, error)
	CreatePolygon(vertices []*board.Point, st board.Style) (*board.Polygon, error)
	CreatePolygonAt(coords []board.Coords, st board.Style) (*board.Polygon, error)
	CreateCircle(center, through *board.Point, st board.Style) (*board.Circle, error)
	CreateCurve(points []*board.Point, tension float64, st board.Style) (*board.Curve, error)
	SuspendUpdate()
	UnsuspendUpdate()
}

// Recorder receives completed actions. *history.Stack implements it.
type Recorder interface {
	Push(history.Action)
}

// Machine is the shape construction state machine. It is not safe for
// concurrent use.
type Machine struct {
	surface Surface
	rec     Recorder
	styles  Styles

	mode    Mode
	start   board.Coords
	pending dragShape

	tri   triangleState
	curve curveState
}

// New creates a machine drawing on s and recording into r.
func New(s Surface, r Recorder, styles Styles) *Machine {
	if styles.Tension == 0 {
		styles.Tension = 0.5
	}
	return &Machine{surface: s, rec: r, styles: styles}
}

// Mode returns the active drawing tool.
func (m *Machine) Mode() Mode { return m.mode }

// Drawing reports whether a drag shape or a curve point is being dragged.
func (m *Machine) Drawing() bool { return m.pending != nil || m.curve.dragging }

// TriangleStage returns the progress of the triangle protocol.
func (m *Machine) TriangleStage() TriangleStage { return m.tri.stage }

// CurvePoints returns the number of points collected for the current curve.
func (m *Machine) CurvePoints() int { return len(m.curve.points) }

// Styles returns the styles shapes are created with.
func (m *Machine) Styles() Styles { return m.styles }

// SetMode switches the drawing tool. A pending drag shape is finished, an
// unfinished triangle is cancelled and the points of an unfinished curve are
// removed.
func (m *Machine) SetMode(mode Mode) error {
	var err error
	if m.pending != nil {
		err = m.finishDrag()
	}
	m.cancelTriangle()
	m.abandonCurve()
	m.mode = mode
	return err
}

// Rebind points the machine at a fresh surface after the previous one was
// torn down. Pending state is dropped without touching the old surface.
func (m *Machine) Rebind(s Surface) {
	m.surface = s
	m.pending = nil
	m.tri = triangleState{}
	m.curve = curveState{}
}

// PointerDown handles a button press at c.
func (m *Machine) PointerDown(c board.Coords) error {
	switch {
	case m.mode.Drag():
		var err error
		if m.pending != nil {
			err = m.finishDrag()
		}
		return errors.Join(err, m.beginDrag(c))
	case m.mode == ModeTriangle:
		return m.triangleDown(c)
	case m.mode == ModeCurve:
		return m.curveDown(c)
	}
	return nil
}

// PointerMove handles pointer motion to c.
func (m *Machine) PointerMove(c board.Coords) error {
	switch {
	case m.pending != nil:
		m.surface.SuspendUpdate()
		defer m.surface.UnsuspendUpdate()
		return m.pending.move(m.start, c)
	case m.mode == ModeTriangle && m.tri.stage != TriangleIdle:
		return m.tri.cursor.SetPosition(c)
	case m.mode == ModeCurve && m.curve.dragging:
		return m.curve.points[len(m.curve.points)-1].SetPosition(c)
	}
	return nil
}

// PointerUp handles a button release. Drag shapes are finished where the last
// move left them.
func (m *Machine) PointerUp(board.Coords) error {
	switch {
	case m.pending != nil:
		return m.finishDrag()
	case m.mode == ModeCurve && m.curve.dragging:
		return m.curveUp()
	}
	return nil
}

// PointerLeave handles the pointer leaving the canvas. It behaves like a
// release.
func (m *Machine) PointerLeave(c board.Coords) error { return m.PointerUp(c) }

// DoubleClick finishes a triangle whose second vertex has been placed, using
// c as the third vertex.
func (m *Machine) DoubleClick(c board.Coords) error {
	if m.mode != ModeTriangle || m.tri.stage != TriangleSecondVertex {
		return nil
	}
	v := [3]board.Coords{m.tri.v1, m.tri.v2, c}
	m.surface.SuspendUpdate()
	defer m.surface.UnsuspendUpdate()
	m.cancelTriangle()
	pg, err := m.surface.CreatePolygonAt(v[:], m.styles.Triangle)
	if err != nil {
		return fmt.Errorf("create triangle: %w", err)
	}
	m.rec.Push(history.Action{Label: ModeTriangle.String(), Handles: []history.Handle{pg}})
	return nil
}

// Escape cancels an unfinished triangle or curve.
func (m *Machine) Escape() {
	m.cancelTriangle()
	m.abandonCurve()
}

// dragShape is the pending shape of a drag mode. Each variant holds exactly
// the primitives it owns.
type dragShape interface {
	move(start, cur board.Coords) error
	handles() []history.Handle
}

type pendingPoint struct {
	p *board.Point
}

func (s *pendingPoint) move(_, _ board.Coords) error { return nil }
func (s *pendingPoint) handles() []history.Handle    { return []history.Handle{s.p} }

type pendingLine struct {
	line   *board.Segment
	p1, p2 *board.Point
}

func (s *pendingLine) move(start, cur board.Coords) error {
	return errors.Join(s.p1.SetPosition(start), s.p2.SetPosition(cur))
}

func (s *pendingLine) handles() []history.Handle {
	return []history.Handle{s.line, s.p1, s.p2}
}

type pendingDoubleArrow struct {
	forward, back *board.Segment
	p1, p2        *board.Point
}

func (s *pendingDoubleArrow) move(start, cur board.Coords) error {
	return errors.Join(s.p1.SetPosition(start), s.p2.SetPosition(cur))
}

func (s *pendingDoubleArrow) handles() []history.Handle {
	return []history.Handle{s.forward, s.back, s.p1, s.p2}
}

type pendingRectangle struct {
	poly    *board.Polygon
	corners [4]*board.Point
}

func (s *pendingRectangle) move(start, cur board.Coords) error {
	return errors.Join(
		s.corners[0].SetPosition(start),
		s.corners[1].SetPosition(board.Coords{X: cur.X, Y: start.Y}),
		s.corners[2].SetPosition(cur),
		s.corners[3].SetPosition(board.Coords{X: start.X, Y: cur.Y}),
	)
}

func (s *pendingRectangle) handles() []history.Handle {
	hs := []history.Handle{s.poly}
	for _, c := range s.corners {
		hs = append(hs, c)
	}
	return hs
}

type pendingCircle struct {
	circle         *board.Circle
	center, radius *board.Point
}

func (s *pendingCircle) move(_, cur board.Coords) error { return s.radius.SetPosition(cur) }

func (s *pendingCircle) handles() []history.Handle {
	return []history.Handle{s.circle, s.center, s.radius}
}

func (m *Machine) beginDrag(c board.Coords) error {
	m.start = c
	m.surface.SuspendUpdate()
	defer m.surface.UnsuspendUpdate()

	var made []history.Handle
	fail := func(what string, err error) error {
		removeAll(made)
		return fmt.Errorf("create %s: %w", what, err)
	}
	anchor := func() (*board.Point, error) {
		p, err := m.surface.CreatePoint(c, m.styles.Anchor)
		if err == nil {
			made = append(made, p)
		}
		return p, err
	}

	switch m.mode {
	case ModePoint:
		p, err := m.surface.CreatePoint(c, m.styles.Point)
		if err != nil {
			return fail("point", err)
		}
		m.pending = &pendingPoint{p: p}
	case ModeSegment, ModeArrow:
		p1, err := anchor()
		if err != nil {
			return fail(m.mode.String(), err)
		}
		p2, err := anchor()
		if err != nil {
			return fail(m.mode.String(), err)
		}
		create := m.surface.CreateSegment
		if m.mode == ModeArrow {
			create = m.surface.CreateArrow
		}
		line, err := create(p1, p2, m.styles.Line)
		if err != nil {
			return fail(m.mode.String(), err)
		}
		m.pending = &pendingLine{line: line, p1: p1, p2: p2}
	case ModeDoubleArrow:
		p1, err := anchor()
		if err != nil {
			return fail("double arrow", err)
		}
		p2, err := anchor()
		if err != nil {
			return fail("double arrow", err)
		}
		fwd, err := m.surface.CreateArrow(p1, p2, m.styles.Line)
		if err != nil {
			return fail("double arrow", err)
		}
		made = append(made, fwd)
		back, err := m.surface.CreateArrow(p2, p1, m.styles.Line)
		if err != nil {
			return fail("double arrow", err)
		}
		m.pending = &pendingDoubleArrow{forward: fwd, back: back, p1: p1, p2: p2}
	case ModeRectangle:
		var r pendingRectangle
		for i := range r.corners {
			p, err := anchor()
			if err != nil {
				return fail("rectangle", err)
			}
			r.corners[i] = p
		}
		poly, err := m.surface.CreatePolygon(r.corners[:], m.styles.Area)
		if err != nil {
			return fail("rectangle", err)
		}
		r.poly = poly
		m.pending = &r
	case ModeCircle:
		center, err := anchor()
		if err != nil {
			return fail("circle", err)
		}
		radius, err := anchor()
		if err != nil {
			return fail("circle", err)
		}
		circle, err := m.surface.CreateCircle(center, radius, m.styles.Area)
		if err != nil {
			return fail("circle", err)
		}
		m.pending = &pendingCircle{circle: circle, center: center, radius: radius}
	}
	return nil
}

func (m *Machine) finishDrag() error {
	p := m.pending
	m.pending = nil
	if p == nil {
		return nil
	}
	m.rec.Push(history.Action{Label: m.mode.String(), Handles: p.handles()})
	return nil
}

type triangleState struct {
	stage   TriangleStage
	v1, v2  board.Coords
	cursor  *board.Point
	markers []*board.Point
	preview history.Handle
}

func (m *Machine) triangleDown(c board.Coords) error {
	switch m.tri.stage {
	case TriangleIdle:
		m.surface.SuspendUpdate()
		defer m.surface.UnsuspendUpdate()
		v1, err := m.surface.CreatePoint(c, m.styles.TriangleMarker)
		if err != nil {
			return fmt.Errorf("create triangle vertex: %w", err)
		}
		cursor, err := m.surface.CreatePoint(c, m.styles.Anchor)
		if err != nil {
			removeAll([]history.Handle{v1})
			return fmt.Errorf("create triangle cursor: %w", err)
		}
		seg, err := m.surface.CreateSegment(v1, cursor, m.styles.TrianglePreview)
		if err != nil {
			removeAll([]history.Handle{v1, cursor})
			return fmt.Errorf("create triangle preview: %w", err)
		}
		m.tri = triangleState{
			stage:   TriangleFirstVertex,
			v1:      c,
			cursor:  cursor,
			markers: []*board.Point{v1},
			preview: seg,
		}
	case TriangleFirstVertex:
		m.surface.SuspendUpdate()
		defer m.surface.UnsuspendUpdate()
		removeAll([]history.Handle{m.tri.preview})
		m.tri.preview = nil
		v2, err := m.surface.CreatePoint(c, m.styles.TriangleMarker)
		if err != nil {
			m.cancelTriangle()
			return fmt.Errorf("create triangle vertex: %w", err)
		}
		m.tri.markers = append(m.tri.markers, v2)
		m.tri.v2 = c
		if err := m.tri.cursor.SetPosition(c); err != nil {
			m.cancelTriangle()
			return fmt.Errorf("move triangle cursor: %w", err)
		}
		poly, err := m.surface.CreatePolygon([]*board.Point{m.tri.markers[0], v2, m.tri.cursor}, m.styles.Triangle)
		if err != nil {
			m.cancelTriangle()
			return fmt.Errorf("create triangle preview: %w", err)
		}
		m.tri.preview = poly
		m.tri.stage = TriangleSecondVertex
	}
	// A single click after the second vertex waits for a double-click.
	return nil
}

// cancelTriangle removes every preview primitive and returns to idle.
func (m *Machine) cancelTriangle() {
	if m.tri.stage == TriangleIdle {
		return
	}
	var hs []history.Handle
	if m.tri.preview != nil {
		hs = append(hs, m.tri.preview)
	}
	for _, p := range m.tri.markers {
		hs = append(hs, p)
	}
	if m.tri.cursor != nil {
		hs = append(hs, m.tri.cursor)
	}
	m.surface.SuspendUpdate()
	removeAll(hs)
	m.surface.UnsuspendUpdate()
	m.tri = triangleState{}
}

type curveState struct {
	points   []*board.Point
	dragging bool
}

func (m *Machine) curveDown(c board.Coords) error {
	if m.curve.dragging {
		if err := m.curveUp(); err != nil {
			return err
		}
	}
	p, err := m.surface.CreatePoint(c, m.styles.CurvePoint)
	if err != nil {
		return fmt.Errorf("create curve point: %w", err)
	}
	m.curve.points = append(m.curve.points, p)
	m.curve.dragging = true
	return nil
}

func (m *Machine) curveUp() error {
	m.curve.dragging = false
	m.curve.points[len(m.curve.points)-1].Fix()
	if len(m.curve.points) < 4 {
		return nil
	}
	pts := m.curve.points
	curve, err := m.surface.CreateCurve(pts, m.styles.Tension, m.styles.Curve)
	if err != nil {
		return fmt.Errorf("create curve: %w", err)
	}
	hs := []history.Handle{curve}
	for _, p := range pts {
		hs = append(hs, p)
	}
	m.curve = curveState{}
	m.rec.Push(history.Action{Label: ModeCurve.String(), Handles: hs})
	return nil
}

// abandonCurve removes the points of an unfinished curve.
func (m *Machine) abandonCurve() {
	if len(m.curve.points) == 0 {
		m.curve = curveState{}
		return
	}
	hs := make([]history.Handle, len(m.curve.points))
	for i, p := range m.curve.points {
		hs[i] = p
	}
	m.surface.SuspendUpdate()
	removeAll(hs)
	m.surface.UnsuspendUpdate()
	m.curve = curveState{}
}

// removeAll removes every handle, carrying on past failures.
func removeAll(hs []history.Handle) {
	for _, h := range hs {
		if h == nil {
			continue
		}
		if err := h.Remove(); err != nil && !errors.Is(err, board.ErrRemoved) {
			log.Printf("construct: remove: %v", err)
		}
	}
}
