package board

import "math"

// Kind identifies the type of a primitive.
type Kind string

const (
	KindPoint   Kind = "point"
	KindSegment Kind = "segment"
	KindArrow   Kind = "arrow"
	KindPolygon Kind = "polygon"
	KindCircle  Kind = "circle"
	KindCurve   Kind = "curve"
	KindAxis    Kind = "axis"
)

// Infrastructure reports whether primitives of this kind belong to the board
// itself rather than to a user drawing.
func (k Kind) Infrastructure() bool { return k == KindAxis }

// Style holds the presentation attributes of a primitive. Colours are hex
// strings such as "#3b82f6".
type Style struct {
	StrokeColor   string
	FillColor     string
	StrokeWidth   float64
	StrokeOpacity float64
	FillOpacity   float64
	// Size is the radius of a point marker in pixels.
	Size float64
	Face string
	// Fixed points cannot be dragged by the user.
	Fixed bool
	// Hidden creates the primitive invisible.
	Hidden bool
}

// Primitive is the capability every renderable object on a board provides.
// Hide, Show and Remove fail with ErrRemoved once the primitive is removed.
type Primitive interface {
	ID() string
	Kind() Kind
	Name() string
	Style() Style
	Visible() bool
	Removed() bool
	Hide() error
	Show() error
	Remove() error
}

type base struct {
	board   *Board
	self    Primitive
	id      string
	kind    Kind
	name    string
	style   Style
	visible bool
	removed bool
}

func (b *Board) newBase(kind Kind, st Style) base {
	if st.StrokeOpacity == 0 {
		st.StrokeOpacity = 1
	}
	return base{board: b, id: b.newID(), kind: kind, style: st, visible: !st.Hidden}
}

func (p *base) ID() string       { return p.id }
func (p *base) Kind() Kind       { return p.kind }
func (p *base) Name() string     { return p.name }
func (p *base) Style() Style     { return p.style }
func (p *base) Visible() bool    { return p.visible && !p.removed }
func (p *base) Removed() bool    { return p.removed }
func (p *base) SetName(n string) { p.name = n }

func (p *base) Hide() error { return p.setVisible(false) }
func (p *base) Show() error { return p.setVisible(true) }

func (p *base) setVisible(v bool) error {
	if p.removed {
		return ErrRemoved
	}
	if p.visible == v {
		return nil
	}
	p.visible = v
	p.board.changed()
	return nil
}

func (p *base) Remove() error {
	if p.removed {
		return ErrRemoved
	}
	p.removed = true
	p.board.detach(p.self)
	return nil
}

// Point is a single position marker. Points also anchor the other shapes.
type Point struct {
	base
	pos Coords
}

// CreatePoint places a point at c.
func (b *Board) CreatePoint(c Coords, st Style) (*Point, error) {
	p := &Point{base: b.newBase(KindPoint, st), pos: c}
	p.self = p
	if err := b.register(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Coords returns the point's position.
func (p *Point) Coords() Coords { return p.pos }

// SetPosition moves the point to c.
func (p *Point) SetPosition(c Coords) error {
	if p.removed {
		return ErrRemoved
	}
	if p.pos == c {
		return nil
	}
	p.pos = c
	p.board.changed()
	return nil
}

// Fix stops the point from being dragged.
func (p *Point) Fix() { p.style.Fixed = true }

// Segment joins two points. Arrow segments carry a head at Point2.
type Segment struct {
	base
	p1, p2 *Point
}

// CreateSegment joins p1 and p2.
func (b *Board) CreateSegment(p1, p2 *Point, st Style) (*Segment, error) {
	return b.createLine(KindSegment, p1, p2, st)
}

// CreateArrow joins p1 and p2 with a head pointing at p2.
func (b *Board) CreateArrow(p1, p2 *Point, st Style) (*Segment, error) {
	return b.createLine(KindArrow, p1, p2, st)
}

func (b *Board) createLine(kind Kind, p1, p2 *Point, st Style) (*Segment, error) {
	s := &Segment{base: b.newBase(kind, st), p1: p1, p2: p2}
	s.self = s
	if err := b.register(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Segment) Point1() *Point { return s.p1 }
func (s *Segment) Point2() *Point { return s.p2 }

// Arrow reports whether the segment is drawn with a head.
func (s *Segment) Arrow() bool { return s.kind == KindArrow }

// Polygon is a closed, filled outline through its vertices.
type Polygon struct {
	base
	vertices []*Point
}

// CreatePolygon builds a polygon through existing points. Moving a point
// reshapes the polygon.
func (b *Board) CreatePolygon(vertices []*Point, st Style) (*Polygon, error) {
	vs := make([]*Point, len(vertices))
	copy(vs, vertices)
	pg := &Polygon{base: b.newBase(KindPolygon, st), vertices: vs}
	pg.self = pg
	if err := b.register(pg); err != nil {
		return nil, err
	}
	return pg, nil
}

// CreatePolygonAt builds a polygon that owns private, unregistered vertices at
// the given coordinates. The result is independent of any other primitive.
func (b *Board) CreatePolygonAt(coords []Coords, st Style) (*Polygon, error) {
	vs := make([]*Point, len(coords))
	for i, c := range coords {
		p := &Point{base: b.newBase(KindPoint, Style{Hidden: true, Fixed: true}), pos: c}
		p.self = p
		vs[i] = p
	}
	pg := &Polygon{base: b.newBase(KindPolygon, st), vertices: vs}
	pg.self = pg
	if err := b.register(pg); err != nil {
		return nil, err
	}
	return pg, nil
}

// Vertices returns the current vertex positions.
func (pg *Polygon) Vertices() []Coords {
	out := make([]Coords, len(pg.vertices))
	for i, v := range pg.vertices {
		out[i] = v.pos
	}
	return out
}

// Circle is defined by its center and a point on its circumference.
type Circle struct {
	base
	center, through *Point
}

// CreateCircle builds a circle around center passing through through.
func (b *Board) CreateCircle(center, through *Point, st Style) (*Circle, error) {
	c := &Circle{base: b.newBase(KindCircle, st), center: center, through: through}
	c.self = c
	if err := b.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Circle) Center() Coords { return c.center.pos }

// Radius returns the distance between the center and the radius point.
func (c *Circle) Radius() float64 {
	return math.Hypot(c.through.pos.X-c.center.pos.X, c.through.pos.Y-c.center.pos.Y)
}

// Curve is a smooth cardinal spline through its control points.
type Curve struct {
	base
	points   []*Point
	tension  float64
	segments int
}

// CreateCurve builds a cardinal spline interpolating points. A tension of 0.5
// gives a Catmull-Rom spline.
func (b *Board) CreateCurve(points []*Point, tension float64, st Style) (*Curve, error) {
	ps := make([]*Point, len(points))
	copy(ps, points)
	c := &Curve{base: b.newBase(KindCurve, st), points: ps, tension: tension, segments: 16}
	c.self = c
	if err := b.register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ControlPoints returns the positions the curve passes through.
func (c *Curve) ControlPoints() []Coords {
	out := make([]Coords, len(c.points))
	for i, p := range c.points {
		out[i] = p.pos
	}
	return out
}

// Tension returns the spline tension.
func (c *Curve) Tension() float64 { return c.tension }

// Path samples the curve into a polyline.
func (c *Curve) Path() []Coords {
	return CardinalSpline(c.ControlPoints(), c.tension, c.segments)
}

// Axis is a board axis with integer ticks.
type Axis struct {
	base
	From, To     Coords
	Label        string
	TickDistance float64
}
