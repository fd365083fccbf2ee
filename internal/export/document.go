// Package export serialises boards as PNG images and JSON scene documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/geoboard/internal/board"
)

// Version is the document format written by Build.
const Version = "1.0"

// Document is the JSON description of a board.
type Document struct {
	Version       string        `json:"version"`
	BoardSettings BoardSettings `json:"boardSettings"`
	Objects       []Object      `json:"objects"`
	Timestamp     string        `json:"timestamp"`
}

type BoardSettings struct {
	BoundingBox [4]float64 `json:"boundingBox"`
}

// Point is a position in board coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Object describes one primitive. Only the geometry fields of its type are
// set.
type Object struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Name       string     `json:"name,omitempty"`
	Coords     *Point     `json:"coords,omitempty"`
	Point1     *Point     `json:"point1,omitempty"`
	Point2     *Point     `json:"point2,omitempty"`
	Vertices   []Point    `json:"vertices,omitempty"`
	Center     *Point     `json:"center,omitempty"`
	Radius     *float64   `json:"radius,omitempty"`
	Points     []Point    `json:"points,omitempty"`
	Tension    *float64   `json:"tension,omitempty"`
	Properties Properties `json:"properties"`
}

// Properties are the style attributes of an object.
type Properties struct {
	StrokeColor   string  `json:"strokeColor,omitempty"`
	FillColor     string  `json:"fillColor,omitempty"`
	StrokeWidth   float64 `json:"strokeWidth,omitempty"`
	StrokeOpacity float64 `json:"strokeOpacity,omitempty"`
	FillOpacity   float64 `json:"fillOpacity,omitempty"`
	Size          float64 `json:"size,omitempty"`
	Face          string  `json:"face,omitempty"`
}

func pt(c board.Coords) *Point { return &Point{X: c.X, Y: c.Y} }

func pts(cs []board.Coords) []Point {
	out := make([]Point, len(cs))
	for i, c := range cs {
		out[i] = Point{X: c.X, Y: c.Y}
	}
	return out
}

func props(st board.Style) Properties {
	return Properties{
		StrokeColor:   st.StrokeColor,
		FillColor:     st.FillColor,
		StrokeWidth:   st.StrokeWidth,
		StrokeOpacity: st.StrokeOpacity,
		FillOpacity:   st.FillOpacity,
		Size:          st.Size,
		Face:          st.Face,
	}
}

func (p Properties) style() board.Style {
	return board.Style{
		StrokeColor:   p.StrokeColor,
		FillColor:     p.FillColor,
		StrokeWidth:   p.StrokeWidth,
		StrokeOpacity: p.StrokeOpacity,
		FillOpacity:   p.FillOpacity,
		Size:          p.Size,
		Face:          p.Face,
		Fixed:         true,
	}
}

// Build describes every visible, non-infrastructure primitive of b.
func Build(b *board.Board, now time.Time) (*Document, error) {
	if b == nil || b.Freed() {
		return nil, errors.New("no board to export")
	}
	doc := &Document{
		Version:       Version,
		BoardSettings: BoardSettings{BoundingBox: b.BoundingBox()},
		Objects:       []Object{},
		Timestamp:     now.UTC().Format(time.RFC3339),
	}
	for _, p := range b.Objects() {
		if p.Kind().Infrastructure() || !p.Visible() {
			continue
		}
		o := Object{ID: p.ID(), Type: string(p.Kind()), Name: p.Name(), Properties: props(p.Style())}
		switch v := p.(type) {
		case *board.Point:
			o.Coords = pt(v.Coords())
		case *board.Segment:
			o.Point1 = pt(v.Point1().Coords())
			o.Point2 = pt(v.Point2().Coords())
		case *board.Polygon:
			o.Vertices = pts(v.Vertices())
		case *board.Circle:
			r := v.Radius()
			o.Center = pt(v.Center())
			o.Radius = &r
		case *board.Curve:
			tension := v.Tension()
			o.Points = pts(v.ControlPoints())
			o.Tension = &tension
		default:
			continue
		}
		doc.Objects = append(doc.Objects, o)
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a document and checks its version.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	major, _, _ := strings.Cut(doc.Version, ".")
	if major != "1" {
		return nil, fmt.Errorf("unsupported document version %q", doc.Version)
	}
	return &doc, nil
}

// Restore recreates the objects of doc on b and returns every primitive it
// created, anchors included, in creation order. Updates are batched.
func Restore(b *board.Board, doc *Document) ([]board.Primitive, error) {
	var made []board.Primitive
	b.SuspendUpdate()
	defer b.UnsuspendUpdate()

	anchor := func(p Point) (*board.Point, error) {
		a, err := b.CreatePoint(board.Coords{X: p.X, Y: p.Y}, board.Style{Hidden: true, Fixed: true})
		if err == nil {
			made = append(made, a)
		}
		return a, err
	}
	fail := func(o Object, err error) ([]board.Primitive, error) {
		for _, p := range made {
			_ = p.Remove()
		}
		return nil, fmt.Errorf("restore %s %s: %w", o.Type, o.ID, err)
	}

	for _, o := range doc.Objects {
		st := o.Properties.style()
		var (
			prim board.Primitive
			err  error
		)
		switch board.Kind(o.Type) {
		case board.KindPoint:
			if o.Coords == nil {
				return fail(o, errors.New("missing coords"))
			}
			prim, err = b.CreatePoint(board.Coords{X: o.Coords.X, Y: o.Coords.Y}, st)
		case board.KindSegment, board.KindArrow:
			if o.Point1 == nil || o.Point2 == nil {
				return fail(o, errors.New("missing endpoints"))
			}
			p1, err1 := anchor(*o.Point1)
			p2, err2 := anchor(*o.Point2)
			if err = errors.Join(err1, err2); err != nil {
				return fail(o, err)
			}
			if o.Type == string(board.KindArrow) {
				prim, err = b.CreateArrow(p1, p2, st)
			} else {
				prim, err = b.CreateSegment(p1, p2, st)
			}
		case board.KindPolygon:
			if len(o.Vertices) < 3 {
				return fail(o, errors.New("polygon needs at least 3 vertices"))
			}
			cs := make([]board.Coords, len(o.Vertices))
			for i, v := range o.Vertices {
				cs[i] = board.Coords{X: v.X, Y: v.Y}
			}
			prim, err = b.CreatePolygonAt(cs, st)
		case board.KindCircle:
			if o.Center == nil || o.Radius == nil || *o.Radius < 0 {
				return fail(o, errors.New("missing center or radius"))
			}
			c, err1 := anchor(*o.Center)
			r, err2 := anchor(Point{X: o.Center.X + *o.Radius, Y: o.Center.Y})
			if err = errors.Join(err1, err2); err != nil {
				return fail(o, err)
			}
			prim, err = b.CreateCircle(c, r, st)
		case board.KindCurve:
			if len(o.Points) < 2 {
				return fail(o, errors.New("curve needs at least 2 points"))
			}
			cps := make([]*board.Point, 0, len(o.Points))
			for _, p := range o.Points {
				a, aerr := anchor(p)
				if aerr != nil {
					return fail(o, aerr)
				}
				cps = append(cps, a)
			}
			tension := 0.5
			if o.Tension != nil {
				tension = *o.Tension
			}
			prim, err = b.CreateCurve(cps, tension, st)
		default:
			return fail(o, errors.New("unknown object type"))
		}
		if err != nil {
			return fail(o, err)
		}
		if n, ok := prim.(interface{ SetName(string) }); ok && o.Name != "" {
			n.SetName(o.Name)
		}
		made = append(made, prim)
	}
	return made, nil
}
