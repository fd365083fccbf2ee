package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/geoboard/internal/board"
)

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	n := 0
	b, err := board.New(board.Options{Axis: true, NewID: func() string {
		n++
		return fmt.Sprintf("o%d", n)
	}})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	return b
}

func drawScene(t *testing.T, b *board.Board) (hidden *board.Point) {
	t.Helper()
	anchor := board.Style{Hidden: true}
	a1, _ := b.CreatePoint(board.Coords{X: 1, Y: 1}, anchor)
	a2, _ := b.CreatePoint(board.Coords{X: 4, Y: 5}, anchor)
	if _, err := b.CreateArrow(a1, a2, board.Style{StrokeColor: "#3b82f6", StrokeWidth: 2}); err != nil {
		t.Fatal(err)
	}
	c, _ := b.CreatePoint(board.Coords{X: 5, Y: 5}, anchor)
	r, _ := b.CreatePoint(board.Coords{X: 8, Y: 5}, anchor)
	if _, err := b.CreateCircle(c, r, board.Style{FillColor: "#3b82f6", FillOpacity: 0.3}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.CreatePolygonAt([]board.Coords{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 2}}, board.Style{FillColor: "#fbbf24"}); err != nil {
		t.Fatal(err)
	}
	var cps []*board.Point
	for i := 0; i < 4; i++ {
		p, _ := b.CreatePoint(board.Coords{X: float64(i), Y: float64(i % 2)}, anchor)
		cps = append(cps, p)
	}
	if _, err := b.CreateCurve(cps, 0.5, board.Style{StrokeColor: "#3b82f6"}); err != nil {
		t.Fatal(err)
	}
	hidden, _ = b.CreatePoint(board.Coords{X: 9, Y: 9}, board.Style{Size: 4})
	_ = hidden.Hide()
	if _, err := b.CreatePoint(board.Coords{X: 3, Y: 7}, board.Style{Size: 4, FillColor: "#3b82f6"}); err != nil {
		t.Fatal(err)
	}
	return hidden
}

func TestBuildDocument(t *testing.T) {
	b := testBoard(t)
	drawScene(t, b)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	doc, err := Build(b, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Version != "1.0" {
		t.Errorf("version %q", doc.Version)
	}
	if doc.Timestamp != "2024-03-01T11:00:00Z" {
		t.Errorf("timestamp %q", doc.Timestamp)
	}
	if doc.BoardSettings.BoundingBox != [4]float64{-1, 11, 11, -1} {
		t.Errorf("bounding box %v", doc.BoardSettings.BoundingBox)
	}
	var types []string
	for _, o := range doc.Objects {
		types = append(types, o.Type)
	}
	if got := strings.Join(types, ","); got != "arrow,circle,polygon,curve,point" {
		t.Fatalf("exported types %s", got)
	}
	arrow := doc.Objects[0]
	if *arrow.Point1 != (Point{1, 1}) || *arrow.Point2 != (Point{4, 5}) {
		t.Errorf("arrow endpoints %+v %+v", arrow.Point1, arrow.Point2)
	}
	if arrow.Properties.StrokeColor != "#3b82f6" || arrow.Properties.StrokeWidth != 2 {
		t.Errorf("arrow properties %+v", arrow.Properties)
	}
	if r := doc.Objects[1].Radius; r == nil || *r != 3 {
		t.Errorf("circle radius %v", r)
	}
	if n := len(doc.Objects[3].Points); n != 4 {
		t.Errorf("curve points %d", n)
	}
}

func TestJSONFieldNames(t *testing.T) {
	b := testBoard(t)
	_, _ = b.CreatePoint(board.Coords{X: 1, Y: 2}, board.Style{Size: 4})
	doc, _ := Build(b, time.Unix(0, 0))
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"version", "boardSettings", "objects", "timestamp"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
	obj := raw["objects"].([]any)[0].(map[string]any)
	for _, k := range []string{"id", "type", "coords", "properties"} {
		if _, ok := obj[k]; !ok {
			t.Errorf("object missing key %q", k)
		}
	}
	if _, ok := obj["point1"]; ok {
		t.Error("point object carries segment geometry")
	}
}

func TestRestoreRecreatesScene(t *testing.T) {
	src := testBoard(t)
	drawScene(t, src)
	doc, err := Build(src, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	dst := testBoard(t)
	made, err := Restore(dst, decoded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(made) == 0 {
		t.Fatal("nothing restored")
	}
	again, _ := Build(dst, time.Now())
	if len(again.Objects) != len(doc.Objects) {
		t.Fatalf("restored %d objects, want %d", len(again.Objects), len(doc.Objects))
	}
	for i := range doc.Objects {
		if again.Objects[i].Type != doc.Objects[i].Type {
			t.Errorf("object %d type %s, want %s", i, again.Objects[i].Type, doc.Objects[i].Type)
		}
	}
	if r := again.Objects[1].Radius; r == nil || *r != 3 {
		t.Errorf("restored radius %v", r)
	}
}

func TestRestoreRejectsBadObjects(t *testing.T) {
	b := testBoard(t)
	before := len(b.Objects())
	doc := &Document{Version: "1.0", Objects: []Object{
		{ID: "a", Type: "point", Coords: &Point{1, 1}},
		{ID: "b", Type: "hexagon"},
	}}
	if _, err := Restore(b, doc); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if len(b.Objects()) != before {
		t.Fatal("failed restore left objects behind")
	}
	if _, err := Decode(strings.NewReader(`{"version":"2.0","objects":[]}`)); err == nil {
		t.Fatal("expected version error")
	}
}

func TestExportFiles(t *testing.T) {
	dir := t.TempDir()
	b := testBoard(t)
	drawScene(t, b)
	e := NewExporter(dir)

	path, err := e.Export(b, FormatPNG, "")
	if err != nil {
		t.Fatalf("PNG export: %v", err)
	}
	if filepath.Base(path) != "drawing.png" {
		t.Errorf("png path %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 1000 {
		t.Errorf("png size %v", img.Bounds())
	}

	path, err = e.Export(b, FormatJSON, "")
	if err != nil {
		t.Fatalf("JSON export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("exported JSON does not decode: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("unexpected files in export dir: %v", entries)
	}
}

type failingSink struct{}

func (failingSink) Deliver(string, func(io.Writer) error) (string, error) {
	return "", errors.New("disk full")
}

func TestExportFailures(t *testing.T) {
	b := testBoard(t)
	e := &Exporter{Sink: failingSink{}}
	if _, err := e.Export(b, FormatJSON, ""); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected sink error, got %v", err)
	}
	b.Free()
	if _, err := NewExporter(t.TempDir()).Export(b, FormatPNG, ""); err == nil {
		t.Fatal("expected error exporting a freed board")
	}
	if FormatPNG.Alert() != "Failed to export drawing as PNG" {
		t.Errorf("alert %q", FormatPNG.Alert())
	}
}

func TestFileSinkRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	_, err := FileSink{Dir: dir}.Deliver("drawing.png", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("partial output left behind: %v", entries)
	}
}

func TestConcurrentExports(t *testing.T) {
	dir := t.TempDir()
	b := testBoard(t)
	drawScene(t, b)
	e := NewExporter(dir)
	e.Renderer.Scale = 1
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Bytes(b, FormatPNG)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent export: %v", err)
		}
	}
}
