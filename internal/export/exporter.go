package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/render"
)

// Format is an export file format.
type Format int

const (
	FormatPNG Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "JSON"
	}
	return "PNG"
}

// DefaultName is the file name an export is saved under when none is given.
func (f Format) DefaultName() string {
	if f == FormatJSON {
		return "drawing.json"
	}
	return "drawing.png"
}

// Alert is the message shown to the user when an export fails.
func (f Format) Alert() string {
	return "Failed to export drawing as " + f.String()
}

// ParseFormat accepts "png" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

// Sink stores a named export. write must be called at most once.
type Sink interface {
	Deliver(name string, write func(io.Writer) error) (string, error)
}

// FileSink saves exports in Dir. Files are written to a temporary name and
// renamed into place so a failed export leaves nothing behind.
type FileSink struct {
	Dir string
}

func (s FileSink) Deliver(name string, write func(io.Writer) error) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	switch {
	case filepath.IsAbs(name):
		dir, name = filepath.Dir(name), filepath.Base(name)
	case filepath.Dir(name) != ".":
		dir, name = filepath.Dir(filepath.Join(dir, name)), filepath.Base(name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := write(tmp); err != nil {
		tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close temp file: %w", err)
	}
	dst := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return "", fmt.Errorf("rename to %s: %w", dst, err)
	}
	return dst, nil
}

// Exporter renders boards to a Sink. Exports are serialised.
type Exporter struct {
	Renderer *render.Renderer
	Sink     Sink
	// Now stamps JSON documents. Defaults to time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// NewExporter returns an exporter writing 2x PNGs to dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{Renderer: render.New(nil, 2), Sink: FileSink{Dir: dir}}
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Export writes b in format f under name, or the format's default name when
// name is empty. It returns where the export was stored.
func (e *Exporter) Export(b *board.Board, f Format, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		name = f.DefaultName()
	}
	if e.Sink == nil {
		return "", fmt.Errorf("export %s: no destination", f)
	}
	write, err := e.encoder(b, f)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", f, err)
	}
	path, err := e.Sink.Deliver(name, write)
	if err != nil {
		log.Printf("export: %s: %v", f, err)
		return "", fmt.Errorf("export %s: %w", f, err)
	}
	return path, nil
}

// Bytes encodes b in format f in memory.
func (e *Exporter) Bytes(b *board.Board, f Format) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	write, err := e.encoder(b, f)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// encoder validates b and returns a function that writes it. The document or
// image is built up front so the sink only sees complete output.
func (e *Exporter) encoder(b *board.Board, f Format) (func(io.Writer) error, error) {
	if b == nil || b.Freed() {
		return nil, errors.New("no board to export")
	}
	switch f {
	case FormatJSON:
		doc, err := Build(b, e.now())
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := Encode(&buf, doc); err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		return func(w io.Writer) error {
			_, err := w.Write(buf.Bytes())
			return err
		}, nil
	case FormatPNG:
		r := e.Renderer
		if r == nil {
			r = render.New(nil, 2)
		}
		dc := r.Context(b)
		return func(w io.Writer) error {
			if err := dc.EncodePNG(w); err != nil {
				return fmt.Errorf("encode png: %w", err)
			}
			return nil
		}, nil
	}
	return nil, fmt.Errorf("unknown format %d", int(f))
}
