package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/export"
)

func newSession(t *testing.T, c Confirmer) *Session {
	t.Helper()
	s, err := New(Options{
		Board:     board.DefaultOptions(),
		Exporter:  export.NewExporter(t.TempDir()),
		Confirmer: c,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func run(t *testing.T, s *Session, lines ...string) string {
	t.Helper()
	var out string
	for _, l := range lines {
		o, err := s.Exec(l)
		if err != nil {
			t.Fatalf("Exec(%q): %v", l, err)
		}
		out = o
	}
	return out
}

func visible(s *Session) int {
	n := 0
	for _, o := range s.Board().Objects() {
		if !o.Kind().Infrastructure() && o.Visible() {
			n++
		}
	}
	return n
}

func TestScriptedRectangle(t *testing.T) {
	s := newSession(t, nil)
	run(t, s, "mode rectangle", "down 2 2", "move 6 5", "up 6 5")
	if s.History().UndoLen() != 1 {
		t.Fatalf("undo length %d", s.History().UndoLen())
	}
	status := run(t, s, "status")
	if !strings.Contains(status, "mode=rectangle") || !strings.Contains(status, "undo=1") {
		t.Fatalf("status %q", status)
	}
}

func TestUndoRedoRestoresVisibility(t *testing.T) {
	s := newSession(t, nil)
	run(t, s, "mode circle", "down 1 1", "move 3 1", "up 3 1")
	before := visible(s)

	if out := run(t, s, "undo"); out != "undone" {
		t.Fatalf("undo output %q", out)
	}
	if visible(s) != 0 {
		t.Fatalf("%d primitives visible after undo", visible(s))
	}
	run(t, s, "redo")
	if visible(s) != before {
		t.Fatalf("visible after redo %d, want %d", visible(s), before)
	}
	if s.History().UndoLen() != 1 || s.History().RedoLen() != 0 {
		t.Fatal("undo then redo changed the stacks")
	}
	if out := run(t, s, "redo"); out != "nothing to redo" {
		t.Fatalf("second redo output %q", out)
	}
}

func TestClearDeclined(t *testing.T) {
	var asked string
	s := newSession(t, ConfirmFunc(func(p string) bool {
		asked = p
		return false
	}))
	run(t, s, "mode point", "down 1 1", "up 1 1")
	b := s.Board()
	if out := run(t, s, "clear"); out != "clear cancelled" {
		t.Fatalf("clear output %q", out)
	}
	if asked != ClearPrompt {
		t.Fatalf("prompt %q", asked)
	}
	if s.Board() != b || b.Freed() || s.History().UndoLen() != 1 || visible(s) != 1 {
		t.Fatal("declined clear mutated the session")
	}
}

func TestClearConfirmed(t *testing.T) {
	s := newSession(t, Always)
	run(t, s, "mode segment", "down 1 1", "move 2 2", "up 2 2", "undo")
	run(t, s, "mode triangle", "down 1 1")
	old := s.Board()

	ok, err := s.Clear()
	if err != nil || !ok {
		t.Fatalf("Clear = %v, %v", ok, err)
	}
	if !old.Freed() {
		t.Fatal("old board was not torn down")
	}
	if s.Board() == old || s.Board().Freed() {
		t.Fatal("board was not replaced")
	}
	if s.History().CanUndo() || s.History().CanRedo() {
		t.Fatal("history survived clear")
	}
	if visible(s) != 0 {
		t.Fatal("primitives survived clear")
	}
	if !s.Board().Axis() {
		t.Fatal("recreated board lost its axes")
	}
	run(t, s, "down 1 1")
	if s.Machine().TriangleStage().String() != "first-vertex-placed" {
		t.Fatal("machine is not drawing on the new board")
	}
}

func TestExportAndLoad(t *testing.T) {
	s := newSession(t, nil)
	run(t, s, "mode arrow", "down 1 1", "move 4 4", "up 4 4")
	out := run(t, s, "json")
	path := strings.TrimPrefix(out, "saved ")
	if filepath.Base(path) != "drawing.json" {
		t.Fatalf("json output %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	out = run(t, s, "png")
	if !strings.HasSuffix(out, "drawing.png") {
		t.Fatalf("png output %q", out)
	}

	other := newSession(t, nil)
	if out := run(t, other, "load "+path); out != "loaded 1 objects" {
		t.Fatalf("load output %q", out)
	}
	if visible(other) != 1 {
		t.Fatalf("visible after load %d", visible(other))
	}
	run(t, other, "undo")
	if visible(other) != 0 {
		t.Fatal("import is not undoable")
	}
}

func TestLoadNotesBoundingBoxMismatch(t *testing.T) {
	opts := board.DefaultOptions()
	opts.BoundingBox = board.BoundingBox{-5, 5, 5, -5}
	s, err := New(Options{Board: opts, Exporter: export.NewExporter(t.TempDir())})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	run(t, s, "mode point", "down 1 1", "up 1 1")
	path := strings.TrimPrefix(run(t, s, "json"), "saved ")

	other := newSession(t, nil)
	out := run(t, other, "load "+path)
	if !strings.HasPrefix(out, "loaded 1 objects") {
		t.Fatalf("load output %q", out)
	}
	if !strings.Contains(out, "[-5 5 5 -5]") || !strings.Contains(out, "[-1 11 11 -1]") {
		t.Fatalf("load output does not mention both boxes: %q", out)
	}
}

func TestExecErrors(t *testing.T) {
	s := newSession(t, nil)
	for _, line := range []string{"mode hexagon", "down 1", "down a b", "frobnicate", "load"} {
		if _, err := s.Exec(line); err == nil {
			t.Errorf("Exec(%q) succeeded", line)
		}
	}
	_, err := s.Exec("teleport")
	if err == nil || !strings.HasPrefix(err.Error(), "teleport:") {
		t.Errorf("error does not name the command: %v", err)
	}
	if _, err := s.Exec("quit"); !errors.Is(err, ErrQuit) {
		t.Errorf("quit returned %v", err)
	}
	if out, err := s.Exec("  # comment"); out != "" || err != nil {
		t.Errorf("comment produced %q, %v", out, err)
	}
}

func TestObjectsListing(t *testing.T) {
	s := newSession(t, nil)
	run(t, s, "mode point", "down 1 1", "up 1 1", "down 2 2", "up 2 2", "undo")
	out := run(t, s, "objects")
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("objects output %q", out)
	}
	if !strings.HasSuffix(lines[0], "point visible") || !strings.HasSuffix(lines[1], "point hidden") {
		t.Fatalf("objects output %q", out)
	}
}
