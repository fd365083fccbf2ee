// Package session ties a board to its construction machine, history and
// exporter. Every user surface (window, script, terminal) drives a Session.
package session

import (
	"fmt"
	"log"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/construct"
	"github.com/example/geoboard/internal/export"
	"github.com/example/geoboard/internal/history"
)

// ClearPrompt is the question asked before the board is wiped.
const ClearPrompt = "Are you sure you want to clear the board? This will delete all drawings and cannot be undone."

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always answers every question with yes.
var Always = ConfirmFunc(func(string) bool { return true })

// Options configures a Session.
type Options struct {
	Board    board.Options
	Styles   construct.Styles
	Exporter *export.Exporter
	// Confirmer gates Clear. A nil Confirmer declines.
	Confirmer Confirmer
}

// Session is one drawing board with its tools and history.
type Session struct {
	boardOpts board.Options
	board     *board.Board
	hist      *history.Stack
	machine   *construct.Machine
	exporter  *export.Exporter
	confirm   Confirmer
}

// New creates a session with an empty board.
func New(opts Options) (*Session, error) {
	if opts.Styles == (construct.Styles{}) {
		opts.Styles = construct.DefaultStyles()
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewExporter(".")
	}
	b, err := board.New(opts.Board)
	if err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	s := &Session{
		boardOpts: opts.Board,
		board:     b,
		hist:      history.New(),
		exporter:  opts.Exporter,
		confirm:   opts.Confirmer,
	}
	s.machine = construct.New(b, s.hist, opts.Styles)
	return s, nil
}

func (s *Session) Board() *board.Board            { return s.board }
func (s *Session) History() *history.Stack        { return s.hist }
func (s *Session) Machine() *construct.Machine    { return s.machine }
func (s *Session) Exporter() *export.Exporter     { return s.exporter }
func (s *Session) SetConfirmer(c Confirmer)       { s.confirm = c }
func (s *Session) Mode() construct.Mode           { return s.machine.Mode() }
func (s *Session) SetMode(m construct.Mode) error { return s.machine.SetMode(m) }

func (s *Session) PointerDown(c board.Coords) error  { return s.machine.PointerDown(c) }
func (s *Session) PointerMove(c board.Coords) error  { return s.machine.PointerMove(c) }
func (s *Session) PointerUp(c board.Coords) error    { return s.machine.PointerUp(c) }
func (s *Session) PointerLeave(c board.Coords) error { return s.machine.PointerLeave(c) }
func (s *Session) DoubleClick(c board.Coords) error  { return s.machine.DoubleClick(c) }
func (s *Session) Escape()                           { s.machine.Escape() }

// Undo hides the most recent shape.
func (s *Session) Undo() (history.Outcome, bool) {
	out, ok := s.hist.Undo()
	if out.Failed > 0 {
		log.Printf("session: undo: %d primitives could not be hidden or removed", out.Failed)
	}
	return out, ok
}

// Redo shows the most recently undone shape again.
func (s *Session) Redo() (history.Outcome, bool) { return s.hist.Redo() }

// Clear wipes the board after the confirmer agrees. The old board is torn
// down and replaced before Clear returns, and both history stacks are
// emptied. It reports whether the board was cleared.
func (s *Session) Clear() (bool, error) {
	if s.confirm == nil || !s.confirm.Confirm(ClearPrompt) {
		return false, nil
	}
	s.board.Free()
	nb, err := board.New(s.boardOpts)
	if err != nil {
		return true, fmt.Errorf("recreate board: %w", err)
	}
	s.board = nb
	s.machine.Rebind(nb)
	s.hist.Clear()
	return true, nil
}

// Export writes the board in format f. An empty name uses the default file
// name of the format.
func (s *Session) Export(f export.Format, name string) (string, error) {
	return s.exporter.Export(s.board, f, name)
}

// ExportBytes encodes the board in memory.
func (s *Session) ExportBytes(f export.Format) ([]byte, error) {
	return s.exporter.Bytes(s.board, f)
}

// Import recreates a document on the board as a single undoable action.
func (s *Session) Import(doc *export.Document) (int, error) {
	made, err := export.Restore(s.board, doc)
	if err != nil {
		return 0, err
	}
	if len(made) == 0 {
		return 0, nil
	}
	hs := make([]history.Handle, len(made))
	for i, p := range made {
		hs[i] = p
	}
	s.hist.Push(history.Action{Label: "import", Handles: hs})
	return len(doc.Objects), nil
}

// Status summarises the session state on one line.
func (s *Session) Status() string {
	user := 0
	for _, o := range s.board.Objects() {
		if !o.Kind().Infrastructure() && o.Visible() {
			user++
		}
	}
	return fmt.Sprintf("mode=%s drawing=%v triangle=%s curve=%d undo=%d redo=%d visible=%d",
		s.machine.Mode(), s.machine.Drawing(), s.machine.TriangleStage(),
		s.machine.CurvePoints(), s.hist.UndoLen(), s.hist.RedoLen(), user)
}
