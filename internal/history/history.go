// Package history keeps the linear undo/redo record of completed shapes.
package history

// Handle is the part of a board primitive that history needs.
type Handle interface {
	Visible() bool
	Hide() error
	Show() error
	Remove() error
}

// Action is one undoable unit: every primitive a finished shape created.
type Action struct {
	Label   string
	Handles []Handle
}

// Outcome counts what happened to the handles of an undone or redone action.
type Outcome struct {
	Hidden  int
	Shown   int
	Removed int
	Failed  int
}

// Stack holds the undo and redo stacks. The most recent action is last in
// both slices. The zero value is ready to use.
type Stack struct {
	undo []Action
	redo []undone
}

// undone remembers which handles were visible before an undo so redo only
// shows those again.
type undone struct {
	action  Action
	visible []bool
}

// New returns an empty stack.
func New() *Stack { return &Stack{} }

// Push records a completed action and discards the redo chain.
func (s *Stack) Push(a Action) {
	s.undo = append(s.undo, a)
	s.redo = nil
}

// Undo hides the most recent action and moves it onto the redo stack.
// A handle that cannot be hidden is removed instead. Failures are counted,
// never returned. The bool is false when there was nothing to undo.
func (s *Stack) Undo() (Outcome, bool) {
	var out Outcome
	if len(s.undo) == 0 {
		return out, false
	}
	last := len(s.undo) - 1
	a := s.undo[last]
	s.undo = s.undo[:last]
	u := undone{action: a, visible: make([]bool, len(a.Handles))}
	for i, h := range a.Handles {
		u.visible[i] = h.Visible()
		if err := h.Hide(); err == nil {
			out.Hidden++
			continue
		}
		if err := h.Remove(); err == nil {
			out.Removed++
			continue
		}
		out.Failed++
	}
	s.redo = append(s.redo, u)
	return out, true
}

// Redo shows the most recently undone action again and moves it back onto
// the undo stack. Handles that were hidden before the undo stay hidden and
// handles that were removed stay gone.
func (s *Stack) Redo() (Outcome, bool) {
	var out Outcome
	if len(s.redo) == 0 {
		return out, false
	}
	last := len(s.redo) - 1
	u := s.redo[last]
	s.redo = s.redo[:last]
	for i, h := range u.action.Handles {
		if !u.visible[i] {
			continue
		}
		if err := h.Show(); err != nil {
			out.Failed++
			continue
		}
		out.Shown++
	}
	s.undo = append(s.undo, u.action)
	return out, true
}

// Clear empties both stacks.
func (s *Stack) Clear() {
	s.undo = nil
	s.redo = nil
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }
func (s *Stack) UndoLen() int  { return len(s.undo) }
func (s *Stack) RedoLen() int  { return len(s.redo) }

// Peek returns the most recent undoable action.
func (s *Stack) Peek() (Action, bool) {
	if len(s.undo) == 0 {
		return Action{}, false
	}
	return s.undo[len(s.undo)-1], true
}
