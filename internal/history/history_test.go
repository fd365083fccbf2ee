package history

import (
	"errors"
	"testing"
)

type fakeHandle struct {
	visible  bool
	removed  bool
	failHide bool
	failAll  bool
}

var errFake = errors.New("fake failure")

func (f *fakeHandle) Visible() bool { return f.visible && !f.removed }

func (f *fakeHandle) Hide() error {
	if f.failHide || f.failAll || f.removed {
		return errFake
	}
	f.visible = false
	return nil
}

func (f *fakeHandle) Show() error {
	if f.removed || f.failAll {
		return errFake
	}
	f.visible = true
	return nil
}

func (f *fakeHandle) Remove() error {
	if f.removed || f.failAll {
		return errFake
	}
	f.removed = true
	return nil
}

func action(hs ...*fakeHandle) Action {
	a := Action{Label: "test"}
	for _, h := range hs {
		a.Handles = append(a.Handles, h)
	}
	return a
}

func TestEmptyStackIsNoop(t *testing.T) {
	s := New()
	if _, ok := s.Undo(); ok {
		t.Fatal("Undo on empty stack reported work")
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("Redo on empty stack reported work")
	}
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("empty stack claims it can undo or redo")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New()
	a, b := &fakeHandle{visible: true}, &fakeHandle{visible: true}
	s.Push(action(a, b))

	out, ok := s.Undo()
	if !ok || out.Hidden != 2 {
		t.Fatalf("Undo = %+v, %v", out, ok)
	}
	if a.visible || b.visible {
		t.Fatal("handles still visible after undo")
	}
	if s.UndoLen() != 0 || s.RedoLen() != 1 {
		t.Fatalf("stacks after undo: %d/%d", s.UndoLen(), s.RedoLen())
	}

	out, ok = s.Redo()
	if !ok || out.Shown != 2 {
		t.Fatalf("Redo = %+v, %v", out, ok)
	}
	if !a.visible || !b.visible {
		t.Fatal("handles not visible after redo")
	}
	if s.UndoLen() != 1 || s.RedoLen() != 0 {
		t.Fatalf("stacks after redo: %d/%d", s.UndoLen(), s.RedoLen())
	}
}

func TestRedoKeepsHiddenHandlesHidden(t *testing.T) {
	s := New()
	shape, anchor := &fakeHandle{visible: true}, &fakeHandle{}
	s.Push(action(shape, anchor))
	s.Undo()
	out, _ := s.Redo()
	if out.Shown != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !shape.visible || anchor.visible {
		t.Fatalf("visibility after redo: shape=%v anchor=%v", shape.visible, anchor.visible)
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := New()
	s.Push(action(&fakeHandle{visible: true}))
	s.Push(action(&fakeHandle{visible: true}))
	s.Undo()
	s.Undo()
	s.Redo()
	if !s.CanRedo() {
		t.Fatal("expected a redo entry before push")
	}
	s.Push(action(&fakeHandle{visible: true}))
	if s.CanRedo() {
		t.Fatal("push did not clear redo stack")
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo after push should be a no-op")
	}
	if s.UndoLen() != 2 {
		t.Fatalf("undo length %d", s.UndoLen())
	}
}

func TestUndoFallsBackToRemove(t *testing.T) {
	s := New()
	stuck := &fakeHandle{visible: true, failHide: true}
	broken := &fakeHandle{visible: true, failAll: true}
	ok := &fakeHandle{visible: true}
	s.Push(action(stuck, broken, ok))

	out, _ := s.Undo()
	if out.Hidden != 1 || out.Removed != 1 || out.Failed != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !stuck.removed {
		t.Fatal("handle that could not be hidden was not removed")
	}

	out, _ = s.Redo()
	if out.Shown != 1 || out.Failed != 2 {
		t.Fatalf("unexpected redo outcome %+v", out)
	}
	if stuck.visible && !stuck.removed {
		t.Fatal("removed handle came back")
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Push(action(&fakeHandle{visible: true}))
	s.Push(action(&fakeHandle{visible: true}))
	s.Undo()
	s.Clear()
	if s.CanUndo() || s.CanRedo() {
		t.Fatal("Clear left entries behind")
	}
	if _, ok := s.Peek(); ok {
		t.Fatal("Peek found an action after Clear")
	}
}
