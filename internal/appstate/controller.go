package appstate

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/clipboard"
	"github.com/example/geoboard/internal/construct"
	"github.com/example/geoboard/internal/export"
	"github.com/example/geoboard/internal/notify"
	"github.com/example/geoboard/internal/session"
)

const (
	doubleClickWindow = 400 * time.Millisecond
	doubleClickSlop   = 5
	clearConfirmTime  = 2 * time.Second
	messageTime       = 2 * time.Second
	alertTime         = 4 * time.Second
)

const (
	actionMode   = "mode"
	actionUndo   = "undo"
	actionRedo   = "redo"
	actionClear  = "clear"
	actionPNG    = "png"
	actionJSON   = "json"
	actionCopy   = "copy"
	actionCopyJS = "copy-json"
	actionPaste  = "paste"
	actionEscape = "escape"
	actionQuit   = "quit"
)

// Clipboard is the part of the system clipboard the window uses.
type Clipboard interface {
	WriteImage(img image.Image) error
	WriteDocument(data []byte) error
	ReadDocument() ([]byte, error)
}

type systemClipboard struct{}

func (systemClipboard) WriteImage(img image.Image) error { return clipboard.WriteImage(img) }
func (systemClipboard) WriteDocument(data []byte) error  { return clipboard.WriteDocument(data) }
func (systemClipboard) ReadDocument() ([]byte, error)    { return clipboard.ReadDocument() }

// Controller turns window input into session operations. It knows the
// canvas position in window pixels but nothing about shiny.
type Controller struct {
	sess     *session.Session
	notifier *notify.Notifier
	clip     Clipboard
	now      func() time.Time
	canvas   image.Rectangle

	keys map[KeyShortcut]string

	pressed      bool
	lastPress    time.Time
	lastPressAt  image.Point
	haveLast     bool
	emitDouble   bool
	clearArmedAt time.Time

	message      string
	messageUntil time.Time
	alert        bool
	quit         bool
}

// NewController drives sess from a canvas placed at canvas in window pixels.
func NewController(sess *session.Session, canvas image.Rectangle) *Controller {
	c := &Controller{
		sess:   sess,
		clip:   systemClipboard{},
		now:    time.Now,
		canvas: canvas,
		keys: map[KeyShortcut]string{
			{Code: key.CodeEscape}:                                actionEscape,
			{Rune: 'z', Modifiers: key.ModControl}:                actionUndo,
			{Rune: 'y', Modifiers: key.ModControl}:                actionRedo,
			{Rune: 'z', Modifiers: key.ModControl | key.ModShift}: actionRedo,
			{Rune: 's', Modifiers: key.ModControl}:                actionPNG,
			{Rune: 'e', Modifiers: key.ModControl}:                actionJSON,
			{Rune: 'c', Modifiers: key.ModControl}:                actionCopy,
			{Rune: 'c', Modifiers: key.ModControl | key.ModShift}: actionCopyJS,
			{Rune: 'v', Modifiers: key.ModControl}:                actionPaste,
			{Rune: 'q'}:                                           actionQuit,
		},
	}
	sess.SetConfirmer(session.ConfirmFunc(c.confirmClear))
	return c
}

// SetNotifier routes export and copy notifications to n.
func (c *Controller) SetNotifier(n *notify.Notifier) { c.notifier = n }

// SetClipboard replaces the system clipboard.
func (c *Controller) SetClipboard(cb Clipboard) { c.clip = cb }

func (c *Controller) Canvas() image.Rectangle   { return c.canvas }
func (c *Controller) Session() *session.Session { return c.sess }
func (c *Controller) Quit() bool                { return c.quit }

func (c *Controller) toUser(p image.Point) board.Coords {
	return c.sess.Board().ScreenToUser(float64(p.X-c.canvas.Min.X), float64(p.Y-c.canvas.Min.Y))
}

// Press handles a left button press at window pixel p.
func (c *Controller) Press(p image.Point) {
	if !p.In(c.canvas) {
		return
	}
	now := c.now()
	c.report("pointer down", c.sess.PointerDown(c.toUser(p)))
	c.pressed = true

	d := p.Sub(c.lastPressAt)
	if c.haveLast && now.Sub(c.lastPress) <= doubleClickWindow &&
		abs(d.X) <= doubleClickSlop && abs(d.Y) <= doubleClickSlop {
		c.emitDouble = true
		c.haveLast = false
		return
	}
	c.lastPress, c.lastPressAt, c.haveLast = now, p, true
}

// Move handles pointer motion. Leaving the canvas with the button held ends
// the gesture there.
func (c *Controller) Move(p image.Point) {
	if !p.In(c.canvas) {
		if c.pressed {
			c.pressed = false
			c.emitDouble = false
			c.report("pointer leave", c.sess.PointerLeave(c.toUser(clampTo(p, c.canvas))))
		}
		return
	}
	c.report("pointer move", c.sess.PointerMove(c.toUser(p)))
}

// Release handles a left button release. The second release of a double
// click also delivers DoubleClick.
func (c *Controller) Release(p image.Point) {
	if !c.pressed {
		return
	}
	c.pressed = false
	at := c.toUser(clampTo(p, c.canvas))
	c.report("pointer up", c.sess.PointerUp(at))
	if c.emitDouble {
		c.emitDouble = false
		c.report("double click", c.sess.DoubleClick(at))
	}
}

// SelectMode toggles mode: choosing the active tool turns drawing off.
func (c *Controller) SelectMode(m construct.Mode) {
	if c.sess.Mode() == m {
		m = construct.ModeNone
	}
	c.report("mode", c.sess.SetMode(m))
}

// Enabled reports whether the toolbar action can run.
func (c *Controller) Enabled(action string) bool {
	switch action {
	case actionUndo:
		return c.sess.History().CanUndo()
	case actionRedo:
		return c.sess.History().CanRedo()
	}
	return true
}

// Activate runs a named action. Disabled actions are ignored.
func (c *Controller) Activate(action string) {
	if !c.Enabled(action) {
		return
	}
	switch action {
	case actionEscape:
		c.sess.Escape()
	case actionUndo:
		c.sess.Undo()
	case actionRedo:
		c.sess.Redo()
	case actionClear:
		c.clear()
	case actionPNG:
		c.export(export.FormatPNG)
	case actionJSON:
		c.export(export.FormatJSON)
	case actionCopy:
		c.copy()
	case actionCopyJS:
		c.copyDocument()
	case actionPaste:
		c.paste()
	case actionQuit:
		c.quit = true
	}
}

// Key handles a key press and reports whether it was used.
func (c *Controller) Key(ks KeyShortcut) bool {
	if action, ok := c.keys[ks]; ok {
		c.Activate(action)
		return true
	}
	if ks.Modifiers == 0 {
		if m, ok := modeKeys[ks.Rune]; ok {
			c.SelectMode(m)
			return true
		}
	}
	return false
}

func (c *Controller) clear() {
	cleared, err := c.sess.Clear()
	if err != nil {
		log.Printf("clear: %v", err)
		c.show("Failed to clear the board", true)
		return
	}
	if cleared {
		c.show("board cleared", false)
	}
}

// confirmClear arms on the first call and agrees on a second call within
// clearConfirmTime.
func (c *Controller) confirmClear(prompt string) bool {
	now := c.now()
	if !c.clearArmedAt.IsZero() && now.Sub(c.clearArmedAt) <= clearConfirmTime {
		c.clearArmedAt = time.Time{}
		return true
	}
	c.clearArmedAt = now
	c.show("press Clear again to confirm: "+prompt, false)
	return false
}

func (c *Controller) export(f export.Format) {
	path, err := c.sess.Export(f, "")
	if err != nil {
		log.Printf("export: %v", err)
		c.show(f.Alert(), true)
		return
	}
	c.show("saved "+path, false)
	c.notifier.Export(path)
}

func (c *Controller) copy() {
	img := c.sess.Exporter().Renderer.Image(c.sess.Board())
	if err := c.clip.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		c.show("Failed to copy drawing", true)
		return
	}
	c.show("drawing copied to clipboard", false)
	c.notifier.Copy("drawing")
}

func (c *Controller) copyDocument() {
	data, err := c.sess.ExportBytes(export.FormatJSON)
	if err == nil {
		err = c.clip.WriteDocument(data)
	}
	if err != nil {
		log.Printf("copy json: %v", err)
		c.show("Failed to copy drawing", true)
		return
	}
	c.show("drawing copied to clipboard as JSON", false)
	c.notifier.Copy("JSON drawing")
}

func (c *Controller) paste() {
	data, err := c.clip.ReadDocument()
	if err != nil {
		log.Printf("paste: %v", err)
		c.show("Clipboard has no drawing", true)
		return
	}
	doc, err := export.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("paste: %v", err)
		c.show("Clipboard has no drawing", true)
		return
	}
	n, err := c.sess.Import(doc)
	if err != nil {
		log.Printf("paste: %v", err)
		c.show("Failed to paste drawing", true)
		return
	}
	c.show(fmt.Sprintf("pasted %d objects", n), false)
}

func (c *Controller) show(msg string, alert bool) {
	d := messageTime
	if alert {
		d = alertTime
	}
	c.message, c.alert, c.messageUntil = msg, alert, c.now().Add(d)
}

// Message returns the transient message, if one is showing.
func (c *Controller) Message() (msg string, alert, ok bool) {
	if c.message == "" || !c.now().Before(c.messageUntil) {
		return "", false, false
	}
	return c.message, c.alert, true
}

// DismissMessage hides the current message.
func (c *Controller) DismissMessage() { c.messageUntil = time.Time{} }

// Status is the status bar text: the transient message, or a hint for the
// current tool.
func (c *Controller) Status() (text string, alert bool) {
	if msg, alert, ok := c.Message(); ok {
		return msg, alert
	}
	m := c.sess.Machine()
	var hint string
	switch {
	case m.Mode() == construct.ModeTriangle && m.TriangleStage() == construct.TriangleFirstVertex:
		hint = "click the second vertex"
	case m.Mode() == construct.ModeTriangle && m.TriangleStage() == construct.TriangleSecondVertex:
		hint = "double-click the third vertex, Esc cancels"
	case m.Mode() == construct.ModeCurve && m.CurvePoints() > 0:
		hint = fmt.Sprintf("%d points, the curve appears at 4", m.CurvePoints())
	case m.Mode() == construct.ModeNone:
		hint = "pick a tool"
	}
	h := c.sess.History()
	text = fmt.Sprintf("%s | undo %d redo %d", m.Mode(), h.UndoLen(), h.RedoLen())
	if hint != "" {
		text += " | " + hint
	}
	return text, false
}

func (c *Controller) report(what string, err error) {
	if err != nil {
		log.Printf("%s: %v", what, err)
	}
}

func clampTo(p image.Point, r image.Rectangle) image.Point {
	if p.X < r.Min.X {
		p.X = r.Min.X
	}
	if p.X >= r.Max.X {
		p.X = r.Max.X - 1
	}
	if p.Y < r.Min.Y {
		p.Y = r.Min.Y
	}
	if p.Y >= r.Max.Y {
		p.Y = r.Max.Y - 1
	}
	return p
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
