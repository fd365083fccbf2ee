package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/geoboard/internal/construct"
	"github.com/example/geoboard/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// shortcutFor normalises a key event so it can be looked up in the shortcut
// table: printable keys match on their lower-case rune, others on their code.
// Shift only counts together with Control.
func shortcutFor(e key.Event) KeyShortcut {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	if mods&key.ModControl == 0 {
		mods = 0
	}
	if e.Rune > 0 {
		r := e.Rune
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return KeyShortcut{Rune: r, Modifiers: mods}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [4]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [4]*image.RGBA{}
	}
}

// LabelButton is a toolbar button with a text label. Mode buttons set mode;
// action buttons leave it at ModeNone and name their action instead.
type LabelButton struct {
	label  string
	action string
	mode   construct.Mode
	theme  *theme.Theme
	rect   image.Rectangle
	// onActivate is called when the button is clicked.
	onActivate func()
}

func (lb *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	th := lb.theme
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg, fg = th.ButtonBackgroundActive, th.ButtonTextActive
	case StateDisabled:
		fg = th.ButtonTextDisabled
	}
	draw.Draw(dst, lb.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	strokeRect(dst, lb.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(lb.rect.Min.X+4, lb.rect.Min.Y+16)}
	d.DrawString(lb.label)
}

func (lb *LabelButton) Rect() image.Rectangle     { return lb.rect }
func (lb *LabelButton) SetRect(r image.Rectangle) { lb.rect = r }

func (lb *LabelButton) Activate() {
	if lb.onActivate != nil {
		lb.onActivate()
	}
}

// toolbarItem is one entry of the toolbar before it is laid out.
type toolbarItem struct {
	label  string
	action string
	mode   construct.Mode
}

var modeLabels = map[construct.Mode]string{
	construct.ModePoint:       "P:Point",
	construct.ModeSegment:     "S:Segment",
	construct.ModeArrow:       "A:Arrow",
	construct.ModeDoubleArrow: "D:Dbl arrow",
	construct.ModeTriangle:    "T:Triangle",
	construct.ModeRectangle:   "R:Rect",
	construct.ModeCircle:      "O:Circle",
	construct.ModeCurve:       "U:Curve",
}

var modeKeys = map[rune]construct.Mode{
	'p': construct.ModePoint,
	's': construct.ModeSegment,
	'a': construct.ModeArrow,
	'd': construct.ModeDoubleArrow,
	't': construct.ModeTriangle,
	'r': construct.ModeRectangle,
	'o': construct.ModeCircle,
	'u': construct.ModeCurve,
	'n': construct.ModeNone,
}

func toolbarItems() []toolbarItem {
	var items []toolbarItem
	for _, m := range construct.Modes {
		items = append(items, toolbarItem{label: modeLabels[m], action: actionMode, mode: m})
	}
	return append(items,
		toolbarItem{label: "Undo", action: actionUndo},
		toolbarItem{label: "Redo", action: actionRedo},
		toolbarItem{label: "Clear", action: actionClear},
		toolbarItem{label: "PNG", action: actionPNG},
		toolbarItem{label: "JSON", action: actionJSON},
		toolbarItem{label: "Copy", action: actionCopy},
	)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
