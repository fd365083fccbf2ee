package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/notify"
	"github.com/example/geoboard/internal/render"
	"github.com/example/geoboard/internal/session"
	"github.com/example/geoboard/internal/theme"
)

// AppState holds the window configuration for a drawing session.
type AppState struct {
	Session  *session.Session
	Theme    *theme.Theme
	Notifier *notify.Notifier

	clip     Clipboard
	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the UI and canvas colours.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithNotifier sets the notifier used after exports and copies.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option { return func(a *AppState) { a.clip = c } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState for sess.
func New(sess *session.Session, opts ...Option) *AppState {
	a := &AppState{
		Session:  sess,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// NotifyChanged requests a repaint after the session was changed from
// outside the window.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	bw, bh := a.Session.Board().Size()
	items := toolbarItems()
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.label
	}
	lay := newLayout(bw, bh, labels)
	width, height := lay.width, lay.height

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "GeoBoard"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	ctl := NewController(a.Session, lay.canvas)
	ctl.SetNotifier(a.Notifier)
	if a.clip != nil {
		ctl.SetClipboard(a.clip)
	}

	buttons := make([]*CacheButton, len(items))
	rects := lay.buttonRects(len(items), len(items)-6)
	for i, it := range items {
		it := it
		lb := &LabelButton{label: it.label, action: it.action, mode: it.mode, theme: a.Theme}
		if it.action == actionMode {
			lb.onActivate = func() { ctl.SelectMode(it.mode) }
		} else {
			lb.onActivate = func() { ctl.Activate(it.action) }
		}
		buttons[i] = &CacheButton{Button: lb}
		buttons[i].SetRect(rects[i])
	}
	hover := -1

	canvasRenderer := render.New(a.Theme, 1)
	var (
		boardImg     *image.RGBA
		drawnBoard   *board.Board
		drawnVersion uint64
	)
	boardImage := func() *image.RGBA {
		b := a.Session.Board()
		if boardImg == nil || b != drawnBoard || b.Version() != drawnVersion {
			boardImg = canvasRenderer.Image(b)
			drawnBoard, drawnVersion = b, b.Version()
		}
		return boardImg
	}

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	buttonStates := func() []ButtonState {
		states := make([]ButtonState, len(buttons))
		mode := a.Session.Mode()
		for i, cb := range buttons {
			lb := cb.Button.(*LabelButton)
			switch {
			case lb.action == actionMode && lb.mode == mode:
				states[i] = StatePressed
			case !ctl.Enabled(lb.action):
				states[i] = StateDisabled
			case i == hover:
				states[i] = StateHover
			}
		}
		return states
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			status, alert := ctl.Status()
			st := paintState{
				width:   width,
				height:  height,
				layout:  lay,
				theme:   a.Theme,
				board:   boardImage(),
				buttons: buttons,
				states:  buttonStates(),
				title:   fmt.Sprintf("tool: %s", a.Session.Mode()),
				status:  status,
				alert:   alert,
			}
			enqueueFrame(paintCh, st)
		case mouse.Event:
			p := image.Point{int(e.X), int(e.Y)}
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				if i := hitButton(buttons, p); i >= 0 {
					buttons[i].Activate()
				} else {
					ctl.Press(p)
				}
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				ctl.Release(p)
			case e.Direction == mouse.DirNone:
				hover = hitButton(buttons, p)
				ctl.Move(p)
			default:
				continue
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if !ctl.Key(shortcutFor(e)) {
				continue
			}
			if ctl.Quit() {
				stopPaint()
				return
			}
			w.Send(paint.Event{})
		case error:
			log.Printf("window: %v", e)
		}
	}
}
