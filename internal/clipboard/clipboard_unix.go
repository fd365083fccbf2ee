//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"context"
	"image"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error

	ownMu sync.Mutex
	owned <-chan struct{}
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// write publishes data and keeps the channel that closes once another
// program takes the clipboard over.
func write(f clipboard.Format, data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	if len(data) == 0 {
		return errNothing
	}
	ch := clipboard.Write(f, data)
	ownMu.Lock()
	owned = ch
	ownMu.Unlock()
	return nil
}

// Hold blocks until another program takes the clipboard over or ctx ends.
// X11 and Wayland serve clipboard data from the writing process, so a
// command that exits right after copying must wait here.
func Hold(ctx context.Context) error {
	ownMu.Lock()
	ch := owned
	ownMu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteImage publishes img as a PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return write(clipboard.FmtImage, data)
}

func WriteText(text string) error { return write(clipboard.FmtText, []byte(text)) }

// ReadText returns the UTF-8 text on the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", errEmpty
	}
	return string(data), nil
}
