//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"sync"

	"github.com/atotto/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		if clipboard.Unsupported {
			initErr = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")
		}
	})
	return initErr
}

// WriteImage pipes a PNG to wl-copy or xclip. atotto/clipboard only
// handles text.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch {
	case os.Getenv("WAYLAND_DISPLAY") != "":
		cmd = exec.Command("wl-copy", "--type", "image/png")
	default:
		cmd = exec.Command("xclip", "-selection", "clipboard", "-t", "image/png", "-i")
	}
	cmd.Stdin = bytes.NewReader(data)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Path, err, bytes.TrimSpace(out))
	}
	return nil
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return clipboard.WriteAll(text)
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errEmpty
	}
	return text, nil
}

// Hold returns at once: xclip and wl-copy keep serving the data after this
// process exits.
func Hold(context.Context) error { return nil }
