//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"context"
	"errors"
	"image"

	"github.com/atotto/clipboard"
)

var errNoImages = errors.New("copying images is not supported on this platform, export a PNG instead")

func WriteImage(image.Image) error { return errNoImages }

func WriteText(text string) error {
	if text == "" {
		return errNothing
	}
	return clipboard.WriteAll(text)
}

func ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errEmpty
	}
	return text, nil
}

// Hold returns at once: the system clipboard keeps the data.
func Hold(context.Context) error { return nil }
