// Package clipboard moves drawings in and out of the system clipboard:
// rendered PNGs as images and JSON documents as text.
package clipboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
)

var (
	errNoDisplay   = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errEmpty       = errors.New("clipboard does not contain text data")
	errNothing     = errors.New("nothing to copy")
	errNotDocument = errors.New("clipboard text is not a JSON drawing")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errNothing
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument places an encoded JSON drawing on the clipboard as text.
func WriteDocument(data []byte) error {
	data = bytes.TrimSpace(data)
	if !isDocument(data) {
		return errNotDocument
	}
	return WriteText(string(data))
}

// ReadDocument returns the JSON drawing held on the clipboard.
func ReadDocument() ([]byte, error) {
	text, err := ReadText()
	if err != nil {
		return nil, err
	}
	data := bytes.TrimSpace([]byte(text))
	if !isDocument(data) {
		return nil, errNotDocument
	}
	return data, nil
}

// isDocument reports whether data is a JSON object. The schema is checked
// when the document is decoded.
func isDocument(data []byte) bool {
	return len(data) > 0 && data[0] == '{' && json.Valid(data)
}
