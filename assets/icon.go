package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
)

// IconSizes lists the icon sizes IconImage draws.
var IconSizes = []int{16, 32, 48, 64, 128}

// IconImage draws the GeoBoard icon: a filled triangle and a circle over a
// small grid.
func IconImage(size int) (image.Image, error) {
	if size < 8 {
		return nil, fmt.Errorf("icon %dpx too small", size)
	}
	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.DrawRoundedRectangle(0, 0, s, s, s/8)
	dc.SetHexColor("#ffffff")
	dc.Fill()

	dc.SetHexColor("#d0d0d0")
	dc.SetLineWidth(s / 64)
	for i := 1; i < 4; i++ {
		v := s * float64(i) / 4
		dc.DrawLine(v, 0, v, s)
		dc.DrawLine(0, v, s, v)
	}
	dc.Stroke()

	dc.MoveTo(s*0.15, s*0.85)
	dc.LineTo(s*0.85, s*0.85)
	dc.LineTo(s*0.5, s*0.2)
	dc.ClosePath()
	dc.SetRGBA255(0, 0, 255, 77)
	dc.FillPreserve()
	dc.SetHexColor("#0000ff")
	dc.SetLineWidth(s / 24)
	dc.Stroke()

	dc.DrawCircle(s*0.5, s*0.62, s*0.18)
	dc.SetHexColor("#ff0000")
	dc.Stroke()
	return dc.Image(), nil
}

// IconPNG returns the icon encoded as PNG.
func IconPNG(size int) ([]byte, error) {
	img, err := IconImage(size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	iconFileOnce sync.Once
	iconFilePath string
	iconFileErr  error
)

// IconFile writes the 64px icon below the user cache directory once and
// returns its path, for notification daemons that take icon files.
func IconFile() (string, error) {
	iconFileOnce.Do(func() {
		dir, err := os.UserCacheDir()
		if err != nil {
			iconFileErr = err
			return
		}
		iconFilePath, iconFileErr = WriteIcon(filepath.Join(dir, "geoboard"), 64)
	})
	return iconFilePath, iconFileErr
}

// WriteIcon saves the icon of the given size in dir.
func WriteIcon(dir string, size int) (string, error) {
	data, err := IconPNG(size)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("icon-%d.png", size))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
