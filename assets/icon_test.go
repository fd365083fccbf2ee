package assets

import (
	"bytes"
	"image/png"
	"os"
	"testing"
)

func TestIconSizes(t *testing.T) {
	for _, size := range IconSizes {
		data, err := IconPNG(size)
		if err != nil {
			t.Fatalf("IconPNG(%d): %v", size, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %d: %v", size, err)
		}
		if cfg.Width != size || cfg.Height != size {
			t.Fatalf("icon %d is %dx%d", size, cfg.Width, cfg.Height)
		}
	}
	if _, err := IconImage(4); err == nil {
		t.Fatal("expected error for tiny icon")
	}
}

func TestWriteIcon(t *testing.T) {
	path, err := WriteIcon(t.TempDir(), 32)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
