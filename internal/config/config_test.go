package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/geoboard/internal/board"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/drawings

[board]
bounding_box = -5, 5, 5, -5
width = 800
height = 800
axis = false
export_scale = 3

[draw]
color = crimson
fill_opacity = 0.5
stroke_width = 3
triangle_color = "#00ff00"

[notify]
export = true
copy = false

[theme.my_custom_theme]
Background = #111111
CanvasBackground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.Board.BoundingBox != (board.BoundingBox{-5, 5, 5, -5}) {
		t.Errorf("Unexpected bounding box %v", cfg.Board.BoundingBox)
	}
	if cfg.Board.Width != 800 || cfg.Board.Height != 800 || cfg.Board.Axis || cfg.Board.ExportScale != 3 {
		t.Errorf("Unexpected board section %+v", cfg.Board)
	}
	if cfg.Draw.Color != "#dc143c" {
		t.Errorf("Expected crimson as hex, got %q", cfg.Draw.Color)
	}
	if !cfg.Notify.Export {
		t.Error("Expected notify.export to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestStylesFromDraw(t *testing.T) {
	cfg := New()
	cfg.Draw = Draw{Color: "#ff0000", FillOpacity: 0.6, StrokeWidth: 4, TriangleColor: "#00ff00"}
	st := cfg.Styles()
	if st.Line.StrokeColor != "#ff0000" || st.Area.FillColor != "#ff0000" {
		t.Errorf("color not applied: %+v %+v", st.Line, st.Area)
	}
	if st.Area.FillOpacity != 0.6 || st.Line.StrokeWidth != 4 {
		t.Errorf("numbers not applied: %+v", st.Area)
	}
	if st.Triangle.FillColor != "#00ff00" || st.Triangle.StrokeColor != "#f59e0b" {
		t.Errorf("triangle style %+v", st.Triangle)
	}
	if def := New().Styles(); def.Point.Size != 4 || def.Area.FillOpacity != 0.3 {
		t.Errorf("defaults changed: %+v", def.Point)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"[board]\nbounding_box = 1, 2, 3",
		"[board]\nbounding_box = 5, 5, -5, -5",
		"[board]\nwidth = -1",
		"[draw]\nfill_opacity = 2",
		"[draw]\ncolor = nope",
		"[notify]\nexport = maybe",
		"[theme.x]\nAxis = #1",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/drawings

[board]
bounding_box = -2, 8, 8, -2
export_scale = 1.5

[draw]
color = #123456
tension = 0.3

[notify]
export = true
copy = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Board != cfg2.Board {
		t.Errorf("Board mismatch: %+v vs %+v", cfg.Board, cfg2.Board)
	}
	if cfg.Draw != cfg2.Draw {
		t.Errorf("Draw mismatch: %+v vs %+v", cfg.Draw, cfg2.Draw)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd := t.TempDir()
	old, _ := os.Getwd()
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })

	l := NewLoader("dev", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config %s", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.Board.Width != 600 {
		t.Fatalf("defaults not returned: %+v %v", cfg, err)
	}

	xdg := filepath.Join(home, ".config", "geoboard", "config.rc")
	want := New()
	want.Theme = "dark"
	saved, err := l.Save(want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved != xdg {
		t.Fatalf("saved to %s, want %s", saved, xdg)
	}

	local := filepath.Join(wd, ".geoboardrc")
	if err := os.WriteFile(local, []byte("theme = local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "local" {
		t.Fatalf("dev-mode local config not preferred, theme %q", cfg.Theme)
	}
	cfg, err = NewLoader("v1.0.0", "").Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "dark" {
		t.Fatalf("release build did not read XDG config, theme %q", cfg.Theme)
	}
}
