package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value, or Key: Value when the line has no '='
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.SetField(currentTheme, key, value)
		case currentSection == "board":
			err = setBoardField(&cfg.Board, key, value)
		case currentSection == "draw":
			err = setDrawField(&cfg.Draw, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setBoardField(b *Board, key, value string) error {
	switch strings.ToLower(key) {
	case "bounding_box", "boundingbox":
		bb, err := ParseBoundingBox(value)
		if err != nil {
			return err
		}
		b.BoundingBox = bb
	case "width", "height":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		if strings.EqualFold(key, "width") {
			b.Width = n
		} else {
			b.Height = n
		}
	case "axis":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for key %s: %w", key, err)
		}
		b.Axis = v
	case "export_scale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid export_scale %q", value)
		}
		b.ExportScale = f
	}
	return nil
}

func setDrawField(d *Draw, key, value string) error {
	k := strings.ToLower(key)
	switch k {
	case "color", "triangle_color":
		c, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		if k == "color" {
			d.Color = theme.Hex(c)
		} else {
			d.TriangleColor = theme.Hex(c)
		}
		return nil
	}

	var target *float64
	switch k {
	case "fill_opacity":
		target = &d.FillOpacity
	case "triangle_fill":
		target = &d.TriangleFill
	case "stroke_width":
		target = &d.StrokeWidth
	case "point_size":
		target = &d.PointSize
	case "tension":
		target = &d.Tension
	default:
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("invalid number for key %s: %q", key, value)
	}
	if (k == "fill_opacity" || k == "triangle_fill") && f > 1 {
		return fmt.Errorf("%s must be between 0 and 1", key)
	}
	*target = f
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// ParseBoundingBox parses "left, top, right, bottom".
func ParseBoundingBox(s string) (board.BoundingBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 4 {
		return board.BoundingBox{}, fmt.Errorf("bounding box needs 4 numbers, got %d", len(fields))
	}
	var bb board.BoundingBox
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return board.BoundingBox{}, fmt.Errorf("invalid bounding box value %q: %w", f, err)
		}
		bb[i] = v
	}
	if err := bb.Validate(); err != nil {
		return board.BoundingBox{}, err
	}
	return bb, nil
}
