package theme

import (
	"image/color"
)

// Theme defines the color palette for the application UI and the board canvas.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Main text color

	// Toolbar
	ToolbarBackground      color.RGBA
	ButtonBackground       color.RGBA
	ButtonBackgroundHover  color.RGBA
	ButtonBackgroundActive color.RGBA // Selected drawing tool
	ButtonText             color.RGBA
	ButtonTextActive       color.RGBA
	ButtonTextDisabled     color.RGBA
	ButtonBorder           color.RGBA

	// Status line
	StatusBackground color.RGBA
	StatusText       color.RGBA
	AlertText        color.RGBA

	// Canvas
	CanvasBackground color.RGBA
	Axis             color.RGBA
	TickLabel        color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                   "Default",
		Background:             color.RGBA{229, 231, 235, 255},
		Foreground:             color.RGBA{17, 24, 39, 255},
		ToolbarBackground:      color.RGBA{243, 244, 246, 255},
		ButtonBackground:       color.RGBA{255, 255, 255, 255},
		ButtonBackgroundHover:  color.RGBA{229, 231, 235, 255},
		ButtonBackgroundActive: color.RGBA{59, 130, 246, 255},
		ButtonText:             color.RGBA{17, 24, 39, 255},
		ButtonTextActive:       color.RGBA{255, 255, 255, 255},
		ButtonTextDisabled:     color.RGBA{156, 163, 175, 255},
		ButtonBorder:           color.RGBA{209, 213, 219, 255},
		StatusBackground:       color.RGBA{243, 244, 246, 255},
		StatusText:             color.RGBA{55, 65, 81, 255},
		AlertText:              color.RGBA{220, 38, 38, 255},
		CanvasBackground:       color.RGBA{255, 255, 255, 255},
		Axis:                   color.RGBA{102, 102, 102, 255},
		TickLabel:              color.RGBA{51, 51, 51, 255},
	}
}
