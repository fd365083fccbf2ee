package construct

import (
	"fmt"
	"strings"
)

// Mode is the active drawing tool.
type Mode int

const (
	ModeNone Mode = iota
	ModePoint
	ModeSegment
	ModeArrow
	ModeDoubleArrow
	ModeTriangle
	ModeRectangle
	ModeCircle
	ModeCurve
)

var modeNames = [...]string{
	ModeNone:        "none",
	ModePoint:       "point",
	ModeSegment:     "segment",
	ModeArrow:       "arrow",
	ModeDoubleArrow: "doubleArrow",
	ModeTriangle:    "triangle",
	ModeRectangle:   "rectangle",
	ModeCircle:      "circle",
	ModeCurve:       "curve",
}

// Modes lists every drawing tool in toolbar order.
var Modes = []Mode{ModePoint, ModeSegment, ModeArrow, ModeDoubleArrow, ModeTriangle, ModeRectangle, ModeCircle, ModeCurve}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Drag reports whether shapes of this mode are built with a single
// press-drag-release gesture.
func (m Mode) Drag() bool {
	switch m {
	case ModePoint, ModeSegment, ModeArrow, ModeDoubleArrow, ModeRectangle, ModeCircle:
		return true
	}
	return false
}

// ParseMode converts a tool name into a Mode. Matching ignores case; an empty
// name or "off" selects ModeNone.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "", "off":
		return ModeNone, nil
	case "double-arrow", "double_arrow", "doublearrow":
		return ModeDoubleArrow, nil
	}
	for i, n := range modeNames {
		if strings.ToLower(n) == key {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("unknown mode %q", s)
}

// TriangleStage is the progress of the click-based triangle protocol.
type TriangleStage int

const (
	TriangleIdle TriangleStage = iota
	TriangleFirstVertex
	TriangleSecondVertex
)

func (s TriangleStage) String() string {
	switch s {
	case TriangleFirstVertex:
		return "first-vertex-placed"
	case TriangleSecondVertex:
		return "second-vertex-placed"
	}
	return "idle"
}
