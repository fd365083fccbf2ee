package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/construct"
	"github.com/example/geoboard/internal/export"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Commands lists the command language understood by Exec, one usage per
// line.
var Commands = []string{
	"mode <none|point|segment|arrow|doubleArrow|triangle|rectangle|circle|curve>",
	"down <x> <y>",
	"move <x> <y>",
	"up <x> <y>",
	"leave <x> <y>",
	"dblclick <x> <y>",
	"escape",
	"undo",
	"redo",
	"clear",
	"png [path]",
	"json [path]",
	"load <path>",
	"status",
	"objects",
	"quit",
}

// Exec runs one command line and returns its output. Blank lines and lines
// starting with # do nothing. Coordinates are board units.
func (s *Session) Exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	out, err := s.exec(cmd, args)
	if err != nil && !errors.Is(err, ErrQuit) {
		return out, fmt.Errorf("%s: %w", cmd, err)
	}
	return out, err
}

func (s *Session) exec(cmd string, args []string) (string, error) {
	switch cmd {
	case "mode":
		if len(args) != 1 {
			return "", errors.New("expected one mode name")
		}
		m, err := construct.ParseMode(args[0])
		if err != nil {
			return "", err
		}
		return "mode " + m.String(), s.SetMode(m)
	case "down", "move", "up", "leave", "dblclick":
		c, err := parseCoords(args)
		if err != nil {
			return "", err
		}
		return "", s.pointer(cmd, c)
	case "escape", "esc":
		s.Escape()
		return "", nil
	case "undo":
		if _, ok := s.Undo(); !ok {
			return "nothing to undo", nil
		}
		return "undone", nil
	case "redo":
		if _, ok := s.Redo(); !ok {
			return "nothing to redo", nil
		}
		return "redone", nil
	case "clear":
		ok, err := s.Clear()
		if err != nil {
			return "", err
		}
		if !ok {
			return "clear cancelled", nil
		}
		return "board cleared", nil
	case "png", "json":
		f, _ := export.ParseFormat(cmd)
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		path, err := s.Export(f, name)
		if err != nil {
			return f.Alert(), err
		}
		return "saved " + path, nil
	case "load":
		if len(args) != 1 {
			return "", errors.New("expected a path")
		}
		r, err := os.Open(args[0])
		if err != nil {
			return "", err
		}
		defer r.Close()
		doc, err := export.Decode(r)
		if err != nil {
			return "", err
		}
		n, err := s.Import(doc)
		if err != nil {
			return "", err
		}
		out := fmt.Sprintf("loaded %d objects", n)
		if saved := board.BoundingBox(doc.BoardSettings.BoundingBox); saved != (board.BoundingBox{}) && saved != s.board.BoundingBox() {
			log.Printf("session: %s was saved on bounding box %v, board uses %v", args[0], saved, s.board.BoundingBox())
			out += fmt.Sprintf(" (saved on bounding box %v, board uses %v)", saved, s.board.BoundingBox())
		}
		return out, nil
	case "status":
		return s.Status(), nil
	case "objects":
		return s.describeObjects(), nil
	case "quit", "exit":
		return "", ErrQuit
	}
	return "", fmt.Errorf("unknown command")
}

func (s *Session) pointer(cmd string, c board.Coords) error {
	switch cmd {
	case "down":
		return s.PointerDown(c)
	case "move":
		return s.PointerMove(c)
	case "up":
		return s.PointerUp(c)
	case "leave":
		return s.PointerLeave(c)
	}
	return s.DoubleClick(c)
}

func parseCoords(args []string) (board.Coords, error) {
	if len(args) != 2 {
		return board.Coords{}, errors.New("expected x and y")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return board.Coords{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return board.Coords{}, fmt.Errorf("invalid y: %w", err)
	}
	return board.Coords{X: x, Y: y}, nil
}

func (s *Session) describeObjects() string {
	var sb strings.Builder
	for _, o := range s.board.Objects() {
		if o.Kind().Infrastructure() {
			continue
		}
		state := "visible"
		if !o.Visible() {
			state = "hidden"
		}
		fmt.Fprintf(&sb, "%s %s %s\n", o.ID(), o.Kind(), state)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
