package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/geoboard/internal/export"
)

// inspectCmd lists the objects of a JSON drawing.
type inspectCmd struct {
	*root
	fs    *flag.FlagSet
	input string
}

func (i *inspectCmd) FlagSet() *flag.FlagSet { return i.fs }

func parseInspectCmd(args []string, r *root) (*inspectCmd, error) {
	i := &inspectCmd{root: r.subcommand("inspect")}
	i.fs = flag.NewFlagSet("inspect", flag.ContinueOnError)
	i.fs.Usage = usageFunc(i)
	if err := i.fs.Parse(args); err != nil {
		return nil, err
	}
	if i.fs.NArg() != 1 {
		return nil, &UsageError{of: i}
	}
	i.input = i.fs.Arg(0)
	return i, nil
}

func (i *inspectCmd) Run() error {
	doc, err := readDocument(i.input)
	if err != nil {
		return err
	}
	fmt.Fprintln(i.stdout, documentTable(doc))
	return nil
}

var (
	inspectHeaderStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	inspectCellStyle   = lipgloss.NewStyle().PaddingRight(2)
	inspectNoteStyle   = lipgloss.NewStyle().Faint(true)
)

var inspectColumns = []string{"ID", "TYPE", "NAME", "GEOMETRY", "STROKE", "FILL"}

// documentTable renders doc as an aligned table followed by a summary line.
func documentTable(doc *export.Document) string {
	rows := make([][]string, 0, len(doc.Objects))
	for _, o := range doc.Objects {
		rows = append(rows, []string{
			shortID(o.ID),
			o.Type,
			o.Name,
			geometry(o),
			o.Properties.StrokeColor,
			o.Properties.FillColor,
		})
	}

	widths := make([]int, len(inspectColumns))
	for c, h := range inspectColumns {
		widths[c] = lipgloss.Width(h)
		for _, row := range rows {
			if w := lipgloss.Width(row[c]); w > widths[c] {
				widths[c] = w
			}
		}
	}

	lines := []string{renderRow(inspectColumns, widths, inspectHeaderStyle, nil)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, widths, inspectCellStyle, swatch))
	}
	bb := doc.BoardSettings.BoundingBox
	lines = append(lines, inspectNoteStyle.Render(fmt.Sprintf(
		"%d objects, version %s, bounding box [%s %s %s %s], saved %s",
		len(doc.Objects), doc.Version,
		num(bb[0]), num(bb[1]), num(bb[2]), num(bb[3]), doc.Timestamp)))
	return strings.Join(lines, "\n")
}

// renderRow pads each cell to its column. The colour columns get a swatch
// in the colour itself when decorate is set.
func renderRow(cells []string, widths []int, style lipgloss.Style, decorate func(string) string) string {
	out := make([]string, len(cells))
	for c, cell := range cells {
		text := cell
		if decorate != nil && c >= 4 && cell != "" {
			text = decorate(cell) + " " + cell
		}
		w := widths[c]
		if decorate != nil && c >= 4 {
			w += 2
		}
		out[c] = style.Width(w + style.GetPaddingRight()).Render(text)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func geometry(o export.Object) string {
	switch {
	case o.Coords != nil:
		return point(*o.Coords)
	case o.Point1 != nil && o.Point2 != nil:
		return point(*o.Point1) + " -> " + point(*o.Point2)
	case len(o.Vertices) > 0:
		return joinPoints(o.Vertices)
	case o.Center != nil && o.Radius != nil:
		return fmt.Sprintf("%s r=%s", point(*o.Center), num(*o.Radius))
	case len(o.Points) > 0:
		s := joinPoints(o.Points)
		if o.Tension != nil {
			s += " t=" + num(*o.Tension)
		}
		return s
	}
	return "-"
}

func joinPoints(ps []export.Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = point(p)
	}
	return strings.Join(parts, " ")
}

func point(p export.Point) string { return "(" + num(p.X) + "," + num(p.Y) + ")" }
func num(v float64) string        { return strconv.FormatFloat(v, 'f', -1, 64) }
