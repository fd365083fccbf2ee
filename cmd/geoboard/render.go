package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/example/geoboard/internal/board"
	"github.com/example/geoboard/internal/clipboard"
	"github.com/example/geoboard/internal/export"
	"github.com/example/geoboard/internal/session"
)

// renderCmd re-exports a JSON drawing without opening a window.
type renderCmd struct {
	*root
	fs          *flag.FlagSet
	input       string
	output      string
	format      string
	scale       float64
	toClipboard bool
	hold        time.Duration
}

func (c *renderCmd) FlagSet() *flag.FlagSet { return c.fs }

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	c := &renderCmd{root: r.subcommand("render")}
	c.fs = flag.NewFlagSet("render", flag.ContinueOnError)
	c.fs.Usage = usageFunc(c)
	c.fs.StringVar(&c.output, "output", "", "output file (defaults to drawing.png or drawing.json)")
	c.fs.StringVar(&c.output, "o", "", "output file (alias)")
	c.fs.StringVar(&c.format, "format", "png", "output format: png or json")
	c.fs.Float64Var(&c.scale, "scale", 0, "pixel scale of the PNG (defaults to the configured export scale)")
	c.fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the drawing to the clipboard instead of writing a file")
	c.fs.DurationVar(&c.hold, "hold", 0, "with -to-clipboard, stop serving the clipboard after this long (0 waits until it is replaced)")
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.input = c.fs.Arg(0)
	if _, err := export.ParseFormat(c.format); err != nil {
		return nil, err
	}
	if c.scale < 0 {
		return nil, errors.New("scale must be positive")
	}
	if c.toClipboard && c.output != "" {
		return nil, errors.New("-to-clipboard and -o cannot be combined")
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	doc, err := readDocument(c.input)
	if err != nil {
		return err
	}
	sess, err := c.sessionFor(doc)
	if err != nil {
		return err
	}
	if _, err := sess.Import(doc); err != nil {
		return err
	}
	if c.scale > 0 {
		sess.Exporter().Renderer.Scale = c.scale
	}
	f, _ := export.ParseFormat(c.format)

	if c.toClipboard {
		return c.copy(sess, f)
	}

	path, err := sess.Export(f, c.output)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Alert(), err)
	}
	fmt.Fprintf(c.stderr, "saved %s\n", path)
	c.notifier.Export(path)
	return nil
}

func (c *renderCmd) copy(sess *session.Session, f export.Format) error {
	var err error
	if f == export.FormatJSON {
		var data []byte
		if data, err = sess.ExportBytes(f); err == nil {
			err = clipboard.WriteDocument(data)
		}
	} else {
		err = clipboard.WriteImage(sess.Exporter().Renderer.Image(sess.Board()))
	}
	if err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	fmt.Fprintf(c.stderr, "copied %s drawing to clipboard\n", f)
	c.notifier.Copy(f.String() + " drawing")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if c.hold > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.hold)
		defer cancel()
	}
	if err := clipboard.Hold(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// sessionFor creates a session whose board uses the document's bounding box.
func (c *renderCmd) sessionFor(doc *export.Document) (*session.Session, error) {
	saved := c.config.Board.BoundingBox
	if bb := board.BoundingBox(doc.BoardSettings.BoundingBox); bb != (board.BoundingBox{}) {
		if err := bb.Validate(); err != nil {
			return nil, fmt.Errorf("document bounding box: %w", err)
		}
		c.config.Board.BoundingBox = bb
	}
	defer func() { c.config.Board.BoundingBox = saved }()
	return c.newSession(nil)
}
