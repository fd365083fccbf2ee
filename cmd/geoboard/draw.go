package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/geoboard/internal/appstate"
	"github.com/example/geoboard/internal/construct"
	"github.com/example/geoboard/internal/export"
)

// drawCmd opens the drawing window.
type drawCmd struct {
	*root
	fs   *flag.FlagSet
	file string
	mode string
}

func (d *drawCmd) FlagSet() *flag.FlagSet { return d.fs }

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	d := &drawCmd{root: r.subcommand("draw")}
	d.fs = flag.NewFlagSet("draw", flag.ContinueOnError)
	d.fs.Usage = usageFunc(d)
	d.fs.StringVar(&d.file, "file", "", "JSON drawing to open")
	d.fs.StringVar(&d.mode, "mode", "none", "initial drawing tool")
	if err := d.fs.Parse(args); err != nil {
		return nil, err
	}
	if d.fs.NArg() > 0 {
		return nil, &UsageError{of: d}
	}
	if _, err := construct.ParseMode(d.mode); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	// Clear is confirmed in the window itself.
	sess, err := d.newSession(nil)
	if err != nil {
		return err
	}
	if d.file != "" {
		doc, err := readDocument(d.file)
		if err != nil {
			return err
		}
		if _, err := sess.Import(doc); err != nil {
			return fmt.Errorf("load %s: %w", d.file, err)
		}
	}
	mode, _ := construct.ParseMode(d.mode)
	if err := sess.SetMode(mode); err != nil {
		return err
	}
	st := appstate.New(sess,
		appstate.WithTheme(d.activeTheme),
		appstate.WithNotifier(d.notifier),
	)
	st.Run()
	return nil
}

// readDocument decodes a JSON drawing from path, or stdin for "-".
func readDocument(path string) (*export.Document, error) {
	if path == "-" {
		doc, err := export.Decode(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return doc, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := export.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}
