package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/geoboard/internal/notify"
	"github.com/example/geoboard/internal/session"
)

// scriptCmd replays board commands from a file, stdin or -e.
type scriptCmd struct {
	*root
	fs        *flag.FlagSet
	eval      string
	yes       bool
	keepGoing bool
	source    string
}

func (s *scriptCmd) FlagSet() *flag.FlagSet { return s.fs }

func parseScriptCmd(args []string, r *root) (*scriptCmd, error) {
	s := &scriptCmd{root: r.subcommand("script")}
	s.fs = flag.NewFlagSet("script", flag.ContinueOnError)
	s.fs.Usage = usageFunc(s)
	s.fs.StringVar(&s.eval, "e", "", "commands to run, separated by ';'")
	s.fs.BoolVar(&s.yes, "yes", false, "answer yes to the clear confirmation")
	s.fs.BoolVar(&s.keepGoing, "keep-going", false, "continue after a failing command")
	if err := s.fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case s.fs.NArg() > 1:
		return nil, &UsageError{of: s}
	case s.fs.NArg() == 1:
		if s.eval != "" {
			return nil, errors.New("use either -e or a script file, not both")
		}
		s.source = s.fs.Arg(0)
	case s.eval == "":
		s.source = "-"
	}
	return s, nil
}

func (s *scriptCmd) Run() error {
	var confirm session.Confirmer
	if s.yes {
		confirm = session.Always
	}
	sess, err := s.newSession(confirm)
	if err != nil {
		return err
	}

	var lines []string
	if s.eval != "" {
		lines = strings.Split(s.eval, ";")
	} else {
		lines, err = s.readLines()
		if err != nil {
			return err
		}
	}
	return s.runLines(sess, lines)
}

func (s *scriptCmd) readLines() ([]string, error) {
	var in io.Reader = os.Stdin
	if s.source != "-" {
		f, err := os.Open(s.source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	var lines []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}

// runLines executes each line in order. The first error stops the script
// unless -keep-going is set, in which case the last error is returned.
func (s *scriptCmd) runLines(sess *session.Session, lines []string) error {
	var failed error
	for i, line := range lines {
		out, err := sess.Exec(line)
		if out != "" {
			fmt.Fprintln(s.stdout, out)
		}
		if errors.Is(err, session.ErrQuit) {
			return nil
		}
		if err != nil {
			failed = fmt.Errorf("line %d: %w", i+1, err)
			if !s.keepGoing {
				return failed
			}
			fmt.Fprintln(s.stderr, failed)
			continue
		}
		announceExport(s.notifier, line, out)
	}
	return failed
}

// announceExport sends the desktop notification for a successful export
// command.
func announceExport(n *notify.Notifier, line, out string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch strings.ToLower(fields[0]) {
	case "png", "json":
		n.Export(strings.TrimPrefix(out, "saved "))
	}
}
