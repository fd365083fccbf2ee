package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/geoboard/internal/notify"
	"github.com/example/geoboard/internal/session"
)

// interactiveCmd runs a terminal prompt over a headless board.
type interactiveCmd struct {
	*root
	fs  *flag.FlagSet
	yes bool
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet { return i.fs }

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	i := &interactiveCmd{root: r.subcommand("interactive")}
	i.fs = flag.NewFlagSet("interactive", flag.ContinueOnError)
	i.fs.Usage = usageFunc(i)
	i.fs.BoolVar(&i.yes, "yes", false, "clear without asking for confirmation")
	if err := i.fs.Parse(args); err != nil {
		return nil, err
	}
	if i.fs.NArg() > 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	m := newReplModel(i.notifier, i.yes)
	sess, err := i.newSession(m.confirmer())
	if err != nil {
		return err
	}
	m.sess = sess
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(i.stdout))
	_, err = p.Run()
	return err
}

const replScrollback = 200

var (
	replTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	replStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	replErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	replEchoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	replPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

type replLine struct {
	text string
	err  bool
	echo bool
}

// replModel is the bubbletea model behind the interactive command. Clear
// asks for a y/N answer before the board is wiped, unless assumeYes is set.
type replModel struct {
	sess     *session.Session
	notifier *notify.Notifier

	width, height int
	input         []rune
	lines         []replLine
	history       []string
	histPos       int

	assumeYes  bool
	confirming string
	approved   bool
	pending    string
	quitting   bool
}

func newReplModel(n *notify.Notifier, assumeYes bool) *replModel {
	return &replModel{notifier: n, assumeYes: assumeYes, height: 24}
}

// confirmer answers the session's clear prompt. A refusal made while no
// answer is pending switches the model into its y/N prompt.
func (m *replModel) confirmer() session.Confirmer {
	if m.assumeYes {
		return session.Always
	}
	return session.ConfirmFunc(func(prompt string) bool {
		if m.approved {
			m.approved = false
			return true
		}
		m.confirming = prompt
		return false
	})
}

func (m *replModel) Init() tea.Cmd { return nil }

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.confirming != "" {
			return m, m.answer(msg)
		}
		return m, m.key(msg)
	}
	return m, nil
}

func (m *replModel) answer(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return tea.Quit
	}
	line := m.pending
	m.confirming, m.pending = "", ""
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && (msg.Runes[0] == 'y' || msg.Runes[0] == 'Y') {
		m.approved = true
		return m.run(line)
	}
	m.print("clear cancelled", false)
	return nil
}

func (m *replModel) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true
		return tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(string(m.input))
		m.input = m.input[:0]
		m.histPos = len(m.history)
		if line == "" {
			return nil
		}
		m.history = append(m.history, line)
		m.histPos = len(m.history)
		m.lines = append(m.lines, replLine{text: "> " + line, echo: true})
		return m.run(line)
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyUp:
		if m.histPos > 0 {
			m.histPos--
			m.input = []rune(m.history[m.histPos])
		}
	case tea.KeyDown:
		if m.histPos < len(m.history)-1 {
			m.histPos++
			m.input = []rune(m.history[m.histPos])
		} else {
			m.histPos = len(m.history)
			m.input = m.input[:0]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return nil
}

func (m *replModel) run(line string) tea.Cmd {
	switch strings.ToLower(line) {
	case "help", "?":
		for _, c := range session.Commands {
			m.print(c, false)
		}
		return nil
	}
	out, err := m.sess.Exec(line)
	if errors.Is(err, session.ErrQuit) {
		m.quitting = true
		return tea.Quit
	}
	if m.confirming != "" {
		m.pending = line
		return nil
	}
	if out != "" {
		for _, l := range strings.Split(out, "\n") {
			m.print(l, false)
		}
	}
	if err != nil {
		m.print(err.Error(), true)
		return nil
	}
	announceExport(m.notifier, line, out)
	return nil
}

func (m *replModel) print(text string, isErr bool) {
	m.lines = append(m.lines, replLine{text: text, err: isErr})
	if over := len(m.lines) - replScrollback; over > 0 {
		m.lines = m.lines[over:]
	}
}

func (m *replModel) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(replTitleStyle.Render("GeoBoard"))
	sb.WriteString(replStatusStyle.Render("  type help for commands, ctrl+d quits"))
	sb.WriteString("\n")

	room := m.height - 4
	if room < 1 {
		room = 1
	}
	lines := m.lines
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	for _, l := range lines {
		switch {
		case l.err:
			sb.WriteString(replErrorStyle.Render(l.text))
		case l.echo:
			sb.WriteString(replEchoStyle.Render(l.text))
		default:
			sb.WriteString(l.text)
		}
		sb.WriteString("\n")
	}

	if m.sess != nil {
		sb.WriteString(replStatusStyle.Render(m.sess.Status()))
		sb.WriteString("\n")
	}
	if m.confirming != "" {
		sb.WriteString(replPromptStyle.Render(fmt.Sprintf("%s [y/N] ", m.confirming)))
		return sb.String()
	}
	sb.WriteString(replPromptStyle.Render("> "))
	sb.WriteString(string(m.input))
	sb.WriteString("█")
	return sb.String()
}
