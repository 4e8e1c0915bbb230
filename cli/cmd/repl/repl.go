// Package repl implements an interactive inspector over a resolved
// configuration document.
//
// The inspector is strictly read-only: it looks up dotted key paths in the
// already-resolved tree and never re-runs resolution or mutates state.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strataconf/strata/conf"
	"github.com/strataconf/strata/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help      Print this cruft
  list      List top-level keys
  env       Show the active environment and source
  warnings  Show warnings collected during resolution
  clear     Clear screen
  quit      Exit

Usage:
  Type a dotted key path to print its resolved value
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between lookup and command modes
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeLookup inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(prompt, input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the inspector.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	cfg        *conf.Config
	logger     log.Logger
	history    *History
	historyIdx int
	candidates []string
	matches    fuzzy.Matches
	suggIdx    int
	tabActive  bool
	preTabText string
	width      int
	quitting   bool
	mode       inputMode
}

const defaultWidth = 80

// Run starts the inspector over the given resolved configuration.
func Run(
	ctx context.Context,
	cfg *conf.Config,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg == nil {
		return ErrNoSource
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("source", cfg.Source()),
		slog.String("environment", cfg.Environment()),
	)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.Any("error", err))
	}

	m := newModel(ctx, cfg, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

func newModel(
	ctx context.Context,
	cfg *conf.Config,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		cfg:        cfg,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		candidates: keyPaths(cfg.Root()),
		width:      defaultWidth,
		mode:       modeLookup,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case strings.TrimSpace(input) == "":
		var hint string
		if m.mode == modeLookup {
			hint = "Type a key path or press Esc for commands"
		} else {
			hint = "Type: help, list, env, warnings, clear, quit"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.width))
		b.WriteString("\n")

	default:
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m = m.resetCompletion()

		return m, nil

	case tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		return m.toggleMode(), nil

	case tea.KeyTab:
		return m.cycleCandidate(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEnter:
		return m.executeInput()
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m = m.refreshMatches()

	return m, cmd
}

// resetCompletion abandons any in-progress tab cycling.
func (m model) resetCompletion() model {
	m.matches = nil
	m.suggIdx = 0
	m.tabActive = false
	m.preTabText = ""

	return m
}

func (m model) refreshMatches() model {
	m.tabActive = false
	m.suggIdx = 0

	if m.mode == modeCtrl {
		m.matches = computeMatches(ctrlCommands, m.input.Value())
	} else {
		m.matches = computeMatches(m.candidates, m.input.Value())
	}

	return m
}

func (m model) cycleCandidate(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.suggIdx = 0
	} else {
		m.suggIdx += dir
		if m.suggIdx < 0 {
			m.suggIdx = len(m.matches) - 1
		}

		m.suggIdx %= len(m.matches)
	}

	m.input.SetValue(m.matches[m.suggIdx].Str)
	m.input.CursorEnd()

	return m
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		m.historyIdx--
		m.input.SetValue(m.history.Get(m.historyIdx))
		m.input.CursorEnd()
	}

	return m.resetCompletion()
}

func (m model) historyNext() model {
	if m.historyIdx < m.history.Len() {
		m.historyIdx++
	}

	if m.historyIdx == m.history.Len() {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.history.Get(m.historyIdx))
		m.input.CursorEnd()
	}

	return m.resetCompletion()
}

func (m model) toggleMode() model {
	if m.mode == modeLookup {
		m.mode = modeCtrl
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	} else {
		m.mode = modeLookup
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	m.input.SetValue("")

	return m.resetCompletion()
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m = m.resetCompletion()

	if err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not persist history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := formatCommand(evalPrompt, input)

	node, ok := m.cfg.Lookup(input)
	if !ok {
		return m, tea.Println(
			echo + "\n" + errorStyle.Render("no value at "+input),
		)
	}

	return m, tea.Println(echo + "\n" + resultStyle.Render(renderNode(node)))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	echo := formatCommand(ctrlPrompt, input)

	switch input {
	case "help":
		return m, tea.Println(echo + "\n" + hintStyle.Render(helpMessage()))

	case "list":
		return m, tea.Println(echo + "\n" + m.listKeys())

	case "env":
		info := fmt.Sprintf("environment=%s source=%s",
			m.cfg.Environment(), m.cfg.Source())

		return m, tea.Println(echo + "\n" + resultStyle.Render(info))

	case "warnings":
		return m, tea.Println(echo + "\n" + m.listWarnings())

	case "clear":
		return m, tea.ClearScreen

	case "quit":
		m.quitting = true

		return m, tea.Quit
	}

	if !slices.Contains(ctrlCommands, input) {
		return m, tea.Println(
			echo + "\n" + errorStyle.Render("unknown command: "+input),
		)
	}

	return m, nil
}

func (m model) listKeys() string {
	root := m.cfg.Root()
	if root == nil || root.Kind != conf.KindMapping {
		return hintStyle.Render("(empty document)")
	}

	names := make([]string, 0, len(root.Pairs))
	for _, p := range root.Pairs {
		names = append(names, p.Key)
	}

	return resultStyle.Render(strings.Join(names, "  "))
}

func (m model) listWarnings() string {
	warnings := m.cfg.Warnings()
	if len(warnings) == 0 {
		return hintStyle.Render("(no warnings)")
	}

	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.Message())
	}

	return errorStyle.Render(strings.Join(lines, "\n"))
}

// renderNode renders a scalar inline and any composite value as YAML.
func renderNode(n *conf.Node) string {
	if n.Kind.IsScalar() {
		if n.Kind == conf.KindString {
			return n.Str
		}

		return fmt.Sprint(n.Value())
	}

	var b strings.Builder
	if err := conf.EncodeYAML(&b, n, 2); err != nil {
		return fmt.Sprint(n.Value())
	}

	return strings.TrimRight(b.String(), "\n")
}
