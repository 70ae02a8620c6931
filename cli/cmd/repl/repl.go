package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/InioX/matugen-sub000/lang"
	"github.com/InioX/matugen-sub000/log"
)

const prompt = "➜ "

func helpMessage() string {
	return `Each line is rendered as a template against the loaded scheme.

Commands:
  :help     Print this message
  :roles    List color roles
  :filters  List filters
  :context  List context variables
  :clear    Clear screen
  :quit     Exit

Usage:
  {{ colors.primary.default.hex | lighten: 10 }}
  Mutated colors stay mutated for the rest of the session
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// outcome is the effect of one submitted line.
type outcome struct {
	text   string // rendered output or command listing
	report string // diagnostics
	quit   bool
	clear  bool
}

// execute runs one line: a colon command, or a template compiled against
// eng. The engine's color cache carries over between lines.
func execute(eng *lang.Engine, line string) outcome {
	if strings.HasPrefix(line, ":") {
		return command(eng, line)
	}

	out, err := eng.Compile(line)

	o := outcome{text: out}

	if err != nil {
		var b strings.Builder

		eng.Report(&b, err)
		o.report = strings.TrimRight(b.String(), "\n")
	}

	return o
}

func command(eng *lang.Engine, line string) outcome {
	fields := strings.Fields(line)

	switch strings.TrimPrefix(fields[0], ":") {
	case "q", "quit", "exit":
		return outcome{quit: true}

	case "h", "help":
		return outcome{text: helpMessage()}

	case "roles":
		return outcome{text: strings.Join(eng.Roles(), "\n")}

	case "filters":
		return outcome{text: strings.Join(eng.Filters(), "\n")}

	case "context":
		ctx := eng.Context()
		keys := ctx.Keys()
		lines := make([]string, len(keys))

		for i, k := range keys {
			v, _ := ctx.Lookup(k)
			lines[i] = k + ": " + v.String()
		}

		return outcome{text: strings.Join(lines, "\n")}

	case "clear":
		return outcome{clear: true}

	default:
		return outcome{
			report: fmt.Sprintf("%v: %s (try :help)", ErrUnknownCommand, fields[0]),
		}
	}
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	eng          *lang.Engine
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts an interactive session rendering each line with eng.
func Run(
	ctx context.Context,
	eng *lang.Engine,
	history *History,
	logger log.Logger,
	opts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.Int("history", history.Len()),
		slog.Int("roles", len(eng.Roles())),
	)

	m := newModel(ctx, eng, history, logger)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	eng *lang.Engine,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		eng:        eng,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
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
		m.input.Width = msg.Width - len(prompt) - 2

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

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render("Type a template or :help"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.refreshMatches()

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()
		}

		return m, nil
	}

	// Space while tab-cycling accepts the candidate.
	if m.tabActive && msg.String() == " " {
		m.tabActive = false
	}

	if msg.Type != tea.KeyRunes {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around.
func (m model) cycle(step int) model {
	switch len(m.matches) {
	case 0:
		return m

	case 1:
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with replacement
// and moves the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes completions for the current input.
func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = complete(
		m.eng, m.input.Value(), m.input.Position(),
	)

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) historyMove(step int) model {
	idx := m.historyIdx + step

	switch {
	case idx < 0:
		return m

	case idx >= m.history.Len():
		m.historyIdx = m.history.Len()
		m.input.SetValue("")

	default:
		line, err := m.history.Line(idx)
		if err != nil {
			return m
		}

		m.historyIdx = idx
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	m.refreshMatches()

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	o := execute(m.eng, input)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl line",
		slog.String("input", input),
		slog.Int("bytes", len(o.text)),
		slog.Bool("diagnostics", o.report != ""),
	)

	cmds := []tea.Cmd{tea.Println(formatCommand(input))}

	if o.text != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(o.text)))
	}

	if o.report != "" {
		cmds = append(cmds, tea.Println(errorStyle.Render(o.report)))
	}

	switch {
	case o.quit:
		m.quitting = true

		cmds = append(cmds, tea.Quit)

	case o.clear:
		return m, tea.ClearScreen
	}

	return m, tea.Sequence(cmds...)
}
