package repl

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/InioX/matugen-sub000/log"
)

func TestExecute(t *testing.T) {
	eng := testEngine(t)

	tests := []struct {
		line   string
		text   string
		report string // substring, when set
		quit   bool
		clear  bool
	}{
		{line: "{{ colors.primary.dark.hex }}", text: "#d0bcff"},
		{line: "{{ colors.primary.light.hex | to_upper }}", text: "#6750A4"},
		{line: "{{ theme.name }}-{{ theme.mode }}", text: "x-dark"},
		{line: ":roles", text: "black\non_primary\nprimary"},
		{line: ":context", text: "theme: {mode: dark, name: x}"},
		{line: ":quit", quit: true},
		{line: ":q", quit: true},
		{line: ":clear", clear: true},
		{line: ":nope", report: "unknown command: :nope"},
		{line: "{{ colors.prim.dark.hex }}", report: `no color named "prim"`},
		{line: "{{ colors.primary.dark.hex", report: "parse error"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			o := execute(eng, tt.line)
			assert.Equal(t, tt.text, o.text)
			assert.Equal(t, tt.quit, o.quit)
			assert.Equal(t, tt.clear, o.clear)

			if tt.report == "" {
				assert.Empty(t, o.report)
			} else {
				assert.Contains(t, o.report, tt.report)
			}
		})
	}
}

func TestExecute_FiltersAndHelp(t *testing.T) {
	eng := testEngine(t)

	o := execute(eng, ":filters")
	assert.Contains(t, o.text, "lighten\n")

	o = execute(eng, ":help")
	assert.Equal(t, helpMessage(), o.text)
}

func TestExecute_CachePersists(t *testing.T) {
	eng := testEngine(t)

	o := execute(eng, "{{ colors.black.dark.hex | lighten: 10 }}")
	require.Empty(t, o.report)
	assert.Equal(t, "#1a1a1a", o.text)

	o = execute(eng, "{{ colors.black.dark.hex }}")
	assert.Equal(t, "#1a1a1a", o.text)

	o = execute(eng, "{{ colors.black.dark.hex | lighten: 10 }}")
	assert.Equal(t, "#333333", o.text)
}

func TestHistory(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHistory(fs, "/cache/"+HistoryFile)

	require.NoError(t, fs.MkdirAll("/cache", 0o700))
	require.NoError(t, h.Load())
	assert.Equal(t, 0, h.Len())

	for _, line := range []string{"a", "b", "b", "  ", "a"} {
		require.NoError(t, h.Write(line))
	}

	assert.Equal(t, []string{"b", "a"}, h.Entries())

	data, err := afero.ReadFile(fs, "/cache/"+HistoryFile)
	require.NoError(t, err)
	assert.Equal(t, "b\na\n", string(data))

	line, err := h.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "b", line)

	_, err = h.Line(2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	reloaded := NewHistory(fs, "/cache/"+HistoryFile)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, h.Entries(), reloaded.Entries())
}

func TestHistory_Memory(t *testing.T) {
	h := NewHistory(afero.NewMemMapFs(), "")

	require.NoError(t, h.Load())
	require.NoError(t, h.Write("x"))
	assert.Equal(t, []string{"x"}, h.Entries())
}

func typeText(m model, s string) model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})

	return next.(model), cmd
}

func TestModel_Completion(t *testing.T) {
	eng := testEngine(t)
	m := newModel(context.Background(), eng, NewHistory(afero.NewMemMapFs(), ""), log.Logger{})

	m = typeText(m, "{{ colors.prim")
	require.NotEmpty(t, m.matches)
	assert.Equal(t, "primary", m.matches[0].Str)

	m, _ = press(m, tea.KeyTab)
	assert.True(t, m.tabActive)
	assert.Equal(t, "{{ colors.primary", m.input.Value())

	m, _ = press(m, tea.KeyEsc)
	assert.False(t, m.tabActive)
	assert.Equal(t, "{{ colors.prim", m.input.Value())

	m = typeText(m, "ary.")
	assert.Len(t, m.matches, 3)

	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, "{{ colors.primary.default", m.input.Value())
}

func TestModel_ExecuteAndHistory(t *testing.T) {
	eng := testEngine(t)
	h := NewHistory(afero.NewMemMapFs(), "")
	m := newModel(context.Background(), eng, h, log.Logger{})

	m = typeText(m, "{{ theme.name }}")

	m, cmd := press(m, tea.KeyEnter)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, []string{"{{ theme.name }}"}, h.Entries())

	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, "{{ theme.name }}", m.input.Value())
	assert.Equal(t, 0, m.historyIdx)

	m, _ = press(m, tea.KeyDown)
	assert.Empty(t, m.input.Value())

	m = typeText(m, ":quit")
	m, _ = press(m, tea.KeyEnter)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_CtrlC(t *testing.T) {
	m := newModel(context.Background(), testEngine(t), NewHistory(afero.NewMemMapFs(), ""), log.Logger{})

	m = typeText(m, "abc")
	m, _ = press(m, tea.KeyCtrlC)
	assert.Empty(t, m.input.Value())
	assert.False(t, m.quitting)

	m, _ = press(m, tea.KeyCtrlC)
	assert.True(t, m.quitting)
}
