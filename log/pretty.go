package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type prettyStyles struct {
	time    lipgloss.Style
	source  lipgloss.Style
	message lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
	err     lipgloss.Style
	level   map[Level]lipgloss.Style
}

func makePrettyStyles(r *lipgloss.Renderer) prettyStyles {
	level := func(c string) lipgloss.Style {
		return r.NewStyle().Bold(true).Width(5).Foreground(lipgloss.Color(c))
	}

	return prettyStyles{
		time:    r.NewStyle().Faint(true),
		source:  r.NewStyle().Faint(true).Italic(true),
		message: r.NewStyle(),
		key:     r.NewStyle().Foreground(lipgloss.Color("8")),
		value:   r.NewStyle().Foreground(lipgloss.Color("6")),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")),
		level: map[Level]lipgloss.Style{
			LevelTrace: level("5"),
			LevelDebug: level("4"),
			LevelInfo:  level("2"),
			LevelWarn:  level("3"),
			LevelError: level("1"),
		},
	}
}

// prettyHandler writes one styled line per record. Styling is disabled
// automatically when the writer is not a terminal.
type prettyHandler struct {
	opts       *slog.HandlerOptions
	formatTime FormatTime
	styles     prettyStyles
	mu         *sync.Mutex
	w          io.Writer
	attrs      []byte
	groups     []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		opts:       opts,
		formatTime: formatTime,
		styles:     makePrettyStyles(lipgloss.NewRenderer(w)),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			buf.WriteString(h.styles.time.Render(s))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(h.levelStyle(Level(r.Level)).
		Render(strings.ToUpper(Level(r.Level).String())))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteByte(' ')
			buf.WriteString(h.styles.source.Render(
				filepath.Base(src.File) + ":" + strconv.Itoa(src.Line),
			))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.message.Render(r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))

	for _, a := range attrs {
		h.writeAttr(buf, h.groups, a)
	}

	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) levelStyle(l Level) lipgloss.Style {
	if s, ok := h.styles.level[l]; ok {
		return s
	}

	if l > LevelError {
		return h.styles.level[LevelError]
	}

	return h.styles.level[LevelInfo]
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(groups, a)
	}

	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, sub, g)
		}

		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	buf.WriteByte(' ')
	buf.WriteString(h.styles.key.Render(key + "="))

	if err, ok := a.Value.Any().(error); ok {
		buf.WriteString(h.styles.err.Render(err.Error()))

		return
	}

	buf.WriteString(h.styles.value.Render(formatValue(a.Value)))
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}

		return s
	case slog.KindAny:
		if s, ok := v.Any().(fmt.Stringer); ok {
			return s.String()
		}

		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}
