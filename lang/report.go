package lang

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/multierr"
)

type reportStyles struct {
	severity lipgloss.Style
	headline lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
	hint     lipgloss.Style
}

func makeReportStyles(r *lipgloss.Renderer) reportStyles {
	return reportStyles{
		severity: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		headline: r.NewStyle().Bold(true),
		gutter:   r.NewStyle().Foreground(lipgloss.Color("4")),
		caret:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		hint:     r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Report writes every error combined in err to w, quoting the offending
// source line with carets under the span. Styling is applied only when w
// is a terminal.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}

	s := makeReportStyles(lipgloss.NewRenderer(w))

	var b strings.Builder

	for _, e := range multierr.Errors(err) {
		var (
			diag *Diagnostic
			perr *ParseError
		)

		switch {
		case errors.As(e, &diag):
			s.snippet(&b, diag.Err.Error(), diag.Template, diag.Source,
				diag.Span, diag.Label, diag.Hint)
		case errors.As(e, &perr):
			hint := ""
			if len(perr.Expected) > 0 {
				hint = "expected " + quoteList(perr.Expected)
			}

			s.snippet(&b, "parse error: "+perr.Message(), perr.Template,
				perr.Source, perr.Span, "", hint)
		default:
			b.WriteString(s.severity.Render("error"))
			b.WriteString(s.headline.Render(": " + e.Error()))
			b.WriteByte('\n')
		}
	}

	_, _ = io.WriteString(w, b.String())
}

func (s reportStyles) snippet(
	b *strings.Builder,
	headline, template, src string,
	span Span,
	label, hint string,
) {
	loc := Locate(src, span.Start)
	num := strconv.Itoa(loc.Line)
	pad := strings.Repeat(" ", len(num))

	b.WriteString(s.severity.Render("error"))
	b.WriteString(s.headline.Render(": " + headline))
	b.WriteByte('\n')

	b.WriteString(pad)
	b.WriteString(s.gutter.Render("--> "))
	b.WriteString(template + ":" + num + ":" + strconv.Itoa(loc.Column))
	b.WriteByte('\n')

	b.WriteString(s.gutter.Render(pad + " |"))
	b.WriteByte('\n')

	b.WriteString(s.gutter.Render(num + " | "))
	b.WriteString(loc.Text)
	b.WriteByte('\n')

	// Carets cover the span, clipped to the first line.
	text := span.Text(src)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}

	width := max(graphemes(text), 1)

	b.WriteString(s.gutter.Render(pad + " | "))
	b.WriteString(strings.Repeat(" ", loc.Column-1))
	b.WriteString(s.caret.Render(strings.Repeat("^", width)))

	if label != "" {
		b.WriteByte(' ')
		b.WriteString(s.caret.Render(label))
	}

	b.WriteByte('\n')

	if hint != "" {
		b.WriteString(pad)
		b.WriteString(s.hint.Render(" = help: " + hint))
		b.WriteByte('\n')
	}
}
