package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Diagnostic is an error located at a span of a template.
// Unwrap returns the error kind, so errors.Is works on diagnostics.
type Diagnostic struct {
	Template string
	Source   string
	Span     Span
	Label    string
	Hint     string
	Err      error
}

// Error implements the error interface as template:line:column: message.
func (d *Diagnostic) Error() string {
	loc := Locate(d.Source, d.Span.Start)

	var b strings.Builder

	b.WriteString(d.Template)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(loc.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(loc.Column))
	b.WriteString(": ")
	b.WriteString(d.Err.Error())

	if d.Label != "" {
		b.WriteString(": ")
		b.WriteString(d.Label)
	}

	if d.Hint != "" {
		b.WriteString(" (")
		b.WriteString(d.Hint)
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the error kind.
func (d *Diagnostic) Unwrap() error { return d.Err }

// ErrSpan returns the span the diagnostic points at.
func (d *Diagnostic) ErrSpan() Span { return d.Span }

// Text returns the source text covered by the span.
func (d *Diagnostic) Text() string { return d.Span.Text(d.Source) }

// LogValue implements slog.LogValuer.
func (d *Diagnostic) LogValue() slog.Value {
	loc := Locate(d.Source, d.Span.Start)

	attrs := []slog.Attr{
		slog.String("template", d.Template),
		slog.Int("line", loc.Line),
		slog.Int("column", loc.Column),
		slog.String("error", d.Err.Error()),
	}

	if d.Label != "" {
		attrs = append(attrs, slog.String("label", d.Label))
	}

	return slog.GroupValue(attrs...)
}

type diagKey struct {
	template string
	span     Span
}

// collector accumulates the diagnostics of one render pass. A span reports
// at most once until the collector is drained.
type collector struct {
	seen map[diagKey]struct{}
	errs []error
}

func (c *collector) add(d *Diagnostic) bool {
	key := diagKey{d.Template, d.Span}

	if _, dup := c.seen[key]; dup {
		return false
	}

	if c.seen == nil {
		c.seen = make(map[diagKey]struct{})
	}

	c.seen[key] = struct{}{}
	c.errs = append(c.errs, d)

	return true
}

func (c *collector) len() int { return len(c.errs) }

// drain returns every collected diagnostic as one error and resets.
func (c *collector) drain() error {
	err := multierr.Combine(c.errs...)
	c.reset()

	return err
}

func (c *collector) reset() {
	c.errs = nil
	c.seen = nil
}
