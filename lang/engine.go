package lang

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/InioX/matugen-sub000/color"
	"github.com/InioX/matugen-sub000/log"
)

// Scheme names one of the two palettes. [SchemeDefault] aliases whichever
// the engine was configured with.
type Scheme string

const (
	SchemeLight   Scheme = "light"
	SchemeDark    Scheme = "dark"
	SchemeDefault Scheme = "default"
)

// ParseScheme returns the concrete scheme named s.
func ParseScheme(s string) (Scheme, bool) {
	switch Scheme(s) {
	case SchemeLight, SchemeDark:
		return Scheme(s), true
	}

	return "", false
}

// Schemes holds the role colors of the light and dark palettes.
type Schemes struct {
	Light map[string]color.Color
	Dark  map[string]color.Color
}

// Option configures an [Engine].
type Option func(*Engine)

// WithSyntax sets the delimiters. An invalid syntax is ignored.
func WithSyntax(s Syntax) Option {
	return func(e *Engine) {
		if s.Validate() == nil {
			e.syntax = s
		}
	}
}

// WithDefaultScheme sets the scheme that "default" resolves to.
func WithDefaultScheme(s Scheme) Option {
	return func(e *Engine) {
		if c, ok := ParseScheme(string(s)); ok {
			e.scheme = c
		}
	}
}

// WithLogger sets the logger used for engine events.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine parses templates once and renders them against two color schemes
// and a global context.
//
// Colors produced by a filter chain that starts from a scheme color are
// written back into a mutation cache keyed by role and scheme. The cache
// outlives individual renders: every later lookup of that role and scheme,
// in any template, sees the mutated color. It is reset only by creating a
// new Engine.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	syntax    Syntax
	scheme    Scheme
	logger    log.Logger
	schemes   map[Scheme]map[string]color.Color
	cache     map[Scheme]map[string]color.Color
	templates map[string]*Template
	filters   map[string]FilterFunc
	context   *Context
	diags     collector
}

// compileName is the name under which [Engine.Compile] registers its source.
const compileName = "temporary"

// New returns an Engine with the built-in filters installed.
func New(schemes Schemes, opts ...Option) *Engine {
	e := &Engine{
		syntax: DefaultSyntax,
		scheme: SchemeDark,
		schemes: map[Scheme]map[string]color.Color{
			SchemeLight: maps.Clone(schemes.Light),
			SchemeDark:  maps.Clone(schemes.Dark),
		},
		cache: map[Scheme]map[string]color.Color{
			SchemeLight: {},
			SchemeDark:  {},
		},
		templates: make(map[string]*Template),
		filters:   builtinFilters(),
		context:   NewContext(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Syntax returns the delimiters in use.
func (e *Engine) Syntax() Syntax { return e.syntax }

// DefaultScheme returns the scheme that "default" resolves to.
func (e *Engine) DefaultScheme() Scheme { return e.scheme }

// AddTemplate parses source and registers it as name, replacing any
// template of that name. A template that fails to parse stays registered
// but cannot render; its *ParseError is returned.
func (e *Engine) AddTemplate(name, source string) error {
	t := &Template{Name: name, Source: source}

	nodes, err := Parse(name, source, e.syntax)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			t.Err = perr
		} else {
			t.Err = &ParseError{Template: name, Source: source, Msg: err.Error()}
		}

		e.templates[name] = t

		e.logger.Debug("template rejected",
			slog.String("name", name),
			slog.String("error", t.Err.Message()))

		return t.Err
	}

	t.Nodes = nodes
	e.templates[name] = t

	e.logger.Debug("template registered",
		slog.String("name", name),
		slog.Int("nodes", len(nodes)))

	return nil
}

// RemoveTemplate unregisters name and reports whether it was registered.
func (e *Engine) RemoveTemplate(name string) bool {
	_, ok := e.templates[name]
	delete(e.templates, name)

	return ok
}

// Source returns the source text of a registered template.
func (e *Engine) Source(name string) (string, bool) {
	t, ok := e.templates[name]
	if !ok {
		return "", false
	}

	return t.Source, true
}

// Templates returns the registered template names in sorted order.
func (e *Engine) Templates() []string {
	return slices.Sorted(maps.Keys(e.templates))
}

// AddContext merges data into the global context. Data is either a Go
// value of JSON-like shape (maps, slices, scalars) or JSON or YAML bytes.
// Its top level must be a map.
func (e *Engine) AddContext(data any) error {
	if b, ok := data.([]byte); ok {
		var decoded any
		if err := yaml.Unmarshal(b, &decoded); err != nil {
			return ErrInvalidContext.Wrap(err)
		}

		data = decoded
	}

	v, err := FromNative(data)
	if err != nil {
		return err
	}

	if err := e.context.Merge(v); err != nil {
		return err
	}

	e.logger.Debug("context merged", slog.Int("keys", v.Len()))

	return nil
}

// Context returns the global context.
func (e *Engine) Context() *Context { return e.context }

// AddFilter registers fn as name and returns the filter it replaced.
func (e *Engine) AddFilter(name string, fn FilterFunc) FilterFunc {
	prev := e.filters[name]
	e.filters[name] = fn

	return prev
}

// RemoveFilter unregisters name and returns the removed filter.
func (e *Engine) RemoveFilter(name string) FilterFunc {
	prev := e.filters[name]
	delete(e.filters, name)

	return prev
}

// Filters returns the registered filter names in sorted order.
func (e *Engine) Filters() []string {
	return slices.Sorted(maps.Keys(e.filters))
}

// Roles returns every color role of either scheme in sorted order.
func (e *Engine) Roles() []string {
	set := maps.Clone(e.schemes[SchemeLight])
	if set == nil {
		set = make(map[string]color.Color)
	}

	maps.Copy(set, e.schemes[SchemeDark])

	return slices.Sorted(maps.Keys(set))
}

// CachedColor returns the mutated color of role in scheme, if any filter
// chain has written one.
func (e *Engine) CachedColor(role string, scheme Scheme) (color.Color, bool) {
	s, ok := e.concreteScheme(scheme)
	if !ok {
		return color.Color{}, false
	}

	c, ok := e.cache[s][role]

	return c, ok
}

// Render renders the registered template name.
//
// Errors found while rendering do not stop it: the output is returned
// together with every diagnostic, combined with multierr. An unknown
// template, a template that failed to parse, an include cycle and a loop
// binding too many variables are fatal and return no output.
func (e *Engine) Render(name string) (string, error) {
	t, ok := e.templates[name]
	if !ok {
		return "", ErrTemplateNotFound.Wrap(errString(strconv.Quote(name)))
	}

	if t.Err != nil {
		return "", t.Err
	}

	r := newRenderer(e, t)

	if err := r.nodes(t.Nodes); err != nil {
		e.diags.reset()
		e.logger.Debug("render aborted", slog.String("name", name), slog.Any("error", err))

		return "", err
	}

	n := e.diags.len()
	out := r.out.String()

	e.logger.Debug("template rendered",
		slog.String("name", name),
		slog.Int("bytes", len(out)),
		slog.Int("diagnostics", n))

	return out, e.diags.drain()
}

// Compile renders source once as a transient template.
func (e *Engine) Compile(source string) (string, error) {
	prev, had := e.templates[compileName]

	defer func() {
		if had {
			e.templates[compileName] = prev
		} else {
			delete(e.templates, compileName)
		}
	}()

	if err := e.AddTemplate(compileName, source); err != nil {
		return "", err
	}

	return e.Render(compileName)
}

// Report writes err to w as annotated source snippets. See [Report].
func (e *Engine) Report(w io.Writer, err error) { Report(w, err) }

func (e *Engine) report(d *Diagnostic) {
	if e.diags.add(d) {
		e.logger.Trace("diagnostic", slog.Any("diagnostic", d))
	}
}

func (e *Engine) concreteScheme(s Scheme) (Scheme, bool) {
	switch s {
	case SchemeLight, SchemeDark:
		return s, true
	case SchemeDefault:
		return e.scheme, true
	}

	return "", false
}

func (e *Engine) hasRole(role string) bool {
	_, light := e.schemes[SchemeLight][role]
	_, dark := e.schemes[SchemeDark][role]

	return light || dark
}

// color returns the color of role in a concrete scheme, preferring the
// mutation cache.
func (e *Engine) color(role string, s Scheme) (color.Color, bool) {
	if c, ok := e.cache[s][role]; ok {
		return c, true
	}

	c, ok := e.schemes[s][role]

	return c, ok
}

func (e *Engine) cacheColor(role string, s Scheme, c color.Color) {
	e.cache[s][role] = c

	e.logger.Trace("color cached",
		slog.String("role", role),
		slog.String("scheme", string(s)),
		slog.String("color", c.Hex()))
}
