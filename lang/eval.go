package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/InioX/matugen-sub000/color"
)

// renderer walks one template, and the templates it includes, into a single
// output buffer. Only fatal errors are returned; everything else is
// reported to the engine's collector and rendering continues.
type renderer struct {
	e     *Engine
	rt    *RuntimeContext
	tmpl  *Template
	stack []string
	out   strings.Builder

	// quiet suppresses path resolution diagnostics while an if condition is
	// evaluated. Filter and operator errors are still reported.
	quiet bool
}

func newRenderer(e *Engine, t *Template) *renderer {
	return &renderer{
		e:     e,
		rt:    NewRuntimeContext(e.context),
		tmpl:  t,
		stack: []string{t.Name},
	}
}

func (r *renderer) diag(span Span, kind error, label, hint string) *Diagnostic {
	return &Diagnostic{
		Template: r.tmpl.Name,
		Source:   r.tmpl.Source,
		Span:     span,
		Label:    label,
		Hint:     hint,
		Err:      kind,
	}
}

func (r *renderer) report(span Span, kind error, label, hint string) {
	r.e.report(r.diag(span, kind, label, hint))
}

func (r *renderer) nodes(ns []Node) error {
	for _, n := range ns {
		var err error

		switch n := n.(type) {
		case *Raw:
			r.out.WriteString(n.Text)
		case *ForLoop:
			err = r.forLoop(n)
		case *If:
			err = r.ifBlock(n)
		case *Include:
			err = r.include(n)
		case Expression:
			r.out.WriteString(r.output(n))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// output renders an expression node as text.
func (r *renderer) output(x Expression) string {
	switch x := x.(type) {
	case *Access:
		v, ok := r.resolve(x, false)
		if !ok {
			return ""
		}

		if v.IsColor() {
			r.report(x.Pos, ErrInvalidFormat,
				"a color must end in a format", "add one of ."+
					strings.Join(color.Formats(), ", ."))

			return ""
		}

		return v.String()

	case *AccessWithFilters:
		fv, path, ok := r.pipeline(x)
		if !ok {
			return ""
		}

		return formatFilterValue(path, fv)

	default:
		v, ok := r.eval(x)
		if !ok {
			return ""
		}

		return v.String()
	}
}

// eval computes the value of an expression used as an operand, argument or
// condition.
func (r *renderer) eval(x Expression) (Value, bool) {
	switch x := x.(type) {
	case *Literal:
		return x.Value.Value, true

	case *Access:
		return r.resolve(x, false)

	case *AccessWithFilters:
		fv, path, ok := r.pipeline(x)
		if !ok {
			return Value{}, false
		}

		// A chain over .hex yields text; over a bare color it yields a color.
		if c, isColor := fv.(ColorValue); isColor {
			if n := len(path); n > 0 && color.IsFormat(path[n-1]) {
				return IdentValue(formatFilterValue(path, c)), true
			}

			return ColorOf(c.Color), true
		}

		return filterValueToValue(fv), true

	case *BinaryOp:
		return r.binary(x)

	case *Range:
		return IdentValue(strconv.FormatInt(x.Start, 10) + ".." + strconv.FormatInt(x.End, 10)), true
	}

	return Value{}, false
}

// pipeline resolves the base of x and threads it through each filter. It
// stops at the first failure, which has already been reported.
func (r *renderer) pipeline(x *AccessWithFilters) (FilterValue, []string, bool) {
	var (
		path   []string
		cur    FilterValue
		role   string
		scheme Scheme
		origin bool
	)

	if a, ok := x.Base.(*Access); ok {
		path = a.Path()

		v, ok := r.resolve(a, true)
		if !ok {
			return nil, nil, false
		}

		cur = toFilterValue(v)
		role, scheme, origin = v.Origin()
	} else {
		v, ok := r.eval(x.Base)
		if !ok {
			return nil, nil, false
		}

		cur = toFilterValue(v)
	}

	for _, f := range x.Filters {
		fn, ok := r.e.filters[f.Name]
		if !ok {
			r.report(f.NamePos, ErrFilterNotFound,
				"no filter named "+strconv.Quote(f.Name),
				suggest(f.Name, r.e.Filters()))

			return nil, nil, false
		}

		args := make([]SpannedValue, 0, len(f.Args))

		for _, a := range f.Args {
			v, ok := r.eval(a)
			if !ok {
				return nil, nil, false
			}

			args = append(args, SpannedValue{Value: v, Span: a.Span()})
		}

		out, err := fn(path, args, cur, r.e)
		if err != nil {
			span := f.Pos

			var s spanned
			if errors.As(err, &s) {
				span = s.ErrSpan()
			}

			r.report(span, err, "in filter "+strconv.Quote(f.Name), "")

			return nil, nil, false
		}

		if out == nil {
			out = StringValue("")
		}

		cur = out
	}

	if c, ok := cur.(ColorValue); ok && origin {
		r.e.cacheColor(role, scheme, c.Color)
	}

	return cur, path, true
}

func toFilterValue(v Value) FilterValue {
	if c, ok := v.Color(); ok {
		return ColorValue{Color: c}
	}

	return StringValue(v.String())
}

// condition evaluates the condition of an if block. An unresolved path,
// anywhere in the condition, makes it false and is not reported.
func (r *renderer) condition(x Expression) bool {
	prev := r.quiet
	r.quiet = true

	defer func() { r.quiet = prev }()

	v, ok := r.eval(x)
	if !ok {
		return false
	}

	if b, isBool := v.Bool(); isBool {
		return b
	}

	return true
}

func (r *renderer) ifBlock(n *If) error {
	if r.condition(n.Cond) {
		return r.nodes(n.Then)
	}

	return r.nodes(n.Else)
}

func (r *renderer) forLoop(n *ForLoop) error {
	switch it := n.Iterable.(type) {
	case *Range:
		if len(n.Vars) > 1 {
			return r.tooManyVars(n, "a range binds one variable")
		}

		for i := it.Start; i < it.End; i++ {
			if err := r.iteration(n, IntValue(i)); err != nil {
				return err
			}
		}

		return nil

	case *Access:
		v, ok := r.resolve(it, false)
		if !ok {
			return nil
		}

		return r.iterate(n, it, v)
	}

	r.report(n.Iterable.Span(), ErrLoopOverNonIterable, "expected a path or a range", "")

	return nil
}

func (r *renderer) iterate(n *ForLoop, it *Access, v Value) error {
	switch v.Kind() {
	case KindMap:
		for _, k := range v.Keys() {
			if err := r.iteration(n, IdentValue(k), v.m[k]); err != nil {
				return err
			}
		}

	case KindArray:
		if len(n.Vars) > 1 {
			return r.tooManyVars(n, "an array binds one variable")
		}

		for _, e := range v.a {
			if err := r.iteration(n, e); err != nil {
				return err
			}
		}

	case KindColor, KindLazyColor:
		for name, s := range v.color.All {
			if err := r.iteration(n, IdentValue(name), IdentValue(s)); err != nil {
				return err
			}
		}

	default:
		r.report(it.Pos, ErrLoopOverNonIterable,
			"cannot iterate over "+v.Kind().String(), "")
	}

	return nil
}

// iteration renders the loop body once with the loop variables bound to
// vals in a fresh scope frame.
func (r *renderer) iteration(n *ForLoop, vals ...Value) error {
	r.rt.Push()
	defer r.rt.Pop()

	for i, v := range n.Vars {
		if i < len(vals) {
			r.rt.Set(v.Name, vals[i])
		}
	}

	return r.nodes(n.Body)
}

func (r *renderer) tooManyVars(n *ForLoop, label string) error {
	return r.diag(n.Vars[1].Pos.Join(n.Vars[len(n.Vars)-1].Pos),
		ErrTooManyLoopVariables, label, "")
}

func (r *renderer) include(n *Include) error {
	t, ok := r.e.templates[n.Name]
	if !ok {
		r.report(n.NamePos, ErrIncludeNotFound,
			"no template named "+strconv.Quote(n.Name),
			suggest(n.Name, r.e.Templates()))

		return nil
	}

	if t.Err != nil {
		r.report(n.NamePos, ErrParse,
			"template "+strconv.Quote(n.Name)+" failed to parse", "")

		return nil
	}

	if slices.Contains(r.stack, n.Name) {
		return r.diag(n.Pos, ErrIncludeCycle,
			strings.Join(append(slices.Clone(r.stack), n.Name), " -> "), "")
	}

	r.e.logger.Trace("include",
		slog.String("template", r.tmpl.Name),
		slog.String("include", n.Name))

	prev := r.tmpl
	r.tmpl = t
	r.stack = append(r.stack, n.Name)

	defer func() {
		r.tmpl = prev
		r.stack = r.stack[:len(r.stack)-1]
	}()

	return r.nodes(t.Nodes)
}
