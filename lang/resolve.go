package lang

import (
	"strconv"
	"strings"

	"github.com/InioX/matugen-sub000/color"
)

// colorsNamespace is the reserved first path segment for scheme colors.
const colorsNamespace = "colors"

var schemeNames = []string{string(SchemeLight), string(SchemeDark), string(SchemeDefault)}

// lookup resolves an access path without reporting. With partial set, a
// path may stop at a color whose trailing segment names a format; the color
// itself is returned and formatting is left to the caller.
func (r *renderer) lookup(a *Access, partial bool) (Value, *Diagnostic) {
	segs := a.Segments

	var (
		v    Value
		next int
		d    *Diagnostic
	)

	if first := segs[0]; first.Name == colorsNamespace && !first.Quoted {
		v, next, d = r.colorPath(segs)
		if d != nil {
			return Value{}, d
		}
	} else {
		var ok bool
		if v, ok = r.rt.Lookup(first.Name); !ok {
			return Value{}, r.diag(first.Pos, ErrResolve,
				"undefined variable "+strconv.Quote(first.Name),
				suggest(first.Name, r.rt.Names()))
		}

		next = 1
	}

	for i := next; i < len(segs); i++ {
		seg := segs[i]

		switch v.Kind() {
		case KindMap:
			e, ok := mapIndex(v, seg.Name)
			if !ok {
				return Value{}, r.diag(seg.Pos, ErrResolve,
					"no key "+strconv.Quote(seg.Name),
					suggest(seg.Name, v.Keys()))
			}

			v = e

		case KindArray:
			n, ok := indexSegment(seg.Name)
			if !ok {
				return Value{}, r.diag(seg.Pos, ErrResolve,
					"arrays are indexed with _N, found "+strconv.Quote(seg.Name), "")
			}

			e, ok := v.Index(n)
			if !ok {
				return Value{}, r.diag(seg.Pos, ErrResolve,
					"index "+strconv.Itoa(n)+" out of range for array of length "+
						strconv.Itoa(v.Len()), "")
			}

			v = e

		case KindColor, KindLazyColor:
			if !color.IsFormat(seg.Name) {
				return Value{}, r.diag(seg.Pos, ErrInvalidFormat,
					"unknown format "+strconv.Quote(seg.Name),
					suggest(seg.Name, color.Formats()))
			}

			if i+1 < len(segs) {
				return Value{}, r.diag(segs[i+1].Pos.Join(segs[len(segs)-1].Pos),
					ErrInvalidColorDefinition,
					"nothing may follow the format "+strconv.Quote(seg.Name), "")
			}

			if partial {
				return v, nil
			}

			c, _ := v.Color()
			s, _ := c.Format(seg.Name)
			v = IdentValue(s)

		default:
			return Value{}, r.diag(seg.Pos, ErrResolve,
				"cannot index "+v.Kind().String()+" with "+strconv.Quote(seg.Name), "")
		}
	}

	return v, nil
}

// resolve is lookup that reports failures unless the renderer is quiet.
func (r *renderer) resolve(a *Access, partial bool) (Value, bool) {
	v, d := r.lookup(a, partial)
	if d != nil {
		if !r.quiet {
			r.e.report(d)
		}

		return Value{}, false
	}

	return v, true
}

// colorPath resolves the colors namespace. It returns the value reached and
// the index of the first segment not yet consumed.
func (r *renderer) colorPath(segs []Segment) (Value, int, *Diagnostic) {
	e := r.e

	if len(segs) == 1 {
		roles := make(map[string]Value)
		for _, role := range e.Roles() {
			roles[role] = e.roleMap(role)
		}

		return Value{kind: KindMap, m: roles}, 1, nil
	}

	role := segs[1]
	if !e.hasRole(role.Name) {
		return Value{}, 0, r.diag(role.Pos, ErrColorDoesNotExist,
			"no color named "+strconv.Quote(role.Name),
			suggest(role.Name, e.Roles()))
	}

	if len(segs) == 2 {
		return e.roleMap(role.Name), 2, nil
	}

	scheme := segs[2]

	concrete, ok := e.concreteScheme(Scheme(scheme.Name))
	if !ok {
		return Value{}, 0, r.diag(scheme.Pos, ErrInvalidScheme,
			"expected one of "+quoteList(schemeNames)+", found "+strconv.Quote(scheme.Name),
			suggest(scheme.Name, schemeNames))
	}

	c, ok := e.color(role.Name, concrete)
	if !ok {
		return Value{}, 0, r.diag(role.Pos.Join(scheme.Pos), ErrColorDoesNotExist,
			"no color named "+strconv.Quote(role.Name)+" in the "+string(concrete)+" scheme", "")
	}

	return LazyColorValue(c, role.Name, concrete), 3, nil
}

// roleMap returns the light, dark and default colors of role.
func (e *Engine) roleMap(role string) Value {
	m := make(map[string]Value, 3)

	for _, s := range []Scheme{SchemeLight, SchemeDark} {
		if c, ok := e.color(role, s); ok {
			m[string(s)] = LazyColorValue(c, role, s)
		}
	}

	if c, ok := e.color(role, e.scheme); ok {
		m[string(SchemeDefault)] = LazyColorValue(c, role, e.scheme)
	}

	return Value{kind: KindMap, m: m}
}

// mapIndex looks up name in a map. A positional segment _N falls back to
// the key N.
func mapIndex(v Value, name string) (Value, bool) {
	if e, ok := v.Get(name); ok {
		return e, true
	}

	if n, ok := indexSegment(name); ok {
		return v.Get(strconv.Itoa(n))
	}

	return Value{}, false
}

// indexSegment parses a positional segment _N.
func indexSegment(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "_")
	if !ok || digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
