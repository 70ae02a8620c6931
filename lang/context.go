package lang

import (
	"maps"
	"slices"
)

// Context holds the global bindings visible to every template.
type Context struct {
	globals map[string]Value
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{globals: make(map[string]Value)}
}

// Merge merges the entries of a Map value into the global bindings.
// Nested maps merge recursively and any other value replaces the binding.
func (c *Context) Merge(v Value) error {
	if v.kind != KindMap {
		return ErrInvalidContext.Wrap(errNotMap(v.kind))
	}

	for k, sv := range v.m {
		if dv, ok := c.globals[k]; ok {
			c.globals[k] = Merge(dv, sv)
		} else {
			c.globals[k] = sv
		}
	}

	return nil
}

// Lookup returns the global binding of name.
func (c *Context) Lookup(name string) (Value, bool) {
	v, ok := c.globals[name]

	return v, ok
}

// Keys returns the global binding names in sorted order.
func (c *Context) Keys() []string {
	return slices.Sorted(maps.Keys(c.globals))
}

// RuntimeContext layers a stack of scope frames over a [Context] for the
// duration of one render.
type RuntimeContext struct {
	ctx    *Context
	frames []map[string]Value
}

// NewRuntimeContext returns a RuntimeContext with no frames.
func NewRuntimeContext(ctx *Context) *RuntimeContext {
	return &RuntimeContext{ctx: ctx}
}

// Push opens a new innermost frame.
func (r *RuntimeContext) Push() {
	r.frames = append(r.frames, make(map[string]Value, 2))
}

// Pop discards the innermost frame.
func (r *RuntimeContext) Pop() {
	if len(r.frames) > 0 {
		r.frames = r.frames[:len(r.frames)-1]
	}
}

// Depth returns the number of open frames.
func (r *RuntimeContext) Depth() int { return len(r.frames) }

// Set binds name in the innermost frame. It panics if no frame is open.
func (r *RuntimeContext) Set(name string, v Value) {
	r.frames[len(r.frames)-1][name] = v
}

// Lookup searches the frames innermost first, then the global context.
func (r *RuntimeContext) Lookup(name string) (Value, bool) {
	for i := len(r.frames) - 1; i >= 0; i-- {
		if v, ok := r.frames[i][name]; ok {
			return v, true
		}
	}

	return r.ctx.Lookup(name)
}

// Names returns every visible binding name, innermost first, without
// duplicates.
func (r *RuntimeContext) Names() []string {
	seen := make(map[string]struct{})

	var names []string

	add := func(keys []string) {
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
	}

	for i := len(r.frames) - 1; i >= 0; i-- {
		add(slices.Sorted(maps.Keys(r.frames[i])))
	}

	add(r.ctx.Keys())

	return names
}

type errNotMap Kind

func (e errNotMap) Error() string { return "expected map, found " + Kind(e).String() }
