package lang

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/InioX/matugen-sub000/color"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindIdent
	KindInt
	KindFloat
	KindBool
	KindColor
	KindLazyColor
	KindMap
	KindArray
)

// String returns the type name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindIdent:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindColor, KindLazyColor:
		return "color"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable runtime datum. The zero Value is null.
type Value struct {
	kind  Kind
	str   string
	num   int64
	flt   float64
	color color.Color
	role  string
	m     map[string]Value
	a     []Value
}

// SpannedValue pairs a value with the source range that produced it.
type SpannedValue struct {
	Value

	Span Span
}

func NullValue() Value           { return Value{} }
func IdentValue(s string) Value  { return Value{kind: KindIdent, str: s} }
func IntValue(i int64) Value     { return Value{kind: KindInt, num: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, flt: f} }

func BoolValue(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}

	return Value{kind: KindBool}
}

// ColorOf returns a plain color value with no role of origin.
func ColorOf(c color.Color) Value { return Value{kind: KindColor, color: c} }

// LazyColorValue returns a color read from role in scheme. Its formats are
// computed only when a path segment names one.
func LazyColorValue(c color.Color, role string, scheme Scheme) Value {
	return Value{kind: KindLazyColor, color: c, role: role, str: string(scheme)}
}

// MapValue returns a map value holding a copy of m.
func MapValue(m map[string]Value) Value {
	return Value{kind: KindMap, m: maps.Clone(m)}
}

// ArrayValue returns an array value holding a copy of a.
func ArrayValue(a []Value) Value {
	return Value{kind: KindArray, a: slices.Clone(a)}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsColor reports whether v holds a color, lazy or not.
func (v Value) IsColor() bool { return v.kind == KindColor || v.kind == KindLazyColor }

// Ident returns the text of an identifier value.
func (v Value) Ident() (string, bool) { return v.str, v.kind == KindIdent }

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) { return v.num, v.kind == KindInt }

// Float returns the float held by v.
func (v Value) Float() (float64, bool) { return v.flt, v.kind == KindFloat }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.num != 0, v.kind == KindBool }

// Number returns v as a float64 if it is an Int or a Float.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.num), true
	case KindFloat:
		return v.flt, true
	default:
		return 0, false
	}
}

// Color returns the color held by a Color or LazyColor value.
func (v Value) Color() (color.Color, bool) { return v.color, v.IsColor() }

// Origin returns the role and scheme a LazyColor was read from.
func (v Value) Origin() (role string, scheme Scheme, ok bool) {
	return v.role, Scheme(v.str), v.kind == KindLazyColor
}

// Len returns the number of entries of a Map or Array, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.m)
	case KindArray:
		return len(v.a)
	default:
		return 0
	}
}

// Get returns the entry of a Map stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}

	e, ok := v.m[key]

	return e, ok
}

// Index returns element i of an Array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.a) {
		return Value{}, false
	}

	return v.a[i], true
}

// Keys returns the keys of a Map in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}

	return slices.Sorted(maps.Keys(v.m))
}

// Elems returns a copy of the elements of an Array.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}

	return slices.Clone(v.a)
}

// String renders v as template output.
func (v Value) String() string {
	var b strings.Builder

	v.write(&b)

	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNull:
	case KindIdent:
		b.WriteString(v.str)
	case KindInt:
		b.WriteString(strconv.FormatInt(v.num, 10))
	case KindFloat:
		b.WriteString(formatFloat(v.flt))
	case KindBool:
		b.WriteString(strconv.FormatBool(v.num != 0))
	case KindColor, KindLazyColor:
		b.WriteString(v.color.Hex())
	case KindMap:
		b.WriteByte('{')

		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}

			b.WriteString(k)
			b.WriteString(": ")
			v.m[k].write(b)
		}

		b.WriteByte('}')
	case KindArray:
		b.WriteByte('[')

		for i, e := range v.a {
			if i > 0 {
				b.WriteString(", ")
			}

			e.write(b)
		}

		b.WriteByte(']')
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Merge returns dst with src merged into it. Maps merge recursively; for
// any other pair the source value wins. Neither argument is modified.
func Merge(dst, src Value) Value {
	if dst.kind != KindMap || src.kind != KindMap {
		return src
	}

	out := maps.Clone(dst.m)
	if out == nil {
		out = make(map[string]Value, len(src.m))
	}

	for k, sv := range src.m {
		if dv, ok := out[k]; ok {
			out[k] = Merge(dv, sv)
		} else {
			out[k] = sv
		}
	}

	return Value{kind: KindMap, m: out}
}

// FromNative converts decoded JSON, YAML or TOML data into a Value.
func FromNative(data any) (Value, error) {
	switch d := data.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return d, nil
	case string:
		return IdentValue(d), nil
	case bool:
		return BoolValue(d), nil
	case color.Color:
		return ColorOf(d), nil
	case json.Number:
		if i, err := d.Int64(); err == nil {
			return IntValue(i), nil
		}

		f, err := d.Float64()
		if err != nil {
			return Value{}, ErrInvalidContext.Wrap(err)
		}

		return FloatValue(f), nil
	case map[string]any:
		m := make(map[string]Value, len(d))

		for k, e := range d {
			v, err := FromNative(e)
			if err != nil {
				return Value{}, err
			}

			m[k] = v
		}

		return Value{kind: KindMap, m: m}, nil
	case []any:
		a := make([]Value, len(d))

		for i, e := range d {
			v, err := FromNative(e)
			if err != nil {
				return Value{}, err
			}

			a[i] = v
		}

		return Value{kind: KindArray, a: a}, nil
	case fmt.Stringer:
		if rv := reflect.ValueOf(d); rv.Kind() == reflect.Struct {
			return IdentValue(d.String()), nil
		}
	}

	return fromReflect(reflect.ValueOf(data))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return FloatValue(float64(u)), nil
		}

		return IntValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return FloatValue(rv.Float()), nil
	case reflect.String:
		return IdentValue(rv.String()), nil
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.Map:
		m := make(map[string]Value, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			v, err := FromNative(it.Value().Interface())
			if err != nil {
				return Value{}, err
			}

			m[fmt.Sprint(it.Key().Interface())] = v
		}

		return Value{kind: KindMap, m: m}, nil
	case reflect.Slice, reflect.Array:
		a := make([]Value, rv.Len())

		for i := range a {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}

			a[i] = v
		}

		return Value{kind: KindArray, a: a}, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullValue(), nil
		}

		return FromNative(rv.Elem().Interface())
	}

	return Value{}, ErrInvalidContext.Wrap(
		fmt.Errorf("unsupported type %s", rv.Type()),
	)
}
