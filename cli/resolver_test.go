package cli

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveString(t *testing.T, src string) kong.Resolver {
	t.Helper()

	r, err := resolve(context.Background())(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r
}

func lookup(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}

	return v
}

func TestResolve(t *testing.T) {
	r := resolveString(t, `
log-level: debug
log:
  format: json
  caller: true
mode: light
expr_delims: ["[[", "]]"]
indent: 4
ratio: 0.5
`)

	tests := []struct {
		name string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-caller", true},
		{"mode", "light"},
		{"expr-delims", []any{"[[", "]]"}},
		{"expr_delims", []any{"[[", "]]"}},
		{"indent", "4"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		if got := lookup(t, r, tt.name); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %#v, want %#v", tt.name, got, tt.want)
		}
	}
}

func TestResolve_Malformed(t *testing.T) {
	r := resolveString(t, "log-level: [debug\n")

	if got := lookup(t, r, "log-level"); got != nil {
		t.Errorf("expected empty configuration, got %#v", got)
	}

	if err := r.Validate(nil); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
