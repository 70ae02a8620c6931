package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the interpolation variable name from the kong model stored
// in ctx, if any.
func kongVar(ctx context.Context, name string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[name]

	return v, ok
}

// Env is the process environment seen by commands.
//
// Commands never touch the operating system directly, so tests can run them
// against an in-memory filesystem and buffered streams.
type Env struct {
	FS     afero.Fs
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// OSEnv returns an Env backed by the host filesystem and standard streams.
func OSEnv() Env {
	return Env{
		FS:     afero.NewOsFs(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

type envKey struct{}

// WithEnv returns a new context.Context carrying env.
func WithEnv(ctx context.Context, env Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// EnvFrom returns the Env stored in ctx by [WithEnv]. Missing fields are
// filled from [OSEnv].
func EnvFrom(ctx context.Context) Env {
	env, _ := ctx.Value(envKey{}).(Env)
	def := OSEnv()

	if env.FS == nil {
		env.FS = def.FS
	}

	if env.Stdin == nil {
		env.Stdin = def.Stdin
	}

	if env.Stdout == nil {
		env.Stdout = def.Stdout
	}

	if env.Stderr == nil {
		env.Stderr = def.Stderr
	}

	if env.Getenv == nil {
		env.Getenv = def.Getenv
	}

	return env
}
