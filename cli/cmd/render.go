package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/InioX/matugen-sub000/lang"
	"github.com/InioX/matugen-sub000/log"
)

// defaultDirMode is the permission mode of created output directories.
const defaultDirMode = 0o755

// defaultFileMode is the permission mode of written output files.
const defaultFileMode = 0o644

// Render renders templates with a color scheme.
type Render struct {
	Inputs `embed:""`

	Output string `help:"Directory receiving one file per template. Writes to stdout when empty." short:"o"`

	Templates []string `arg:"" help:"Template files or doublestar patterns." name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := EnvFrom(ctx)

	eng, names, err := r.load(ctx, env, r.Templates)
	if err != nil {
		return err
	}

	failed := renderAll(ctx, env, eng, names, func(name, out string) error {
		return r.write(env, name, out)
	})
	if failed < 0 {
		return ErrWriteOutput.With(slog.String("dir", r.Output))
	}

	if failed > 0 {
		return ErrRender.With(
			slog.Int("failed", failed),
			slog.Int("templates", len(names)),
		)
	}

	return nil
}

func (r *Render) write(env Env, name, out string) error {
	if r.Output == "" {
		_, err := io.WriteString(env.Stdout, out)

		return err
	}

	if err := env.FS.MkdirAll(r.Output, defaultDirMode); err != nil {
		return err
	}

	path := filepath.Join(r.Output, name)

	return afero.WriteFile(env.FS, path, []byte(out), defaultFileMode)
}

// renderAll renders names in order, reporting diagnostics to env.Stderr.
// Output of templates without diagnostics is passed to emit. It returns the
// number of templates that reported errors, or -1 if emit failed.
func renderAll(
	ctx context.Context,
	env Env,
	eng *lang.Engine,
	names []string,
	emit func(name, out string) error,
) int {
	failed := 0

	for _, name := range names {
		out, err := eng.Render(name)
		if err != nil {
			eng.Report(env.Stderr, err)

			failed++

			continue
		}

		if err := emit(name, out); err != nil {
			log.ErrorContext(ctx, "write failed",
				slog.String("template", name),
				slog.Any("error", err),
			)

			return -1
		}

		log.DebugContext(ctx, "template written", slog.String("template", name))
	}

	return failed
}
