package cmd

import (
	"context"
	"fmt"
	"log/slog"
)

// Check renders templates without writing them and reports every
// diagnostic.
type Check struct {
	Inputs `embed:""`

	Templates []string `arg:"" help:"Template files or doublestar patterns." name:"template"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := EnvFrom(ctx)

	eng, names, err := c.load(ctx, env, c.Templates)
	if err != nil {
		return err
	}

	failed := renderAll(ctx, env, eng, names, func(name, _ string) error {
		_, err := fmt.Fprintf(env.Stdout, "%s: ok\n", name)

		return err
	})
	if failed < 0 {
		return ErrWriteOutput
	}

	if failed > 0 {
		return ErrRender.With(
			slog.Int("failed", failed),
			slog.Int("templates", len(names)),
		)
	}

	return nil
}
