package cmd

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/InioX/matugen-sub000/cli/cmd/repl"
	"github.com/InioX/matugen-sub000/log"
)

// Repl starts an interactive session rendering one line at a time.
type Repl struct {
	Inputs `embed:""`

	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env := EnvFrom(ctx)

	eng, err := r.engine(ctx, env)
	if err != nil {
		return err
	}

	var path string

	if dir, ok := kongVar(ctx, CacheIdentifier); ok && !r.NoHistory {
		path = filepath.Join(dir, repl.HistoryFile)
	}

	return repl.Run(ctx, eng,
		repl.NewHistory(env.FS, path),
		log.Default(),
		tea.WithInput(env.Stdin),
		tea.WithOutput(env.Stdout),
	)
}
