package cmd

import (
	"context"
	"fmt"

	"github.com/InioX/matugen-sub000/pkg"
)

// Version prints the program version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(EnvFrom(ctx).Stdout, pkg.Version)

	return err
}
