//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw content of the embedded VERSION file.
//
//go:embed VERSION
var version string

// Version is the semantic version of the module embedded at build time.
// It is printed by the CLI when users invoke the version subcommand.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier used across the project.
	// For example, it appears in help text, default config paths, and the
	// environment variable prefix.
	Name = "matugen"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Render color templates from a generated palette"
)

// EnvPrefix returns the prefix used for environment variables read by the
// command, such as MATUGEN_TEMPLATE_PATH.
func EnvPrefix() string { return strings.ToUpper(Name) + "_" }

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"InioX", "inio@matugen.dev"},
}
