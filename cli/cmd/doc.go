// Package cmd implements the subcommands: render, check, colors, repl, init
// and version.
//
// Commands read files and write output only through the [Env] stored in
// their context, so every command runs unchanged against an in-memory
// filesystem.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
