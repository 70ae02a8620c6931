// Package cli contains the command line interface for matugen.
//
// # Usage
//
// Templates are rendered with the colors of a scheme file:
//
//	matugen --scheme scheme.yaml 'templates/**/*.conf' --output ~/.config/theme
//	matugen check --scheme scheme.yaml templates/*.css
//	matugen colors --scheme scheme.yaml --format rgb --encoding toml
//	matugen repl --scheme scheme.yaml --mode light
//
// render is the default command.
//
// # Configuration
//
// Flag defaults are read from $XDG_CONFIG_HOME/matugen/config.yaml, written
// with the current flag values by the init command. Nested maps are flattened
// with '-' so "log: {level: debug}" sets --log-level.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (kitchen, RFC3339, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     $XDG_CACHE_HOME/matugen/pprof)
package cli
