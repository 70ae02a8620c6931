// Package profile records runtime profiles of a command with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	matugen --pprof-mode cpu render theme.yaml 'templates/*.tmpl'
//	go tool pprof -http=: $XDG_CACHE_HOME/matugen/pprof/cpu.pprof
//
// Without the tag [Profiler.Start] returns a no-op and [Modes] is empty.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
