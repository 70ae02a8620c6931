//go:build !pprof

package profile

// Modes returns nil; profiling was not compiled in.
func Modes() []string { return nil }

// Enabled reports whether profiling was compiled in.
func Enabled() bool { return false }

func start(Profiler) Stopper { return nop{} }
