package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler selects what to record and where.
type Profiler struct {
	// Mode is one of [Modes]. Empty disables profiling.
	Mode string
	// Path is the output directory. Empty uses the working directory.
	Path string
	// Quiet suppresses the profiler's own log lines.
	Quiet bool
}

// Start begins profiling. The result is always safe to Stop, including when
// profiling is disabled or p.Mode is unknown.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Enabled() {
		return nop{}
	}

	return start(p)
}

// Valid reports whether p.Mode is empty or a supported mode.
func (p Profiler) Valid() bool {
	if p.Mode == "" {
		return true
	}

	for _, m := range Modes() {
		if m == p.Mode {
			return true
		}
	}

	return false
}

type nop struct{}

func (nop) Stop() {}
