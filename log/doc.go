// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is configured once, at construction, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339"))
//
// [Logger.Wrap] derives a logger with some options overridden and
// [Logger.With] derives one that adds attributes to every message.
//
// Text output is styled with lipgloss when [WithPretty] is enabled and the
// destination is a terminal. Styling degrades to plain text otherwise.
//
// The package-level functions ([Info], [Debug], ...) write through a default
// logger that [Config] reconfigures.
package log
