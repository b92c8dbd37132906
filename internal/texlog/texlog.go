// Package texlog builds the diagnostic logger used while a run is in
// progress (such as arena cleanup warnings), distinct from the report the
// run produces. It fans structured log records out to stderr and,
// optionally, a JSON log file, mirroring the teacher's quiet/debug/format
// logger options reimplemented atop log/slog.
package texlog

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Option configures New.
type Option func(*options)

type options struct {
	debug   bool
	quiet   bool
	logFile io.Writer
}

// WithDebug lowers the stderr handler's level to slog.LevelDebug.
func WithDebug() Option {
	return func(o *options) { o.debug = true }
}

// WithQuiet discards everything but warnings and errors on stderr.
func WithQuiet() Option {
	return func(o *options) { o.quiet = true }
}

// WithLogFile adds a JSON-formatted handler writing every record
// (regardless of quiet) to w.
func WithLogFile(w io.Writer) Option {
	return func(o *options) { o.logFile = w }
}

// New builds a *slog.Logger from the given options. With no log file it
// is a single text handler on stderr; with one, records fan out to both
// via slogmulti.Fanout.
func New(opts ...Option) *slog.Logger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	level := slog.LevelInfo
	switch {
	case o.debug:
		level = slog.LevelDebug
	case o.quiet:
		level = slog.LevelWarn
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	if o.logFile != nil {
		handlers = append(handlers, slog.NewJSONHandler(o.logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}
