// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter is a slog.Handler that routes INFO/WARN to one handler and ERROR+ to another.
type levelRouter struct {
	out slog.Handler
	err slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.err.Handle(ctx, r)
	}
	return lr.out.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		out: lr.out.WithAttrs(attrs),
		err: lr.err.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		out: lr.out.WithGroup(name),
		err: lr.err.WithGroup(name),
	}
}

// NewHandler returns a text handler writing INFO/WARN to out and ERROR to errOut.
func NewHandler(out, errOut io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	return &levelRouter{
		out: slog.NewTextHandler(out, opts),
		err: slog.NewTextHandler(errOut, opts),
	}
}

// Setup installs the default logger for service. INFO/WARN go to stdout, ERROR
// to stderr. If logPath is non-empty, all levels are also appended to that file.
// The returned function closes the log file and is never nil.
func Setup(service, logPath string) (func(), error) {
	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	logger := slog.New(NewHandler(stdoutW, stderrW)).With("service", service)
	slog.SetDefault(logger)
	return cleanup, nil
}
