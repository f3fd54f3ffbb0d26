package slotsort

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with slotsort-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithCase tags the logger with a case name (CLI runs, benchmarks).
func (l *Logger) WithCase(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("case", name),
	}
}

// WithCount adds a record count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogAllocate logs an arena allocation.
func (l *Logger) LogAllocate(ctx context.Context, words int, offHeap bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "arena allocation refused",
			"words", words,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "arena allocated",
			"words", words,
			"off_heap", offHeap,
		)
	}
}

// LogRadixSort logs a radix sort call.
func (l *Logger) LogRadixSort(ctx context.Context, records int, opts RadixOptions, result BufferID, stats RadixStats, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "radix sort failed",
			"records", records,
			"start_byte", opts.StartByte,
			"end_byte", opts.EndByte,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "radix sort completed",
			"records", records,
			"start_byte", opts.StartByte,
			"end_byte", opts.EndByte,
			"descending", opts.Descending,
			"signed", opts.Signed,
			"result", result.String(),
			"passes", stats.Passes,
			"skipped", stats.Skipped,
			"duration", d,
		)
	}
}

// LogComparatorSort logs a comparator sort call.
func (l *Logger) LogComparatorSort(ctx context.Context, records int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "comparator sort failed",
			"records", records,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "comparator sort completed",
			"records", records,
			"duration", d,
		)
	}
}
