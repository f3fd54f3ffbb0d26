package slotsort

import "log/slog"

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	memoryLimit      int64
	maxWorkers       int64
	ioLimit          int64
	heap             bool
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithSlogHandler logs through the given slog handler.
func WithSlogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logger = NewLogger(h)
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed, metrics
// are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMemoryLimit caps the total bytes of all live arenas allocated by the
// engine. Allocations beyond the limit fail with ErrOutOfMemory.
// 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxWorkers sets the number of background slots, which bounds how many
// cases run concurrently on the engine. Default: 1.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = int64(n)
	}
}

// WithIOLimit caps fixture write throughput in bytes per second.
// 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithHeapArenas allocates arenas on the Go heap instead of anonymous
// memory mappings.
func WithHeapArenas() Option {
	return func(o *options) {
		o.heap = true
	}
}
