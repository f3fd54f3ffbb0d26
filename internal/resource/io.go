package resource

import (
	"context"
	"io"
)

// IOAcquirer waits until n bytes of IO are allowed. *Controller implements it.
type IOAcquirer interface {
	AcquireIO(ctx context.Context, n int) error
}

// RateLimitedWriter wraps an io.Writer with an IO limit.
type RateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	io  IOAcquirer
}

// NewRateLimitedWriter creates a new RateLimitedWriter. A nil acquirer
// leaves writes unthrottled.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, acquirer IOAcquirer) *RateLimitedWriter {
	return &RateLimitedWriter{
		ctx: ctx,
		w:   w,
		io:  acquirer,
	}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	if w.io != nil {
		if err := w.io.AcquireIO(w.ctx, len(p)); err != nil {
			return 0, err
		}
	}
	return w.w.Write(p)
}
