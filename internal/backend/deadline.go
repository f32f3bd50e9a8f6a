package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrDeadlineExceeded reports that a backend call overran the configured
// timeout.
var ErrDeadlineExceeded = errors.New("embedding backend deadline exceeded")

// EmbedWithDeadline bounds how long the caller waits for a backend call. On
// overrun it returns ErrDeadlineExceeded immediately; the backend goroutine
// is not cancelled and may run to completion in the background. Only the
// caller's wait is bounded, not the work itself.
func EmbedWithDeadline(ctx context.Context, b Backend, texts []string, timeout time.Duration) ([][]float32, error) {
	type result struct {
		vecs [][]float32
		err  error
	}

	done := make(chan result, 1)
	go func() {
		// A panicking backend must surface as an error on this request, not
		// take down the process from an unsupervised goroutine.
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{nil, fmt.Errorf("embedding backend panic: %v", rec)}
			}
		}()
		vecs, err := b.Embed(context.WithoutCancel(ctx), texts)
		done <- result{vecs, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.vecs, res.err
	case <-timer.C:
		return nil, ErrDeadlineExceeded
	}
}
