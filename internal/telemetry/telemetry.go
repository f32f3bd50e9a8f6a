// Package telemetry records per-request embeddings metrics.
package telemetry

import "time"

// Recorder observes one completed embeddings request, success or failure.
// Implementations must never fail the request: sink errors are swallowed.
// A negative promptTokens means the count was never computed (the request
// failed before accounting) and is not recorded.
type Recorder interface {
	Record(model, status string, inputCount, promptTokens int, duration time.Duration)
}

// Noop discards all measurements. Used when metrics are disabled.
type Noop struct{}

func (Noop) Record(model, status string, inputCount, promptTokens int, duration time.Duration) {}
