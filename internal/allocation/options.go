package allocation

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option applies a configuration option to the Allocator.
type Option func(*Allocator)

// WithLogger sets the logger used for per-skill and per-run lines.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Allocator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRunID overrides the run id generator.
func WithRunID(next func() string) Option {
	return func(a *Allocator) {
		if next != nil {
			a.runID = next
		}
	}
}

// WithRecorder reports outcomes and run durations to r.
func WithRecorder(r Recorder) Option {
	return func(a *Allocator) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithSource tags every log line of a run with the data source name.
func WithSource(source string) Option {
	return func(a *Allocator) {
		a.source = source
	}
}

func newRunID() string {
	return uuid.NewString()
}
