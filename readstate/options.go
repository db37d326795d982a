package readstate

import (
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a ReadState at construction. It is not parameterized
// by the coordinate scalar kind: logging and metrics wiring don't depend
// on T, so one Option type serves every ReadState[T] instantiation.
type Option func(*options)

type options struct {
	logger     log.Logger
	registerer prometheus.Registerer
}

func defaultOptions() *options {
	return &options{
		logger:     log.NewNopLogger(),
		registerer: nil,
	}
}

// WithLogger sets the go-kit logger used for tile-preparation
// diagnostics. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers the read-state's prometheus metrics with reg.
// If unset, metrics are created but never exposed.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
