package worker

import (
	"github.com/okian/fairdeal/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithName sets the pool name used in logs.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBuffer sets the task channel capacity.
func WithBuffer(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.buffer = n
		}
	}
}
