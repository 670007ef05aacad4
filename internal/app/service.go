// Package service provides the valuation service that backs the HTTP API
// and the CLI.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/fairdeal/internal/adapters/repository"
	workerpool "github.com/okian/fairdeal/internal/adapters/worker"
	"github.com/okian/fairdeal/internal/domain/category"
	"github.com/okian/fairdeal/internal/domain/profile"
	"github.com/okian/fairdeal/internal/domain/valuation"
	"github.com/okian/fairdeal/pkg/logger"
	"github.com/okian/fairdeal/pkg/metrics"
)

// Defaults fill request fields the caller leaves unset.
type Defaults struct {
	InflationPercent float64
	AdjustAAV        bool
	AdjustYears      bool
	// PresentYear of 0 means the current calendar year.
	PresentYear int
}

// Service implements the API dependencies for the valuation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *valuation.Engine
	profiles *profile.Selector
	store    repository.Store
	pool     *workerpool.Pool

	// Configuration
	defaults     Defaults
	workerCount  int
	maxBatchSize int
	now          func() time.Time

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithMaxBatchSize caps the number of requests in one batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the valuation engine.
func WithEngine(e *valuation.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithProfiles sets the position weight profiles.
func WithProfiles(p *profile.Selector) Option {
	return func(s *Service) {
		if p != nil {
			s.profiles = p
		}
	}
}

// WithStore sets the reference data store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithDefaults sets the request defaults.
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		s.defaults = d
	}
}

// WithClock overrides the time source used to resolve the present year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:       valuation.New(),
		profiles:     profile.NewSelector(),
		defaults:     Defaults{InflationPercent: 4, AdjustAAV: true, AdjustYears: true},
		workerCount:  runtime.NumCPU() * 2,
		maxBatchSize: 256,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the batch worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting valuation service...")

	s.pool = workerpool.NewPool(s.workerCount, s.engine, workerpool.WithLogger(s.logger))
	s.pool.Start(ctx)

	s.started = true
	players, contracts := s.counts(ctx)
	s.logger.Info(ctx, "valuation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("maxBatchSize", s.maxBatchSize),
		logger.Int("players", players),
		logger.Int("contracts", contracts),
		logger.Bool("adjustAAV", s.defaults.AdjustAAV),
		logger.Bool("adjustYears", s.defaults.AdjustYears),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info(ctx, "stopping valuation service...")
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "valuation service stopped")
}

// Categories returns the category registry in order.
func (s *Service) Categories() []category.Category {
	return s.engine.Registry().All()
}

// Profile returns the weight profile for position.
func (s *Service) Profile(position string) profile.Profile {
	p := s.profiles.For(position)
	if p.Fallback {
		metrics.RecordProfileFallback()
	}
	return p
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	players, contracts := s.counts(ctx)
	stats := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"maxBatchSize":     s.maxBatchSize,
		"categories":       s.engine.Registry().Len(),
		"positions":        len(s.profiles.Positions()),
		"players":          players,
		"contracts":        contracts,
		"inflationPercent": s.defaults.InflationPercent,
		"presentYear":      s.presentYear(nil),
	}

	metrics.UpdateSubjects(players)
	metrics.UpdateReferenceContracts(contracts)

	return stats
}

func (s *Service) counts(ctx context.Context) (int, int) {
	if s.store == nil {
		return 0, 0
	}
	return s.store.Count(ctx)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l != nil {
		return l
	}
	return logger.Get()
}
