// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/fairdeal/internal/domain/category"
	"github.com/okian/fairdeal/internal/domain/profile"
	"github.com/okian/fairdeal/internal/domain/types"
	"github.com/okian/fairdeal/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Value(ctx context.Context, req types.ValuationRequest) (types.Valuation, error)
	ValueBatch(ctx context.Context, reqs []types.ValuationRequest) ([]types.BatchItem, error)
	Cohort(ctx context.Context, subjectID string) (types.CohortView, error)
	Profile(position string) profile.Profile
	Categories() []category.Category
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	valuationsHandler *ValuationsHandler
	subjectsHandler   *SubjectsHandler
	catalogHandler    *CatalogHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxBodyBytes int64
	logger       logger.Logger
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		valuationsHandler: NewValuationsHandler(deps, cfg.maxBodyBytes, cfg.logger),
		subjectsHandler:   NewSubjectsHandler(deps),
		catalogHandler:    NewCatalogHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/valuations", MetricsMiddleware(s.valuationsHandler.HandlePostValuation, "valuations"))
	mux.HandleFunc("/valuations/batch", MetricsMiddleware(s.valuationsHandler.HandlePostBatch, "valuations_batch"))
	mux.HandleFunc("/subjects/", MetricsMiddleware(s.subjectsHandler.HandleGetCohort, "subjects_cohort"))
	mux.HandleFunc("/profiles/", MetricsMiddleware(s.catalogHandler.HandleGetProfile, "profiles"))
	mux.HandleFunc("/categories", MetricsMiddleware(s.catalogHandler.HandleGetCategories, "categories"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the status so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeErr maps err to a status via statusFor.
func writeErr(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// allow rejects requests whose method is not m.
func allow(w http.ResponseWriter, r *http.Request, op, m string) bool {
	if r.Method == m {
		return true
	}
	w.Header().Set("Allow", m)
	writeErr(w, NewKind(op, ErrMethodNotAllowed))
	return false
}
