package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fairdeal/internal/adapters/repository"
	workerpool "github.com/okian/fairdeal/internal/adapters/worker"
	"github.com/okian/fairdeal/internal/domain/model"
	"github.com/okian/fairdeal/internal/domain/types"
	"github.com/okian/fairdeal/internal/domain/valuation"
	"github.com/okian/fairdeal/pkg/logger"
	"github.com/okian/fairdeal/pkg/metrics"
)

// Weight sources reported on a Valuation.
const (
	WeightsFromRequest  = "request"
	WeightsFromProfile  = "profile"
	WeightsFromRegistry = "registry"
)

// Value runs one valuation synchronously.
func (s *Service) Value(ctx context.Context, req types.ValuationRequest) (types.Valuation, error) {
	const op = "service.value"

	v, err := s.prepare(ctx, req)
	if err != nil {
		s.recordFailure(ctx, op, err)
		return types.Valuation{}, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	res, err := s.engine.Value(v.Inputs)
	metrics.RecordValuationLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		s.recordFailure(ctx, op, err)
		return types.Valuation{}, fmt.Errorf("%s: %w", op, err)
	}

	v.Result = res
	s.record(ctx, v)
	return v, nil
}

// ValueBatch values every request on the worker pool. A request that fails
// yields an error item; the batch itself fails only when it is too large,
// the service is not started, or ctx ends.
func (s *Service) ValueBatch(ctx context.Context, reqs []types.ValuationRequest) ([]types.BatchItem, error) {
	const op = "service.value_batch"

	s.mu.RLock()
	started, pool, maxBatch := s.started, s.pool, s.maxBatchSize
	s.mu.RUnlock()

	if !started {
		return nil, fmt.Errorf("%s: %w", op, ErrNotStarted)
	}
	if len(reqs) > maxBatch {
		return nil, fmt.Errorf("%s: %w: %d requests, limit %d", op, ErrBatchTooLarge, len(reqs), maxBatch)
	}
	metrics.RecordBatchSize(len(reqs))

	items := make([]types.BatchItem, len(reqs))
	prepared := make([]types.Valuation, 0, len(reqs))
	slots := make([]int, 0, len(reqs))
	jobs := make([]workerpool.Job, 0, len(reqs))
	for i, req := range reqs {
		v, err := s.prepare(ctx, req)
		if err != nil {
			s.recordFailure(ctx, op, err)
			items[i] = types.BatchItem{Error: err.Error()}
			continue
		}
		prepared = append(prepared, v)
		slots = append(slots, i)
		jobs = append(jobs, workerpool.Job{Inputs: v.Inputs})
	}

	results, err := pool.Submit(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for n, r := range results {
		if r.Err != nil {
			s.recordFailure(ctx, op, r.Err)
			items[slots[n]] = types.BatchItem{Error: r.Err.Error()}
			continue
		}
		v := prepared[n]
		v.Result = r.Value
		s.record(ctx, v)
		items[slots[n]] = types.BatchItem{Valuation: &v}
	}
	return items, nil
}

// Cohort returns a stored subject and the reference candidates at its
// position.
func (s *Service) Cohort(ctx context.Context, subjectID string) (types.CohortView, error) {
	const op = "service.cohort"

	if s.store == nil {
		return types.CohortView{}, fmt.Errorf("%s: %w", op, ErrNoStore)
	}
	p, err := s.store.Subject(ctx, subjectID)
	if err != nil {
		return types.CohortView{}, fmt.Errorf("%s: %w", op, err)
	}
	cands, err := s.store.Candidates(ctx, p.Position)
	if err != nil {
		return types.CohortView{}, fmt.Errorf("%s: %w", op, err)
	}
	return types.CohortView{Subject: p, Candidates: cands}, nil
}

// prepare resolves a request into engine inputs.
func (s *Service) prepare(ctx context.Context, req types.ValuationRequest) (types.Valuation, error) {
	v := types.Valuation{
		ID:        uuid.NewString(),
		SubjectID: strings.TrimSpace(req.SubjectID),
		Position:  strings.ToUpper(strings.TrimSpace(req.Position)),
	}

	subject, err := s.subject(ctx, req, &v)
	if err != nil {
		return types.Valuation{}, err
	}
	cohort, err := s.cohort(ctx, v.Position, req.CohortIDs)
	if err != nil {
		return types.Valuation{}, err
	}

	in := model.ValuationInputs{
		Subject:          subject,
		Cohort:           cohort,
		Categories:       req.Categories,
		Weights:          req.Weights,
		InflationPercent: s.defaults.InflationPercent,
		AdjustAAV:        s.defaults.AdjustAAV,
		AdjustYears:      s.defaults.AdjustYears,
		PresentYear:      s.presentYear(req.PresentYear),
	}
	if req.InflationPercent != nil {
		in.InflationPercent = *req.InflationPercent
	}
	if req.AdjustAAV != nil {
		in.AdjustAAV = *req.AdjustAAV
	}
	if req.AdjustYears != nil {
		in.AdjustYears = *req.AdjustYears
	}

	switch {
	case len(req.Weights) > 0:
		v.WeightSource = WeightsFromRequest
	case len(req.Categories) > 0:
		v.WeightSource = WeightsFromRegistry
	default:
		in.Weights = s.Profile(v.Position).Weights
		v.WeightSource = WeightsFromProfile
	}

	v.Inputs = in
	return v, nil
}

func (s *Service) subject(ctx context.Context, req types.ValuationRequest, v *types.Valuation) (model.PerformanceRecord, error) {
	if req.Subject != nil {
		return *req.Subject, nil
	}
	if v.SubjectID == "" {
		return model.PerformanceRecord{}, fmt.Errorf("%w: subject_id or subject is required", ErrInvalidRequest)
	}
	if s.store == nil {
		return model.PerformanceRecord{}, ErrNoStore
	}
	p, err := s.store.Subject(ctx, v.SubjectID)
	if err != nil {
		return model.PerformanceRecord{}, err
	}
	if v.Position == "" {
		v.Position = p.Position
	}
	return p.Performance, nil
}

// cohort gathers the candidates at position and marks the active ones. IDs
// outside the position are looked up individually and included.
func (s *Service) cohort(ctx context.Context, position string, ids []string) ([]model.ReferenceContract, error) {
	if s.store == nil {
		if len(ids) > 0 {
			return nil, ErrNoStore
		}
		return nil, nil
	}

	cands, err := s.store.Candidates(ctx, position)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		for i := range cands {
			cands[i].IncludedInCohort = true
		}
		return cands, nil
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.TrimSpace(id)] = true
	}
	for i := range cands {
		cands[i].IncludedInCohort = want[cands[i].ID]
		delete(want, cands[i].ID)
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if !want[id] {
			continue
		}
		c, err := s.store.Contract(ctx, id)
		if err != nil {
			return nil, err
		}
		c.IncludedInCohort = true
		cands = append(cands, c)
		delete(want, id)
	}
	return cands, nil
}

func (s *Service) presentYear(override *int) int {
	if override != nil && *override > 0 {
		return *override
	}
	if s.defaults.PresentYear > 0 {
		return s.defaults.PresentYear
	}
	return s.now().Year()
}

func (s *Service) record(ctx context.Context, v types.Valuation) {
	res := v.Result
	metrics.RecordCohortSize(res.CohortSize)
	if res.Degenerate() {
		metrics.RecordValuation(metrics.OutcomeDegenerate)
		s.log().Warn(ctx, "no active comparables; returning degenerate valuation",
			logger.String("valuationID", v.ID),
			logger.String("subjectID", v.SubjectID),
			logger.String("position", v.Position),
		)
		return
	}
	metrics.RecordValuation(metrics.OutcomeOK)
	metrics.RecordAAVMultiplier(res.AAVMultiplier)
	metrics.RecordYearsDelta(res.FairYears - res.BaselineYears)
	s.log().Debug(ctx, "valuation complete",
		logger.String("valuationID", v.ID),
		logger.String("subjectID", v.SubjectID),
		logger.Int("cohortSize", res.CohortSize),
		logger.Float64("baselineAAV", res.BaselineAAV),
		logger.Float64("fairAAV", res.FairAAV),
		logger.Float64("fairYears", res.FairYears),
	)
}

func (s *Service) recordFailure(ctx context.Context, op string, err error) {
	metrics.RecordValuation(metrics.OutcomeError)
	metrics.RecordErrorByComponent("service", errorType(err))
	s.log().Debug(ctx, "valuation rejected", logger.String("op", op), logger.Error(err))
}

func errorType(err error) string {
	switch {
	case errors.Is(err, valuation.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, valuation.ErrMalformedContract):
		return "malformed_contract"
	case errors.Is(err, valuation.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
