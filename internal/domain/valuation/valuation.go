// Package valuation derives a recommended annual value and contract length
// for a subject from a cohort of comparable signed contracts.
//
// The engine is a pure function of its inputs: it holds no mutable state,
// performs no I/O and is safe for concurrent use.
package valuation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/fairdeal/internal/domain/category"
	"github.com/okian/fairdeal/internal/domain/model"
)

// Valuer computes a valuation from inputs.
type Valuer interface {
	Value(in model.ValuationInputs) (model.ValuationResult, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRegistry sets the category registry. A nil registry is ignored.
func WithRegistry(r *category.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// Engine implements Valuer.
type Engine struct {
	registry *category.Registry
}

// New creates an engine over the default registry unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{registry: category.NewRegistry()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's category registry.
func (e *Engine) Registry() *category.Registry {
	return e.registry
}

// Value runs the full valuation. It fails only on malformed inputs; an empty
// active cohort produces the degenerate zero result.
func (e *Engine) Value(in model.ValuationInputs) (model.ValuationResult, error) {
	const op = "valuation.value"

	cats, err := e.resolve(in)
	if err != nil {
		return model.ValuationResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateCohort(in.Cohort); err != nil {
		return model.ValuationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	active := in.Active()
	if len(active) == 0 {
		return degenerate(), nil
	}

	base := NormalizeBaseline(active, in.InflationPercent, in.PresentYear)
	if math.IsInf(base.AAV, 0) || math.IsNaN(base.AAV) {
		return model.ValuationResult{}, fmt.Errorf("%s: %w: baseline overflows at %v%% inflation", op, ErrOutOfRange, in.InflationPercent)
	}
	comps := Compare(cats, in.Weights, in.Subject, active)
	agg := Aggregate(comps, base.AAV, in.AdjustAAV)
	if !finiteAggregate(agg, comps) {
		return model.ValuationResult{}, fmt.Errorf("%s: %w: fair value overflows", op, ErrOutOfRange)
	}

	cohortAge := CohortSigningAge(active)
	fairYears, years := AdjustYears(YearsInput{
		SubjectAge:    in.Subject.Age,
		CohortAge:     cohortAge,
		BaselineYears: base.Years,
		AAVMultiplier: agg.Multiplier,
		Adjust:        in.AdjustYears,
	})

	return model.ValuationResult{
		BaselineAAV:      base.AAV,
		BaselineYears:    base.Years,
		FairAAV:          agg.FairAAV,
		FairYears:        fairYears,
		RawMultiplier:    agg.Raw,
		AAVMultiplier:    agg.Multiplier,
		CohortSize:       base.Size,
		CohortSigningAge: cohortAge,
		Years:            years,
		Categories:       comps,
	}, nil
}

// resolve picks the compared categories in registry order and rejects any
// referenced key the registry does not know.
func (e *Engine) resolve(in model.ValuationInputs) ([]category.Category, error) {
	weightKeys := make([]string, 0, len(in.Weights))
	for k := range in.Weights {
		weightKeys = append(weightKeys, k)
	}
	sort.Strings(weightKeys)

	keys := in.Categories
	if len(keys) == 0 {
		keys = weightKeys
	}
	if len(keys) == 0 {
		return e.registry.All(), nil
	}

	cats, unknown := e.registry.Ordered(keys)
	for _, k := range weightKeys {
		if !e.registry.Has(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, strings.Join(uniqueSorted(unknown), ", "))
	}
	return cats, nil
}

func validateCohort(cohort []model.ReferenceContract) error {
	for _, r := range cohort {
		if r.AnnualValue < 0 {
			return fmt.Errorf("%w: %q has negative annual value %v", ErrMalformedContract, r.ID, r.AnnualValue)
		}
		if r.ContractYears < 0 {
			return fmt.Errorf("%w: %q has negative contract years %v", ErrMalformedContract, r.ID, r.ContractYears)
		}
	}
	return nil
}

func finiteAggregate(agg Aggregation, comps []model.CategoryComparison) bool {
	if math.IsInf(agg.FairAAV, 0) || math.IsNaN(agg.FairAAV) {
		return false
	}
	for _, c := range comps {
		if math.IsInf(c.AAVImpact, 0) || math.IsNaN(c.AAVImpact) {
			return false
		}
	}
	return true
}

func degenerate() model.ValuationResult {
	return model.ValuationResult{
		FairYears:     MinFairYears,
		RawMultiplier: 1,
		AAVMultiplier: 1,
		Years:         model.YearsBreakdown{AgeMultiplier: 1},
		Categories:    []model.CategoryComparison{},
	}
}

func uniqueSorted(keys []string) []string {
	sort.Strings(keys)
	out := keys[:0]
	for i, k := range keys {
		if i == 0 || k != keys[i-1] {
			out = append(out, k)
		}
	}
	return out
}
