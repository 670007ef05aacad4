// Package model contains domain models passed between layers.
package model

import "github.com/okian/fairdeal/internal/domain/category"

// PerformanceRecord holds per-category values for one player and period.
type PerformanceRecord struct {
	Stats map[string]float64 `json:"stats" koanf:"stats"`
	Age   float64            `json:"age" koanf:"age"`
}

// Value returns the value recorded for key; missing categories read as 0.
func (p PerformanceRecord) Value(key string) float64 {
	return p.Stats[key]
}

// ReferenceContract is an already-signed comparable contract.
type ReferenceContract struct {
	ID               string            `json:"id" koanf:"id"`
	Name             string            `json:"name,omitempty" koanf:"name"`
	Position         string            `json:"position,omitempty" koanf:"position"`
	Performance      PerformanceRecord `json:"performance" koanf:"performance"` // pre-signing period
	AgeAtSigning     float64           `json:"age_at_signing" koanf:"age_at_signing"`
	AnnualValue      float64           `json:"annual_value" koanf:"annual_value"`
	ContractYears    float64           `json:"contract_years" koanf:"contract_years"`
	SignedYear       int               `json:"signed_year" koanf:"signed_year"`
	IncludedInCohort bool              `json:"included_in_cohort" koanf:"included_in_cohort"`
}

// SigningAge returns the age used for cohort comparison: the pre-signing
// record's age when known, else AgeAtSigning.
func (r ReferenceContract) SigningAge() float64 {
	if r.Performance.Age > 0 {
		return r.Performance.Age
	}
	return r.AgeAtSigning
}

// ValuationInputs is everything a valuation depends on.
type ValuationInputs struct {
	Subject PerformanceRecord   `json:"subject"`
	Cohort  []ReferenceContract `json:"cohort"`
	// Categories names the compared categories. When empty, the keys of
	// Weights are used; when both are empty every registry category is.
	Categories       []string           `json:"categories,omitempty"`
	Weights          map[string]float64 `json:"weights,omitempty"`
	InflationPercent float64            `json:"inflation_percent"`
	AdjustAAV        bool               `json:"adjust_aav"`
	AdjustYears      bool               `json:"adjust_years"`
	PresentYear      int                `json:"present_year"`
}

// Active returns the cohort members flagged for inclusion, in input order.
func (in ValuationInputs) Active() []ReferenceContract {
	out := make([]ReferenceContract, 0, len(in.Cohort))
	for _, r := range in.Cohort {
		if r.IncludedInCohort {
			out = append(out, r)
		}
	}
	return out
}

// CategoryComparison is the per-category breakdown of a valuation.
type CategoryComparison struct {
	Key          string         `json:"key"`
	Label        string         `json:"label"`
	Scale        category.Scale `json:"scale"`
	Weight       float64        `json:"weight"`
	SubjectValue float64        `json:"subject_value"`
	CohortValue  float64        `json:"cohort_value"`
	Delta        float64        `json:"delta"`
	PctDiff      float64        `json:"pct_diff"`
	Ratio        float64        `json:"ratio"`
	Contribution float64        `json:"contribution"`
	AAVImpact    float64        `json:"aav_impact"`
}

// YearsBreakdown exposes every intermediate of the contract-length adjustment.
type YearsBreakdown struct {
	AgeDelta              float64 `json:"age_delta"`
	AgePenalty            float64 `json:"age_penalty"`
	YouthBenefit          float64 `json:"youth_benefit"`
	AgeMultiplier         float64 `json:"age_multiplier"`
	AbsoluteAgePenalty    float64 `json:"absolute_age_penalty"`
	PerformanceAdjustment float64 `json:"performance_adjustment"`
	TotalAdjustment       float64 `json:"total_adjustment"`
	ProposedYears         float64 `json:"proposed_years"`
	CappedYears           float64 `json:"capped_years"`
}

// ValuationResult is the full output of one valuation. It is recomputed
// from ValuationInputs on every call and never patched.
type ValuationResult struct {
	BaselineAAV      float64              `json:"baseline_aav"`
	BaselineYears    float64              `json:"baseline_years"`
	FairAAV          float64              `json:"fair_aav"`
	FairYears        float64              `json:"fair_years"`
	RawMultiplier    float64              `json:"raw_multiplier"`
	AAVMultiplier    float64              `json:"aav_multiplier"`
	CohortSize       int                  `json:"cohort_size"`
	CohortSigningAge float64              `json:"cohort_signing_age"`
	Years            YearsBreakdown       `json:"years"`
	Categories       []CategoryComparison `json:"categories"`
}

// Degenerate reports whether the result came from an empty active cohort.
func (r ValuationResult) Degenerate() bool {
	return r.CohortSize == 0
}

// Player is a subject that can be valued.
type Player struct {
	ID          string            `json:"id" koanf:"id"`
	Name        string            `json:"name" koanf:"name"`
	Position    string            `json:"position" koanf:"position"`
	Performance PerformanceRecord `json:"performance" koanf:"performance"`
}
