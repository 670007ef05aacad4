// Package types contains request and response shapes shared by the service,
// the HTTP API and the CLI.
package types

import (
	"github.com/okian/fairdeal/internal/domain/model"
)

// ValuationRequest asks for one valuation. Either SubjectID or Subject must
// be set; unset pointer fields take the service defaults.
type ValuationRequest struct {
	SubjectID string                   `json:"subject_id,omitempty"`
	Subject   *model.PerformanceRecord `json:"subject,omitempty"`
	// Position selects reference candidates and the weight profile. It
	// defaults to the stored subject's position.
	Position string `json:"position,omitempty"`
	// CohortIDs lists the active comparables. When empty every candidate at
	// the position is active.
	CohortIDs        []string           `json:"cohort_ids,omitempty"`
	Categories       []string           `json:"categories,omitempty"`
	Weights          map[string]float64 `json:"weights,omitempty"`
	InflationPercent *float64           `json:"inflation_percent,omitempty"`
	AdjustAAV        *bool              `json:"adjust_aav,omitempty"`
	AdjustYears      *bool              `json:"adjust_years,omitempty"`
	PresentYear      *int               `json:"present_year,omitempty"`
}

// Valuation is a completed valuation.
type Valuation struct {
	ID        string `json:"valuation_id"`
	SubjectID string `json:"subject_id,omitempty"`
	Position  string `json:"position,omitempty"`
	// WeightSource is "request", "profile" or "registry".
	WeightSource string                `json:"weight_source"`
	Inputs       model.ValuationInputs `json:"-"`
	Result       model.ValuationResult `json:"result"`
}

// BatchItem is one entry of a batch response: a valuation or an error.
type BatchItem struct {
	Valuation *Valuation `json:"valuation,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// CohortView is a subject together with its reference candidates.
type CohortView struct {
	Subject    model.Player              `json:"subject"`
	Candidates []model.ReferenceContract `json:"candidates"`
}
