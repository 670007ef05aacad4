package valuation

import (
	"math"

	"github.com/okian/fairdeal/internal/domain/model"
)

// Baseline is the unadjusted cohort average.
type Baseline struct {
	AAV   float64 // mean inflation-adjusted annual value
	Years float64 // mean contract length
	Size  int     // active members averaged
}

// AdjustedValue present-values annualValue signed in signedYear using a
// compounding annual rate. Negative rates clamp to 0 and contracts signed
// after presentYear are not discounted.
//
//	adjusted = annualValue × (1 + rate)^max(0, presentYear − signedYear)
func AdjustedValue(annualValue, inflationPercent float64, signedYear, presentYear int) float64 {
	rate := math.Max(0, finite(inflationPercent)) / 100
	elapsed := presentYear - signedYear
	if elapsed < 0 {
		elapsed = 0
	}
	return annualValue * math.Pow(1+rate, float64(elapsed))
}

// NormalizeBaseline averages the active members' adjusted value and length.
// An empty cohort yields the zero Baseline.
func NormalizeBaseline(active []model.ReferenceContract, inflationPercent float64, presentYear int) Baseline {
	if len(active) == 0 {
		return Baseline{}
	}
	var value, years float64
	for _, r := range active {
		value += AdjustedValue(finite(r.AnnualValue), inflationPercent, r.SignedYear, presentYear)
		years += finite(r.ContractYears)
	}
	n := float64(len(active))
	return Baseline{AAV: value / n, Years: years / n, Size: len(active)}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
