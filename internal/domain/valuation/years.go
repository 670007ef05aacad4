package valuation

import (
	"math"

	"github.com/okian/fairdeal/internal/domain/model"
)

// YearsInput carries what the length adjustment depends on.
type YearsInput struct {
	SubjectAge    float64
	CohortAge     float64 // mean signing age; 0 when unknown
	BaselineYears float64
	AAVMultiplier float64
	Adjust        bool
}

// CohortSigningAge averages the signing age of active members whose age is
// known. It returns 0 when no member has one.
func CohortSigningAge(active []model.ReferenceContract) float64 {
	var sum float64
	var n int
	for _, r := range active {
		if age := finite(r.SigningAge()); age > 0 {
			sum += age
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AdjustYears computes the recommended length and its breakdown. Steps run
// in a fixed order: age multiplier, absolute age penalty, performance
// adjustment, soft cap, then rounding and floor. The clamps do not commute.
func AdjustYears(in YearsInput) (float64, model.YearsBreakdown) {
	var b model.YearsBreakdown
	age := finite(in.SubjectAge)
	baseline := finite(in.BaselineYears)

	if age > 0 && in.CohortAge > 0 {
		b.AgeDelta = age - in.CohortAge
	}
	older := math.Max(0, b.AgeDelta)
	younger := math.Max(0, -b.AgeDelta)

	b.AgePenalty = olderLinear*older + olderQuadratic*older*older
	b.YouthBenefit = youngerLinear*younger - youngerDamping*younger*younger
	b.AgeMultiplier = clamp(1-b.AgePenalty+b.YouthBenefit, minAgeMultiplier, maxAgeMultiplier)

	if age >= absoluteAgeThreshold {
		b.AbsoluteAgePenalty = math.Min(maxAbsoluteAgePenalty, (age-absoluteAgePivot)*absoluteAgeSlope)
	}
	b.PerformanceAdjustment = clamp((finite(in.AAVMultiplier)-1)*performanceYearsSlope, -maxPerformanceYears, maxPerformanceYears)

	if in.Adjust {
		b.TotalAdjustment = (baseline*b.AgeMultiplier - baseline) - b.AbsoluteAgePenalty + b.PerformanceAdjustment
	}
	b.ProposedYears = baseline + b.TotalAdjustment
	b.CappedYears = math.Min(baseline+softCapYears, b.ProposedYears)

	return math.Max(MinFairYears, roundHalf(b.CappedYears)), b
}

// roundHalf rounds to the nearest half year, ties toward +Inf.
func roundHalf(v float64) float64 {
	return math.Floor(v*2+0.5) / 2
}
