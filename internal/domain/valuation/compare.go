package valuation

import (
	"math"

	"github.com/okian/fairdeal/internal/domain/category"
	"github.com/okian/fairdeal/internal/domain/model"
)

// PctDiff returns the percent difference of subject over cohort, bounded to
// ±500. A near-zero cohort value falls back to the scaled raw delta.
func PctDiff(subject, cohort float64) float64 {
	delta := subject - cohort
	if math.Abs(cohort) < nearZero {
		return sign(delta) * math.Min(maxPctDiff, math.Abs(delta*100))
	}
	return clamp(delta/math.Abs(cohort)*100, -maxPctDiff, maxPctDiff)
}

// Ratio returns the subject/cohort performance ratio for cat.
//
// Bipolar categories convert the additive delta into a ratio around 1 using
// the category's typical range, bounded to [0.5, 2.0]. Standard categories
// use s/c (or c/s when lower is better) bounded to [0.1, 10], with a fixed
// 1.1/0.9 nudge when the denominator is near zero.
func Ratio(cat category.Category, subject, cohort float64) float64 {
	if cat.Bipolar {
		delta := subject - cohort
		return clamp(1+(delta/cat.Range())*bipolarSlope, minBipolarRatio, maxBipolarRatio)
	}
	num, den := subject, cohort
	if !cat.HigherIsBetter {
		num, den = cohort, subject
	}
	if math.Abs(den) < nearZero {
		switch {
		case num > 0:
			return nearZeroBetter
		case num < 0:
			return nearZeroWorse
		default:
			return 1
		}
	}
	return clamp(num/den, minRatio, maxRatio)
}

// CohortAverage returns the mean pre-signing value of key over active.
func CohortAverage(active []model.ReferenceContract, key string) float64 {
	if len(active) == 0 {
		return 0
	}
	var sum float64
	for _, r := range active {
		sum += finite(r.Performance.Value(key))
	}
	return sum / float64(len(active))
}

// Compare builds the per-category comparison for each category in cats.
// weights overrides the registry weight; negative weights read as 0.
func Compare(cats []category.Category, weights map[string]float64, subject model.PerformanceRecord, active []model.ReferenceContract) []model.CategoryComparison {
	out := make([]model.CategoryComparison, 0, len(cats))
	for _, cat := range cats {
		w := cat.Weight
		if override, ok := weights[cat.Key]; ok {
			w = override
		}
		w = math.Max(0, finite(w))

		s := finite(subject.Value(cat.Key))
		c := CohortAverage(active, cat.Key)
		out = append(out, model.CategoryComparison{
			Key:          cat.Key,
			Label:        cat.Label,
			Scale:        cat.Scale,
			Weight:       w,
			SubjectValue: s,
			CohortValue:  c,
			Delta:        s - c,
			PctDiff:      PctDiff(s, c),
			Ratio:        Ratio(cat, s, c),
		})
	}
	return out
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
