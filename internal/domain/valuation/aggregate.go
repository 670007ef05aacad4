package valuation

import "github.com/okian/fairdeal/internal/domain/model"

// Aggregation is the combined AAV adjustment.
type Aggregation struct {
	TotalWeight float64
	Raw         float64 // weighted mean ratio, before clamping
	Multiplier  float64 // applied multiplier, within [0.80, 1.30]
	FairAAV     float64
}

// Aggregate combines per-category ratios into one bounded multiplier and
// fills each comparison's Contribution and AAVImpact in place. With adjustAAV
// off, or no active weight, the multiplier is 1 and impacts are zero.
func Aggregate(comps []model.CategoryComparison, baselineAAV float64, adjustAAV bool) Aggregation {
	var weightedSum, totalWeight float64
	for _, c := range comps {
		weightedSum += c.Ratio * c.Weight
		totalWeight += c.Weight
	}

	agg := Aggregation{TotalWeight: totalWeight, Raw: 1, Multiplier: 1, FairAAV: baselineAAV}
	if totalWeight == 0 {
		return agg
	}
	agg.Raw = weightedSum / totalWeight

	if !adjustAAV {
		return agg
	}
	for i := range comps {
		comps[i].Contribution = (comps[i].Ratio - 1) * comps[i].Weight
		comps[i].AAVImpact = baselineAAV * comps[i].Contribution / totalWeight
	}
	agg.Multiplier = clamp(agg.Raw, minAAVMultiplier, maxAAVMultiplier)
	agg.FairAAV = baselineAAV * agg.Multiplier
	return agg
}
