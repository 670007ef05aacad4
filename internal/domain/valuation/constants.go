package valuation

// Near-zero guard and comparator bounds. These are calibration parameters of
// the pricing policy and must not be re-derived.
const (
	nearZero = 0.001 // |baseline| below this is treated as zero

	maxPctDiff = 500.0 // pct difference is clamped to ±maxPctDiff

	minRatio = 0.1  // standard category ratio floor
	maxRatio = 10.0 // standard category ratio ceiling

	nearZeroBetter = 1.1 // ratio when the baseline is ~0 and the subject beats it
	nearZeroWorse  = 0.9 // ratio when the baseline is ~0 and the subject trails it

	bipolarSlope    = 0.2 // ratio change per typical range of additive delta
	minBipolarRatio = 0.5
	maxBipolarRatio = 2.0
)

// AAV multiplier bounds: the adjustment never moves value more than -20%/+30%.
const (
	minAAVMultiplier = 0.80
	maxAAVMultiplier = 1.30
)

// Contract length policy.
const (
	olderLinear    = 0.08  // per year older than the cohort
	olderQuadratic = 0.02  // per squared year older than the cohort
	youngerLinear  = 0.02  // per year younger than the cohort
	youngerDamping = 0.008 // per squared year younger than the cohort

	minAgeMultiplier = 0.4
	maxAgeMultiplier = 1.35

	absoluteAgeThreshold  = 30.0 // flat penalty starts at this age
	absoluteAgePivot      = 29.0
	absoluteAgeSlope      = 0.45 // years removed per year past the pivot
	maxAbsoluteAgePenalty = 3.0

	performanceYearsSlope = 1.2 // extra years per unit of AAV multiplier above 1
	maxPerformanceYears   = 1.0

	softCapYears = 1.0 // never recommend more than this above the cohort average
	MinFairYears = 3.0 // floor on the recommended length
)
