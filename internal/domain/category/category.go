// Package category holds the fixed registry of performance categories a
// valuation compares: their weights, directionality and display scale.
package category

import (
	"fmt"
	"math"
)

// Scale describes how a category value is displayed.
type Scale string

// Supported display scales.
const (
	ScaleDecimal Scale = "decimal"
	ScalePercent Scale = "percent"
	ScaleRate    Scale = "rate"
	ScaleMPH     Scale = "mph"
	ScaleRuns    Scale = "runs"
	ScaleCount   Scale = "count"
)

// DefaultTypicalRange is the expected spread of a bipolar category.
const DefaultTypicalRange = 10.0

// Category is a named performance metric. Bipolar categories can be
// legitimately negative (defensive or baserunning runs) and are compared
// additively against TypicalRange.
type Category struct {
	Key            string  `json:"key"`
	Label          string  `json:"label"`
	HigherIsBetter bool    `json:"higher_is_better"`
	Bipolar        bool    `json:"bipolar"`
	TypicalRange   float64 `json:"typical_range,omitempty"`
	Weight         float64 `json:"weight"`
	Scale          Scale   `json:"scale"`
}

// Range returns the typical spread used for bipolar comparison.
func (c Category) Range() float64 {
	if c.TypicalRange > 0 {
		return c.TypicalRange
	}
	return DefaultTypicalRange
}

// Format renders v the way the category's scale is displayed.
func (s Scale) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	switch s {
	case ScalePercent:
		return fmt.Sprintf("%.1f%%", v)
	case ScaleRate:
		return fmt.Sprintf("%.2f", v)
	case ScaleMPH:
		return fmt.Sprintf("%.1f mph", v)
	case ScaleRuns:
		return fmt.Sprintf("%+.1f", v)
	case ScaleCount:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}
