package service

import (
	"math"

	"synergy-engine/domain"
)

// roundTo2Decimals rounds a float64 to two decimal places. Magnitudes
// beyond 2^52 carry no fractional digits and are returned as is.
func roundTo2Decimals(value float64) float64 {
	if math.Abs(value) >= 1<<52 || math.IsNaN(value) {
		return value
	}
	return math.Round(value*100) / 100
}

// Analyze computes containment and the derived statistics of target within
// the range spanned by a and b. Bounds may be given in either order.
// InsightText is left empty. The bounds must span at most math.MaxInt64,
// which ParseInput guarantees.
func Analyze(target float64, a, b int64) domain.AnalysisResult {
	low, high := min(a, b), max(a, b)

	var progress float64
	if high != low {
		progress = roundTo2Decimals((target - float64(low)) / (float64(high) - float64(low)) * 100)
	}

	return domain.AnalysisResult{
		Target:          target,
		BoundLow:        low,
		BoundHigh:       high,
		IsContained:     target >= float64(low) && target <= float64(high),
		ProgressPercent: progress,
		Range:           high - low,
		IsIntegerValued: !math.IsInf(target, 0) && target == math.Trunc(target),
	}
}
