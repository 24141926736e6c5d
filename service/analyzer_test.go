package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_OutsideFarBelow(t *testing.T) {
	r := Analyze(3.1415, 47000, 53000)

	assert.Equal(t, int64(47000), r.BoundLow)
	assert.Equal(t, int64(53000), r.BoundHigh)
	assert.False(t, r.IsContained)
	assert.Equal(t, int64(6000), r.Range)
	assert.False(t, r.IsIntegerValued)
	assert.Equal(t, -783.28, r.ProgressPercent)
	assert.Empty(t, r.InsightText)
}

func TestAnalyze_Midpoint(t *testing.T) {
	r := Analyze(50, 0, 100)

	assert.True(t, r.IsContained)
	assert.Equal(t, 50.0, r.ProgressPercent)
	assert.Equal(t, int64(100), r.Range)
	assert.True(t, r.IsIntegerValued)
}

func TestAnalyze_DegenerateRange(t *testing.T) {
	r := Analyze(10, 10, 10)

	assert.Equal(t, 0.0, r.ProgressPercent)
	assert.Equal(t, int64(0), r.Range)
	assert.True(t, r.IsContained)

	for _, target := range []float64{-1e9, 0, 9.99, 10.5, 1e12} {
		assert.Equal(t, 0.0, Analyze(target, 7, 7).ProgressPercent, "target %v", target)
	}
}

func TestAnalyze_BoundOrderIndependent(t *testing.T) {
	cases := []struct {
		target float64
		a, b   int64
	}{
		{5, 10, 0},
		{-3.5, -1, -10},
		{0, math.MaxInt32, math.MinInt32},
		{42.25, 100, 100},
	}

	for _, c := range cases {
		forward := Analyze(c.target, c.a, c.b)
		reverse := Analyze(c.target, c.b, c.a)
		assert.Equal(t, forward, reverse)
		assert.LessOrEqual(t, forward.BoundLow, forward.BoundHigh)
		assert.Equal(t, forward.BoundHigh-forward.BoundLow, forward.Range)
		assert.GreaterOrEqual(t, forward.Range, int64(0))
	}
}

func TestAnalyze_InclusiveBounds(t *testing.T) {
	assert.True(t, Analyze(0, 0, 100).IsContained)
	assert.True(t, Analyze(100, 0, 100).IsContained)
	assert.False(t, Analyze(-0.0001, 0, 100).IsContained)
	assert.False(t, Analyze(100.0001, 0, 100).IsContained)

	assert.Equal(t, 0.0, Analyze(0, 0, 100).ProgressPercent)
	assert.Equal(t, 100.0, Analyze(100, 100, 0).ProgressPercent)
}

func TestAnalyze_ProgressNotClamped(t *testing.T) {
	assert.Equal(t, 150.0, Analyze(15, 0, 10).ProgressPercent)
	assert.Equal(t, -50.0, Analyze(-5, 0, 10).ProgressPercent)
	assert.Equal(t, 33.33, Analyze(1, 0, 3).ProgressPercent)
}

func TestAnalyze_IntegerValued(t *testing.T) {
	assert.True(t, Analyze(5.0, 0, 1).IsIntegerValued)
	assert.False(t, Analyze(5.5, 0, 1).IsIntegerValued)
	assert.True(t, Analyze(-3.0, 0, 1).IsIntegerValued)
	assert.True(t, Analyze(0, 0, 1).IsIntegerValued)
	assert.False(t, Analyze(math.Inf(1), 0, 1).IsIntegerValued)
}

func TestAnalyze_Idempotent(t *testing.T) {
	first := Analyze(3.1415, 53000, 47000)
	second := Analyze(3.1415, 53000, 47000)

	assert.Equal(t, first, second)
	assert.Equal(t, math.Float64bits(first.ProgressPercent), math.Float64bits(second.ProgressPercent))
}

func TestAnalyze_Int64Extremes(t *testing.T) {
	r := Analyze(0, math.MinInt64, -1)
	assert.Equal(t, int64(math.MaxInt64), r.Range)
	assert.False(t, r.IsContained)
	assert.Equal(t, 100.0, r.ProgressPercent)

	r = Analyze(0, math.MaxInt64, 0)
	assert.Equal(t, int64(math.MaxInt64), r.Range)
	assert.True(t, r.IsContained)
	assert.Equal(t, 0.0, r.ProgressPercent)

	r = Analyze(-4e18, -4611686018427387904, 4611686018427387903)
	assert.GreaterOrEqual(t, r.Range, int64(0))
	assert.True(t, r.IsContained)
	assert.InDelta(t, 6.63, r.ProgressPercent, 0.01)
}

func TestAnalyze_HugeTargetOverflowsProgress(t *testing.T) {
	r := Analyze(1e308, 0, 1)
	assert.True(t, math.IsInf(r.ProgressPercent, 1))
	assert.False(t, r.IsContained)

	r = Analyze(-1e308, 0, 1)
	assert.True(t, math.IsInf(r.ProgressPercent, -1))
}
