package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const daySeconds = 86400.0

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fullRange() DateInterval {
	return DateInterval{Start: date(2000, time.January, 1), End: date(2030, time.January, 1)}
}

func TestDeriveWaterTrend_EndToEnd(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.May, 1), Height: 10},
		{Date: date(2024, time.May, 2), Height: 12},
		{Date: date(2024, time.May, 3), Height: 11},
	}

	trend := DeriveWaterTrend(obs, fullRange(), StatisticMedian)
	require.Len(t, trend, 3)

	assert.Equal(t, []float64{0, 2, -1}, deltas(trend))
	assert.Equal(t, []float64{0, daySeconds, daySeconds}, deltaSeconds(trend))

	assert.Zero(t, trend[0].Velocity)
	assert.InDelta(t, 2/daySeconds, trend[1].Velocity, 1e-12)
	assert.InDelta(t, -1/daySeconds, trend[2].Velocity, 1e-12)

	// Velocity is undefined before the second sample, so the first two
	// accelerations are zero; the third carries the -3 mm/day² swing.
	assert.Zero(t, trend[0].Acceleration)
	assert.Zero(t, trend[1].Acceleration)
	assert.InDelta(t, -3/(daySeconds*daySeconds), trend[2].Acceleration, 1e-15)

	assert.Equal(t, []float64{0, 0, -1}, normalized(trend))
}

func TestDeriveWaterTrend_FirstElementIsZeroed(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.May, 10), Height: 432},
		{Date: date(2024, time.May, 11), Height: 389},
	}

	trend := DeriveWaterTrend(obs, fullRange(), StatisticMedian)
	require.NotEmpty(t, trend)

	first := trend[0]
	assert.Zero(t, first.DeltaHeight)
	assert.Zero(t, first.DeltaSeconds)
	assert.Zero(t, first.Velocity)
	assert.Zero(t, first.Acceleration)
}

func TestDeriveWaterTrend_GroupsSameDayObservations(t *testing.T) {
	day := date(2024, time.May, 1)
	obs := []WaterObservation{
		{Date: day, Height: 10},
		{Date: day, Height: 20},
		{Date: day, Height: 90},
	}

	t.Run("median", func(t *testing.T) {
		trend := DeriveWaterTrend(obs, fullRange(), StatisticMedian)
		require.Len(t, trend, 1)
		assert.Equal(t, 20.0, trend[0].WaterHeight)
	})

	t.Run("mean", func(t *testing.T) {
		trend := DeriveWaterTrend(obs, fullRange(), StatisticMean)
		require.Len(t, trend, 1)
		assert.Equal(t, 40.0, trend[0].WaterHeight)
	})
}

func TestDeriveWaterTrend_FiltersToInterval(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.April, 30), Height: 1},
		{Date: date(2024, time.May, 1), Height: 2},
		{Date: date(2024, time.May, 2), Height: 3},
		{Date: date(2024, time.May, 3), Height: 4},
	}
	interval := DateInterval{Start: date(2024, time.May, 1), End: date(2024, time.May, 2)}

	trend := DeriveWaterTrend(obs, interval, StatisticMedian)

	require.Len(t, trend, 2)
	assert.Equal(t, date(2024, time.May, 1), trend[0].Date)
	assert.Equal(t, date(2024, time.May, 2), trend[1].Date)
}

func TestDeriveWaterTrend_SortsUnorderedInput(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.May, 3), Height: 30},
		{Date: date(2024, time.May, 1), Height: 10},
		{Date: date(2024, time.May, 2), Height: 20},
	}

	trend := DeriveWaterTrend(obs, fullRange(), StatisticMedian)

	require.Len(t, trend, 3)
	assert.True(t, trend[0].Date.Before(trend[1].Date))
	assert.True(t, trend[1].Date.Before(trend[2].Date))
	assert.Equal(t, 10.0, trend[0].WaterHeight)
}

func TestDeriveWaterTrend_EmptyWindow(t *testing.T) {
	obs := []WaterObservation{{Date: date(2024, time.May, 1), Height: 10}}
	interval := DateInterval{Start: date(2023, time.January, 1), End: date(2023, time.February, 1)}

	trend := DeriveWaterTrend(obs, interval, StatisticMedian)

	assert.Empty(t, trend)
	assert.NotNil(t, trend)
}

func TestDeriveWaterTrend_FlatSeriesNormalizesToZero(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.May, 1), Height: 100},
		{Date: date(2024, time.May, 2), Height: 100},
		{Date: date(2024, time.May, 3), Height: 100},
	}

	trend := DeriveWaterTrend(obs, fullRange(), StatisticMedian)

	for i, agg := range trend {
		assert.Zero(t, agg.NormalizedAcceleration, "element %d", i)
	}
}

func TestDeriveWaterTrend_NormalizationBounds(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.May, 1), Height: 100},
		{Date: date(2024, time.May, 2), Height: 150},
		{Date: date(2024, time.May, 3), Height: 120},
		{Date: date(2024, time.May, 5), Height: 400},
		{Date: date(2024, time.May, 9), Height: 90},
	}

	trend := DeriveWaterTrend(obs, fullRange(), StatisticMedian)
	require.NotEmpty(t, trend)

	var maxAbsAccel, maxAbsNorm float64
	argMax := -1
	for i, agg := range trend {
		if abs := math.Abs(agg.Acceleration); abs > maxAbsAccel {
			maxAbsAccel = abs
			argMax = i
		}
		if abs := math.Abs(agg.NormalizedAcceleration); abs > maxAbsNorm {
			maxAbsNorm = abs
		}
	}

	require.GreaterOrEqual(t, argMax, 0)
	assert.InDelta(t, 1.0, maxAbsNorm, 1e-12)
	assert.InDelta(t, 1.0, math.Abs(trend[argMax].NormalizedAcceleration), 1e-12)
}

func TestDeriveWaterTrend_Idempotent(t *testing.T) {
	obs := []WaterObservation{
		{Date: date(2024, time.May, 2), Height: 12},
		{Date: date(2024, time.May, 1), Height: 10},
		{Date: date(2024, time.May, 1), Height: 14},
		{Date: date(2024, time.May, 3), Height: 11},
	}

	first := DeriveWaterTrend(obs, fullRange(), StatisticMedian)
	second := DeriveWaterTrend(obs, fullRange(), StatisticMedian)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		expected float64
	}{
		{"plain division", 6, 3, 2},
		{"zero divisor", 5, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"nan numerator", math.NaN(), 2, 0},
		{"infinite numerator", math.Inf(1), 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, safeDivide(tt.num, tt.den))
		})
	}
}

func deltas(trend []DailyAggregate) []float64 {
	out := make([]float64, len(trend))
	for i, agg := range trend {
		out[i] = agg.DeltaHeight
	}
	return out
}

func deltaSeconds(trend []DailyAggregate) []float64 {
	out := make([]float64, len(trend))
	for i, agg := range trend {
		out[i] = agg.DeltaSeconds
	}
	return out
}

func normalized(trend []DailyAggregate) []float64 {
	out := make([]float64, len(trend))
	for i, agg := range trend {
		out[i] = agg.NormalizedAcceleration
	}
	return out
}
