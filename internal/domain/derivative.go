package domain

import (
	"math"
	"sort"
	"time"
)

// DeriveWaterTrend converts raw water observations inside the interval into
// an ordered daily trend with first and second time-derivatives and a
// normalized acceleration suitable for color mapping.
//
// Same-day observations are reduced with the given statistic. The result is
// ordered ascending by date; ordering is load-bearing for the differencing.
// An interval with no matching observations yields an empty series.
func DeriveWaterTrend(obs []WaterObservation, interval DateInterval, statistic Statistic) []DailyAggregate {
	byDate := make(map[int64][]float64)
	for _, o := range obs {
		if !interval.Contains(o.Date) {
			continue
		}
		key := o.Date.Unix()
		byDate[key] = append(byDate[key], o.Height)
	}
	if len(byDate) == 0 {
		return []DailyAggregate{}
	}

	keys := make([]int64, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	trend := make([]DailyAggregate, len(keys))
	for i, k := range keys {
		trend[i] = DailyAggregate{
			Date:        time.Unix(k, 0).UTC(),
			WaterHeight: statistic.Reduce(byDate[k]),
		}
	}

	differentiate(trend)
	normalizeAcceleration(trend)
	return trend
}

// differentiate fills the delta, velocity, and acceleration columns in
// place. The first element keeps its zero values: with no prior sample its
// derivatives are defined as zero. Velocity itself is undefined before the
// second sample, so acceleration only becomes meaningful from the third
// element on; earlier values stay zero. Divisors are checked before
// dividing, so coincident timestamps degrade to zero instead of faulting.
func differentiate(trend []DailyAggregate) {
	for i := 1; i < len(trend); i++ {
		cur, prev := &trend[i], &trend[i-1]

		cur.DeltaHeight = cur.WaterHeight - prev.WaterHeight
		cur.DeltaSeconds = cur.Date.Sub(prev.Date).Seconds()
		cur.Velocity = safeDivide(cur.DeltaHeight, cur.DeltaSeconds)
		if i > 1 {
			cur.Acceleration = safeDivide(cur.Velocity-prev.Velocity, cur.DeltaSeconds)
		}
	}
}

// normalizeAcceleration rescales acceleration to [-1, 1] by the series
// maximum absolute value. A flat series (max 0) normalizes to all zeros.
func normalizeAcceleration(trend []DailyAggregate) {
	var maxAbs float64
	for i := range trend {
		if abs := math.Abs(trend[i].Acceleration); abs > maxAbs {
			maxAbs = abs
		}
	}
	for i := range trend {
		trend[i].NormalizedAcceleration = safeDivide(trend[i].Acceleration, maxAbs)
	}
}

// safeDivide returns num/den, degrading to zero on a zero divisor or a
// non-finite quotient.
func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}
