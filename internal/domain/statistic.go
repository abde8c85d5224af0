package domain

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Statistic is the central-tendency reducer applied when several water
// observations share a date.
type Statistic string

const (
	StatisticMedian Statistic = "median"
	StatisticMean   Statistic = "mean"
)

// ParseStatistic validates a user-supplied statistic name.
func ParseStatistic(s string) (Statistic, error) {
	switch Statistic(s) {
	case StatisticMedian:
		return StatisticMedian, nil
	case StatisticMean:
		return StatisticMean, nil
	default:
		return "", fmt.Errorf("unknown aggregation statistic %q (want %q or %q)", s, StatisticMedian, StatisticMean)
	}
}

// Reduce collapses a group of same-day measurements into one value.
// An empty group reduces to zero.
func (s Statistic) Reduce(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	switch s {
	case StatisticMean:
		return stat.Mean(values, nil)
	default:
		return median(values)
	}
}

// median returns the midpoint median (average of the two central values for
// even-sized input). Input is not modified.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
