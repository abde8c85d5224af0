package domain

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Top-N bounds for the station ranking. Requests outside the range are
// clamped rather than rejected.
const (
	MinTopStations     = 1
	MaxTopStations     = 100
	DefaultTopStations = 50
)

// RainfallOptions tunes the rainfall aggregation.
type RainfallOptions struct {
	// ZeroFillMissingDays treats window days without a record for a station
	// as explicit zero measurements when computing variability. The default
	// sums and spreads over present records only.
	ZeroFillMissingDays bool
}

// SummarizeRainfall aggregates rainfall observations inside the interval
// into per-station summaries, ranked descending by total precipitation and
// truncated to the top N stations. Ties keep the input order, so the ranking
// is deterministic for identical inputs.
//
// A window with no matching observations yields an empty summary; that is a
// valid terminal state, not an error.
func SummarizeRainfall(obs []RainObservation, interval DateInterval, topN int, opts RainfallOptions) []StationSummary {
	topN = clampTopN(topN)

	type group struct {
		summary StationSummary
		samples []float64
	}

	var order []string
	groups := make(map[string]*group)
	for _, o := range obs {
		if !interval.Contains(o.Date) {
			continue
		}
		g, ok := groups[o.Station]
		if !ok {
			g = &group{summary: StationSummary{Station: o.Station, Lat: o.Lat, Lon: o.Lon}}
			groups[o.Station] = g
			order = append(order, o.Station)
		}
		g.summary.PrecipitationTotal += o.Precipitation
		g.samples = append(g.samples, o.Precipitation)
	}

	summaries := make([]StationSummary, 0, len(groups))
	for _, station := range order {
		g := groups[station]
		g.summary.PrecipitationVariability = variability(g.samples, interval, opts)
		summaries = append(summaries, g.summary)
	}

	// Stable sort keeps input order on equal totals.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].PrecipitationTotal > summaries[j].PrecipitationTotal
	})
	if len(summaries) > topN {
		summaries = summaries[:topN]
	}

	normalizeVariation(summaries)
	return summaries
}

// variability computes the sample standard deviation of a station's window
// samples. Fewer than two samples have no spread and yield zero. With
// zero-filling enabled, unobserved days inside the window count as zero
// measurements.
func variability(samples []float64, interval DateInterval, opts RainfallOptions) float64 {
	if opts.ZeroFillMissingDays {
		if missing := interval.Days() - len(samples); missing > 0 {
			samples = append(append([]float64{}, samples...), make([]float64, missing)...)
		}
	}
	if len(samples) < 2 {
		return 0
	}
	return stat.StdDev(samples, nil)
}

// normalizeVariation rescales variability to [0, 1] across the retained set.
// The denominator is scoped to the ranked top-N only; a retained set with no
// variation normalizes to all zeros.
func normalizeVariation(summaries []StationSummary) {
	var maxVar float64
	for i := range summaries {
		if summaries[i].PrecipitationVariability > maxVar {
			maxVar = summaries[i].PrecipitationVariability
		}
	}
	if maxVar == 0 {
		return
	}
	for i := range summaries {
		summaries[i].VariationNorm = summaries[i].PrecipitationVariability / maxVar
	}
}

func clampTopN(n int) int {
	switch {
	case n < MinTopStations:
		return DefaultTopStations
	case n > MaxTopStations:
		return MaxTopStations
	default:
		return n
	}
}
