// Package echarts renders dashboard snapshots as interactive HTML pages.
// It is the presentation collaborator of the core pipelines: it consumes a
// Snapshot and the color scales the core exposes, and owns nothing but
// rendering concerns.
package echarts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/explorer"
)

const noDataMessage = "No data available for the selected date range."

// Renderer builds the dashboard page from a snapshot.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderDashboard writes the full dashboard (trend chart plus station map,
// or an explicit no-data chart) as a standalone HTML page.
func (r *Renderer) RenderDashboard(w io.Writer, snap explorer.Snapshot) error {
	page := components.NewPage()
	page.PageTitle = "Toulouse water levels and rainfall"
	page.AddCharts(r.trendChart(snap), r.stationMap(snap))
	return page.Render(w)
}

// trendChart overlays the water-height line with a scatter whose points are
// colored by normalized acceleration through the diverging trend scale.
func (r *Renderer) trendChart(snap explorer.Snapshot) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Water height colored by acceleration",
			Subtitle: snap.Window.Label(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		// The scatter points carry normalized acceleration as their last
		// value dimension, which the visual map picks up by default.
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(snap.TrendScale.Min),
			Max:        float32(snap.TrendScale.Max),
			InRange:    &opts.VisualMapInRange{Color: scaleColors(snap.TrendScale)},
			Text:       []string{"Strongest acceleration", "Strongest deceleration"},
		}),
	)

	dates := make([]string, len(snap.Trend))
	heights := make([]opts.LineData, len(snap.Trend))
	points := make([]opts.ScatterData, len(snap.Trend))
	for i, agg := range snap.Trend {
		d := agg.Date.Format(domain.DateLayout)
		dates[i] = d
		heights[i] = opts.LineData{Value: agg.WaterHeight}
		points[i] = opts.ScatterData{
			Value:      []interface{}{d, agg.WaterHeight, agg.NormalizedAcceleration},
			SymbolSize: 7,
		}
	}

	line.SetXAxis(dates).AddSeries("water height (mm)", heights)

	scatter := charts.NewScatter()
	scatter.SetXAxis(dates).AddSeries("acceleration", points)
	line.Overlap(scatter)

	return line
}

// stationMap plots the retained stations on a geographic scatter, colored by
// normalized rainfall variability. An empty retained set renders an explicit
// no-data chart instead of faulting.
func (r *Renderer) stationMap(snap explorer.Snapshot) components.Charter {
	geo := charts.NewGeo()

	if len(snap.Stations) == 0 {
		geo.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    fmt.Sprintf("Top %d rainfall stations (%s)", snap.TopN, snap.Selected.Label()),
				Subtitle: noDataMessage,
			}),
		)
		return geo
	}

	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "780px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Top %d rainfall stations (%s)", snap.TopN, snap.Selected.Label()),
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(snap.MapScale.Min),
			Max:        float32(snap.MapScale.Max),
			InRange:    &opts.VisualMapInRange{Color: scaleColors(snap.MapScale)},
			Text:       []string{"Highest variation", "Lowest variation"},
		}),
	)

	points := make([]opts.GeoData, len(snap.Stations))
	for i, s := range snap.Stations {
		points[i] = opts.GeoData{
			Name: fmt.Sprintf("%s: %.1f mm total, %.1f mm std", s.Station, s.PrecipitationTotal, s.PrecipitationVariability),
			Value: []float64{s.Lon, s.Lat, s.VariationNorm},
		}
	}

	geo.AddSeries("stations", types.ChartScatter, points,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(false),
			Formatter: "{b}",
		}),
	)

	return geo
}

// scaleColors flattens a core color scale into the stop colors, in order.
func scaleColors(scale domain.ColorScale) []string {
	colors := make([]string, len(scale.Stops))
	for i, stop := range scale.Stops {
		colors[i] = stop.Color
	}
	return colors
}
