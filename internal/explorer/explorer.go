// Package explorer orchestrates one dashboard recomputation pass: load the
// datasets, derive the water trend, resolve the brush selection, and
// summarize rainfall for the selected window.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/vroger11/hackaviz-2025/internal/dataset"
	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/observability"
)

// Params carries the widget state of one user interaction. Zero values fall
// back to the configured defaults: an unset Window means the full available
// range, an unset Statistic the default reducer, a zero TopN the default
// station count.
type Params struct {
	Window    domain.DateInterval
	Selection *domain.BrushSelection
	Statistic domain.Statistic
	TopN      int
}

// Snapshot is the complete derived state handed to the presentation layer.
type Snapshot struct {
	Trend    []domain.DailyAggregate `json:"trend"`
	Stations []domain.StationSummary `json:"stations"`

	Window   domain.DateInterval `json:"window"`   // trend chart window
	Selected domain.DateInterval `json:"selected"` // resolved rainfall window

	TrendScale domain.ColorScale `json:"trend_scale"`
	MapScale   domain.ColorScale `json:"map_scale"`

	Statistic  domain.Statistic `json:"statistic"`
	TopN       int              `json:"top_n"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Options fixes the explorer's dataset locations and widget defaults.
type Options struct {
	WaterDataset        string
	RainDataset         string
	DefaultStatistic    domain.Statistic
	DefaultTopN         int
	ZeroFillMissingDays bool
}

// Explorer recomputes dashboard snapshots on demand. Each View call is one
// full synchronous pass; the only shared state is the memoizing dataset
// source and a readiness flag.
type Explorer struct {
	source  dataset.Source
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates an Explorer on top of a (typically cached) dataset source.
func New(source dataset.Source, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Explorer {
	if opts.DefaultStatistic == "" {
		opts.DefaultStatistic = domain.StatisticMedian
	}
	if opts.DefaultTopN == 0 {
		opts.DefaultTopN = domain.DefaultTopStations
	}
	return &Explorer{source: source, opts: opts, logger: logger, metrics: metrics}
}

// CheckReadiness returns nil once both datasets have been loaded at least
// once, or an error describing why the service is not yet ready.
func (e *Explorer) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("datasets have not been loaded yet")
	}
	return nil
}

// Warmup loads both datasets so the first interaction does not pay the
// parse cost. A failed warmup is fatal: the dashboard has no content.
func (e *Explorer) Warmup(ctx context.Context) error {
	if _, _, err := e.load(ctx); err != nil {
		return err
	}
	return nil
}

// View executes one recomputation pass for the given widget state.
func (e *Explorer) View(ctx context.Context, p Params) (Snapshot, error) {
	start := time.Now()

	water, rain, err := e.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	window := p.Window
	if window.Start.IsZero() && window.End.IsZero() {
		window = fullWaterRange(water)
	}
	statistic := p.Statistic
	if statistic == "" {
		statistic = e.opts.DefaultStatistic
	}
	topN := p.TopN
	if topN == 0 {
		topN = e.opts.DefaultTopN
	}

	trendStart := time.Now()
	trend := domain.DeriveWaterTrend(water, window, statistic)
	e.metrics.StageDuration.WithLabelValues("trend").Observe(time.Since(trendStart).Seconds())

	selected := domain.ResolveInterval(p.Selection, window)

	rainStart := time.Now()
	stations := domain.SummarizeRainfall(rain, selected, topN, domain.RainfallOptions{
		ZeroFillMissingDays: e.opts.ZeroFillMissingDays,
	})
	e.metrics.StageDuration.WithLabelValues("rainfall").Observe(time.Since(rainStart).Seconds())

	if len(stations) == 0 {
		e.metrics.EmptySelections.Inc()
	}
	e.metrics.Recomputes.Inc()
	e.metrics.RecomputeDuration.Observe(time.Since(start).Seconds())

	e.logger.DebugContext(ctx, "snapshot recomputed",
		"window", window.Label(),
		"selected", selected.Label(),
		"trend_points", len(trend),
		"stations", len(stations),
	)

	return Snapshot{
		Trend:      trend,
		Stations:   stations,
		Window:     window,
		Selected:   selected,
		TrendScale: domain.TrendColorScale(),
		MapScale:   domain.VariationColorScale(),
		Statistic:  statistic,
		TopN:       topN,
		ComputedAt: clock.Now(),
	}, nil
}

func (e *Explorer) load(ctx context.Context) ([]domain.WaterObservation, []domain.RainObservation, error) {
	water, err := e.source.LoadWater(ctx, e.opts.WaterDataset)
	if err != nil {
		return nil, nil, fmt.Errorf("explorer: %w", err)
	}
	rain, err := e.source.LoadRain(ctx, e.opts.RainDataset)
	if err != nil {
		return nil, nil, fmt.Errorf("explorer: %w", err)
	}

	e.ready.Store(true)
	e.metrics.ServiceReady.Set(1)
	return water, rain, nil
}

// fullWaterRange spans the earliest to latest water observation; an empty
// dataset collapses to a zero interval, which downstream stages handle as
// an empty window.
func fullWaterRange(water []domain.WaterObservation) domain.DateInterval {
	if len(water) == 0 {
		return domain.DateInterval{}
	}
	min, max := water[0].Date, water[0].Date
	for _, o := range water[1:] {
		if o.Date.Before(min) {
			min = o.Date
		}
		if o.Date.After(max) {
			max = o.Date
		}
	}
	return domain.DateInterval{Start: min, End: max}
}
