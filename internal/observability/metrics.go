package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// exploration service.
type Metrics struct {
	// Dataset loading.
	DatasetLoadDuration *prometheus.HistogramVec // label: dataset={water,rain}
	DatasetRecords      *prometheus.GaugeVec     // label: dataset={water,rain}
	DatasetCache        *prometheus.CounterVec   // labels: dataset={water,rain}, result={hit,miss}
	DroppedRecords      *prometheus.CounterVec   // labels: dataset={water,rain}, reason={fault,malformed}

	// Dashboard recomputation.
	Recomputes        prometheus.Counter
	RecomputeDuration prometheus.Histogram
	StageDuration     *prometheus.HistogramVec // label: stage={trend,rainfall}
	EmptySelections   prometheus.Counter

	ServiceReady prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.DatasetLoadDuration,
		m.DatasetRecords,
		m.DatasetCache,
		m.DroppedRecords,
		m.Recomputes,
		m.RecomputeDuration,
		m.StageDuration,
		m.EmptySelections,
		m.ServiceReady,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "water_explorer",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent parsing a dataset from disk.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"dataset"}),
		DatasetRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "water_explorer",
			Name:      "dataset_records",
			Help:      "Number of valid records in the loaded dataset.",
		}, []string{"dataset"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_explorer",
			Name:      "dataset_cache_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"dataset", "result"}),
		DroppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_explorer",
			Name:      "dropped_records_total",
			Help:      "Records discarded at load time by reason.",
		}, []string{"dataset", "reason"}),
		Recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_explorer",
			Name:      "recomputes_total",
			Help:      "Total dashboard recomputation passes.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "water_explorer",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of a complete recomputation pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "water_explorer",
			Name:      "stage_duration_seconds",
			Help:      "Duration of one pipeline stage within a recomputation.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"stage"}),
		EmptySelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_explorer",
			Name:      "empty_selections_total",
			Help:      "Recomputations whose selected window contained no rainfall records.",
		}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "water_explorer",
			Name:      "service_ready",
			Help:      "1 once both datasets have been loaded successfully.",
		}),
	}
}
