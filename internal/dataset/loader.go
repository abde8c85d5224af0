// Package dataset reads the two tabular source files into immutable record
// slices, normalizing externally-sourced column labels and discarding
// invalid rows at the boundary.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/observability"
)

// Source provides the two read-only dataset collections. Implementations
// must return slices the caller can treat as immutable.
type Source interface {
	LoadWater(ctx context.Context, path string) ([]domain.WaterObservation, error)
	LoadRain(ctx context.Context, path string) ([]domain.RainObservation, error)
}

// Column aliases accepted for each semantic field. The first column in the
// header matching any alias wins. The water-height label is the R
// aggregation expression the upstream export leaks.
var (
	dateAliases    = []string{"date_observation", "date"}
	heightAliases  = []string{"max(hauteur, na.rm = TRUE)", "water_height", "hauteur"}
	stationAliases = []string{"nom_usuel", "station"}
	latAliases     = []string{"latitude", "lat"}
	lonAliases     = []string{"longitude", "lon"}
	precipAliases  = []string{"precipitation"}
)

// CSVLoader parses the CSV exports of the Hackaviz data pack.
type CSVLoader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCSVLoader creates a loader. Metrics may not be nil; use
// observability.NewMetricsForTesting in tests.
func NewCSVLoader(logger *slog.Logger, metrics *observability.Metrics) *CSVLoader {
	return &CSVLoader{logger: logger, metrics: metrics}
}

// LoadWater reads water-height observations, dropping rows at or above the
// sensor fault ceiling and rows that fail to parse. An unreadable file is a
// fatal error for the caller: the dashboard has no content without it.
func (l *CSVLoader) LoadWater(ctx context.Context, path string) ([]domain.WaterObservation, error) {
	start := time.Now()

	header, rows, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("load water dataset: %w", err)
	}

	dateCol, err := resolveColumn(header, dateAliases)
	if err != nil {
		return nil, fmt.Errorf("load water dataset %s: %w", path, err)
	}
	heightCol, err := resolveColumn(header, heightAliases)
	if err != nil {
		return nil, fmt.Errorf("load water dataset %s: %w", path, err)
	}

	obs := make([]domain.WaterObservation, 0, len(rows))
	var malformed, faults int
	for _, row := range rows {
		d, errDate := parseRowDate(row, dateCol)
		h, errHeight := parseRowFloat(row, heightCol)
		if errDate != nil || errHeight != nil {
			malformed++
			continue
		}
		if h >= domain.FaultCeiling {
			faults++
			continue
		}
		obs = append(obs, domain.WaterObservation{Date: d, Height: h})
	}

	l.observeLoad(ctx, "water", path, len(obs), malformed, faults, start)
	return obs, nil
}

// LoadRain reads per-station rainfall records, dropping rows that fail to
// parse or carry negative precipitation.
func (l *CSVLoader) LoadRain(ctx context.Context, path string) ([]domain.RainObservation, error) {
	start := time.Now()

	header, rows, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("load rain dataset: %w", err)
	}

	cols := make(map[string]int, 5)
	for field, aliases := range map[string][]string{
		"date":          dateAliases,
		"station":       stationAliases,
		"latitude":      latAliases,
		"longitude":     lonAliases,
		"precipitation": precipAliases,
	} {
		idx, err := resolveColumn(header, aliases)
		if err != nil {
			return nil, fmt.Errorf("load rain dataset %s: %w", path, err)
		}
		cols[field] = idx
	}

	obs := make([]domain.RainObservation, 0, len(rows))
	var malformed int
	for _, row := range rows {
		d, errDate := parseRowDate(row, cols["date"])
		lat, errLat := parseRowFloat(row, cols["latitude"])
		lon, errLon := parseRowFloat(row, cols["longitude"])
		precip, errPrecip := parseRowFloat(row, cols["precipitation"])
		station := field(row, cols["station"])

		if errDate != nil || errLat != nil || errLon != nil || errPrecip != nil || station == "" || precip < 0 {
			malformed++
			continue
		}
		obs = append(obs, domain.RainObservation{
			Station:       station,
			Lat:           lat,
			Lon:           lon,
			Date:          d,
			Precipitation: precip,
		})
	}

	l.observeLoad(ctx, "rain", path, len(obs), malformed, 0, start)
	return obs, nil
}

func (l *CSVLoader) observeLoad(ctx context.Context, dataset, path string, kept, malformed, faults int, start time.Time) {
	l.metrics.DatasetLoadDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	l.metrics.DatasetRecords.WithLabelValues(dataset).Set(float64(kept))
	if malformed > 0 {
		l.metrics.DroppedRecords.WithLabelValues(dataset, "malformed").Add(float64(malformed))
	}
	if faults > 0 {
		l.metrics.DroppedRecords.WithLabelValues(dataset, "fault").Add(float64(faults))
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		"dataset", dataset,
		"path", path,
		"records", kept,
		"dropped_malformed", malformed,
		"dropped_faults", faults,
	)
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	return all[0], all[1:], nil
}

// resolveColumn finds the index of the first header column matching one of
// the accepted aliases (case-insensitive, whitespace-trimmed).
func resolveColumn(header []string, aliases []string) (int, error) {
	for _, alias := range aliases {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), alias) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("missing column %q", aliases[0])
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseRowFloat(row []string, idx int) (float64, error) {
	return strconv.ParseFloat(field(row, idx), 64)
}

// parseRowDate accepts plain dates and RFC 3339 timestamps, truncating
// either to UTC midnight.
func parseRowDate(row []string, idx int) (time.Time, error) {
	s := field(row, idx)
	if d, err := domain.ParseDate(s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}
