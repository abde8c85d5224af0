// Command validate performs offline integrity checks over the two dataset
// files before they are served: schema and parseability, sensor-fault
// filtering, value ranges, per-station coordinate stability, duplicate
// records, and cross-dataset date overlap.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -water data/hauteur_eau_quotidienne_toulouse.csv \
//	  -rain data/pluviometrie.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vroger11/hackaviz-2025/internal/dataset"
	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	waterPath := flag.String("water", "", "path to the water-height CSV")
	rainPath := flag.String("rain", "", "path to the rainfall CSV")
	flag.Parse()

	if *waterPath == "" || *rainPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*waterPath, *rainPath); code != 0 {
		os.Exit(code)
	}
}

func run(waterPath, rainPath string) int {
	fmt.Println("=== Dataset Integrity Validation ===")
	fmt.Println()

	loader := dataset.NewCSVLoader(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
	)
	ctx := context.Background()

	water, err := loader.LoadWater(ctx, waterPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	rain, err := loader.LoadRain(ctx, rainPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateWater(water),
		validateRain(rain),
		validateOverlap(water, rain),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d water, %d rain\n", len(water), len(rain))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateWater checks the loaded water series: non-empty, fault ceiling
// respected, sane date values.
func validateWater(water []domain.WaterObservation) *phase {
	p := &phase{name: "Phase 1: Water series"}

	if len(water) == 0 {
		p.errorf("no valid water observations")
		return p
	}

	for i, o := range water {
		if o.Height >= domain.FaultCeiling {
			p.errorf("observation %d: height %.1f at or above fault ceiling %d", i, o.Height, domain.FaultCeiling)
		}
		if o.Date.IsZero() {
			p.errorf("observation %d: zero date", i)
		}
	}
	return p
}

// validateRain checks rainfall records: non-negative precipitation,
// plausible coordinates, stable coordinates per station, and no duplicate
// (station, date) pairs.
func validateRain(rain []domain.RainObservation) *phase {
	p := &phase{name: "Phase 2: Rainfall records"}

	if len(rain) == 0 {
		p.errorf("no valid rainfall records")
		return p
	}

	type coords struct{ lat, lon float64 }
	seenCoords := map[string]coords{}
	seenDays := map[string]bool{}

	for i, o := range rain {
		if o.Precipitation < 0 {
			p.errorf("record %d: negative precipitation %.2f", i, o.Precipitation)
		}
		if o.Lat < -90 || o.Lat > 90 || o.Lon < -180 || o.Lon > 180 {
			p.errorf("record %d (%s): coordinates out of range (%.4f, %.4f)", i, o.Station, o.Lat, o.Lon)
		}

		if c, ok := seenCoords[o.Station]; ok {
			if c.lat != o.Lat || c.lon != o.Lon {
				p.errorf("station %s: coordinates drift from (%.4f, %.4f) to (%.4f, %.4f)",
					o.Station, c.lat, c.lon, o.Lat, o.Lon)
			}
		} else {
			seenCoords[o.Station] = coords{o.Lat, o.Lon}
		}

		key := o.Station + "|" + o.Date.Format(domain.DateLayout)
		if seenDays[key] {
			p.errorf("duplicate record for %s", key)
		}
		seenDays[key] = true
	}
	return p
}

// validateOverlap ensures the two datasets share a usable date range, since
// brush selections on the water trend drive the rainfall window.
func validateOverlap(water []domain.WaterObservation, rain []domain.RainObservation) *phase {
	p := &phase{name: "Phase 3: Cross-dataset overlap"}

	if len(water) == 0 || len(rain) == 0 {
		p.errorf("cannot check overlap with an empty dataset")
		return p
	}

	waterMin, waterMax := dateSpan(waterDates(water))
	rainMin, rainMax := dateSpan(rainDates(rain))

	if rainMax.Before(waterMin) || waterMax.Before(rainMin) {
		p.errorf("no overlap: water spans %s to %s, rain spans %s to %s",
			waterMin.Format(domain.DateLayout), waterMax.Format(domain.DateLayout),
			rainMin.Format(domain.DateLayout), rainMax.Format(domain.DateLayout))
	}
	return p
}

func waterDates(obs []domain.WaterObservation) []time.Time {
	out := make([]time.Time, len(obs))
	for i, o := range obs {
		out[i] = o.Date
	}
	return out
}

func rainDates(obs []domain.RainObservation) []time.Time {
	out := make([]time.Time, len(obs))
	for i, o := range obs {
		out[i] = o.Date
	}
	return out
}

func dateSpan(dates []time.Time) (time.Time, time.Time) {
	min, max := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max
}
