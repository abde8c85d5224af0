// Command gendata generates synthetic water-height and rainfall CSV
// fixtures shaped like the Hackaviz data pack, for development and demos.
// The output is seeded and therefore reproducible; it includes sensor-fault
// rows (height >= 10000) so the loader's filtering is exercised end to end.
//
// Usage:
//
//	go run ./cmd/gendata -out data -days 365 -stations 120 -seed 2025
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vroger11/hackaviz-2025/internal/domain"
)

var startDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output directory for the two CSV files")
	days := flag.Int("days", 365, "number of days to generate")
	stations := flag.Int("stations", 120, "number of rainfall stations")
	seed := flag.Int64("seed", 2025, "random seed")
	flag.Parse()

	if *days < 1 || *stations < 1 {
		return fmt.Errorf("-days and -stations must be positive")
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))

	waterPath := filepath.Join(*out, "hauteur_eau_quotidienne_toulouse.csv")
	waterRows, err := writeWater(waterPath, rng, *days)
	if err != nil {
		return fmt.Errorf("write water dataset: %w", err)
	}
	log.Printf("wrote %s: %d rows", waterPath, waterRows)

	rainPath := filepath.Join(*out, "pluviometrie.csv")
	rainRows, err := writeRain(rainPath, rng, *days, *stations)
	if err != nil {
		return fmt.Errorf("write rain dataset: %w", err)
	}
	log.Printf("wrote %s: %d rows", rainPath, rainRows)

	return nil
}

// writeWater emits one to three readings per day following a seasonal
// baseline with noise, plus the occasional fault-ceiling spike.
func writeWater(path string, rng *rand.Rand, days int) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date_observation", "max(hauteur, na.rm = TRUE)"}); err != nil {
		return 0, err
	}

	rows := 0
	for d := 0; d < days; d++ {
		date := startDate.AddDate(0, 0, d).Format(domain.DateLayout)
		baseline := 1200 + 600*math.Sin(2*math.Pi*float64(d)/365)

		for n := 1 + rng.Intn(3); n > 0; n-- {
			height := baseline + rng.NormFloat64()*80
			if rng.Float64() < 0.002 {
				// Simulated sensor fault, must be dropped by the loader.
				height = domain.FaultCeiling + rng.Float64()*5000
			}
			if err := w.Write([]string{date, strconv.FormatFloat(height, 'f', 1, 64)}); err != nil {
				return 0, err
			}
			rows++
		}
	}

	w.Flush()
	return rows, w.Error()
}

// writeRain emits a record per station per day, with gaps so that windows
// contain unobserved days, matching the real feed's sparseness.
func writeRain(path string, rng *rand.Rand, days, stations int) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"nom_usuel", "latitude", "longitude", "date_observation", "precipitation"}); err != nil {
		return 0, err
	}

	type station struct {
		name     string
		lat, lon float64
		wetness  float64
	}

	sts := make([]station, stations)
	for i := range sts {
		sts[i] = station{
			name: fmt.Sprintf("STATION-%03d", i+1),
			// Scatter around the Toulouse metropolitan area.
			lat:     43.6 + rng.Float64()*0.8 - 0.4,
			lon:     1.44 + rng.Float64()*1.2 - 0.6,
			wetness: 0.5 + rng.Float64(),
		}
	}

	rows := 0
	for d := 0; d < days; d++ {
		date := startDate.AddDate(0, 0, d).Format(domain.DateLayout)
		for _, st := range sts {
			if rng.Float64() < 0.15 {
				continue // unobserved day
			}
			precip := 0.0
			if rng.Float64() < 0.35 {
				precip = rng.ExpFloat64() * 4 * st.wetness
			}
			if err := w.Write([]string{
				st.name,
				strconv.FormatFloat(st.lat, 'f', 4, 64),
				strconv.FormatFloat(st.lon, 'f', 4, 64),
				date,
				strconv.FormatFloat(precip, 'f', 1, 64),
			}); err != nil {
				return 0, err
			}
			rows++
		}
	}

	w.Flush()
	return rows, w.Error()
}
