package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vroger11/hackaviz-2025/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset locations, fixed for the process lifetime.
	WaterDataset string
	RainDataset  string

	// Widget defaults applied when a request omits the parameter.
	DefaultTopN      int
	DefaultStatistic domain.Statistic

	// ZeroFillMissingDays switches the rainfall variability computation to
	// count unobserved window days as zero measurements.
	ZeroFillMissingDays bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	topN, err := parseTopN()
	if err != nil {
		return nil, err
	}

	statistic, err := domain.ParseStatistic(envOrDefault("DEFAULT_STATISTIC", string(domain.StatisticMedian)))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_STATISTIC: %w", err)
	}

	cfg := &Config{
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		WaterDataset:        envOrDefault("WATER_DATASET", "data/hauteur_eau_quotidienne_toulouse.csv"),
		RainDataset:         envOrDefault("RAIN_DATASET", "data/pluviometrie.csv"),
		DefaultTopN:         topN,
		DefaultStatistic:    statistic,
		ZeroFillMissingDays: os.Getenv("ZERO_FILL_MISSING_DAYS") == "true",
	}

	if cfg.WaterDataset == "" {
		return nil, errors.New("WATER_DATASET is required")
	}
	if cfg.RainDataset == "" {
		return nil, errors.New("RAIN_DATASET is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseTopN() (int, error) {
	s := os.Getenv("DEFAULT_TOP_N")
	if s == "" {
		return domain.DefaultTopStations, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < domain.MinTopStations || n > domain.MaxTopStations {
		return 0, fmt.Errorf("DEFAULT_TOP_N must be an integer in [%d, %d]", domain.MinTopStations, domain.MaxTopStations)
	}
	return n, nil
}
