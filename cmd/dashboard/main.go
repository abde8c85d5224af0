// Command dashboard serves the Toulouse water-level and rainfall
// exploration dashboard: a JSON API plus a rendered interactive page over
// the two read-only datasets.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vroger11/hackaviz-2025/internal/adapter/echarts"
	"github.com/vroger11/hackaviz-2025/internal/adapter/httpapi"
	"github.com/vroger11/hackaviz-2025/internal/config"
	"github.com/vroger11/hackaviz-2025/internal/dataset"
	"github.com/vroger11/hackaviz-2025/internal/explorer"
	"github.com/vroger11/hackaviz-2025/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := dataset.NewCSVLoader(logger, metrics)
	source := dataset.NewCachedSource(loader, metrics)

	exp := explorer.New(source, explorer.Options{
		WaterDataset:        cfg.WaterDataset,
		RainDataset:         cfg.RainDataset,
		DefaultStatistic:    cfg.DefaultStatistic,
		DefaultTopN:         cfg.DefaultTopN,
		ZeroFillMissingDays: cfg.ZeroFillMissingDays,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The dashboard has no content without its datasets; fail fast.
	if err := exp.Warmup(ctx); err != nil {
		logger.Error("dataset warmup failed", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, exp, echarts.NewRenderer(), logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
