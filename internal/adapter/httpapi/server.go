// Package httpapi exposes the exploration service over HTTP: the JSON API
// consumed by interactive clients, the rendered dashboard page, and the
// health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/explorer"
)

// Viewer recomputes dashboard snapshots and reports readiness.
type Viewer interface {
	View(ctx context.Context, p explorer.Params) (explorer.Snapshot, error)
	CheckReadiness(ctx context.Context) error
}

// DashboardRenderer turns a snapshot into a browsable page.
type DashboardRenderer interface {
	RenderDashboard(w io.Writer, snap explorer.Snapshot) error
}

// Server routes HTTP traffic to the explorer.
type Server struct {
	httpServer *http.Server
	viewer     Viewer
	renderer   DashboardRenderer
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, viewer Viewer, renderer DashboardRenderer, logger *slog.Logger) *Server {
	s := &Server{
		viewer:   viewer,
		renderer: renderer,
		logger:   logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/trend", s.handleTrend).Methods(http.MethodGet)
	r.HandleFunc("/api/stations", s.handleStations).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.viewer.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleTrend serves the derived water trend for the requested window.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	snap, err := s.viewer.View(r.Context(), params)
	if err != nil {
		s.fail(w, r, "trend recompute failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trend":     snap.Trend,
		"window":    snap.Window,
		"scale":     snap.TrendScale,
		"statistic": snap.Statistic,
	})
}

// handleStations serves the ranked station summaries for the selected
// sub-range. An empty result is a valid response, flagged with a message so
// clients can render an explicit no-data state.
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	snap, err := s.viewer.View(r.Context(), params)
	if err != nil {
		s.fail(w, r, "stations recompute failed", err)
		return
	}

	body := map[string]any{
		"stations": snap.Stations,
		"selected": snap.Selected,
		"scale":    snap.MapScale,
		"top_n":    snap.TopN,
	}
	if len(snap.Stations) == 0 {
		body["message"] = fmt.Sprintf("no data for %s", snap.Selected.Label())
	}
	writeJSON(w, http.StatusOK, body)
}

// handleDashboard renders the interactive page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	snap, err := s.viewer.View(r.Context(), params)
	if err != nil {
		s.fail(w, r, "dashboard recompute failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderDashboard(w, snap); err != nil {
		s.logger.ErrorContext(r.Context(), "dashboard render failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.ErrorContext(r.Context(), msg, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// parseParams extracts the widget state from query parameters. The window
// bounds must come as a pair; the brush selection bounds (sel_start,
// sel_end) are optional and forwarded opaquely to the resolver.
func parseParams(r *http.Request) (explorer.Params, error) {
	q := r.URL.Query()
	var params explorer.Params

	start, end := q.Get("start"), q.Get("end")
	switch {
	case start != "" && end != "":
		s, err := domain.ParseDate(start)
		if err != nil {
			return params, fmt.Errorf("invalid start date %q", start)
		}
		e, err := domain.ParseDate(end)
		if err != nil {
			return params, fmt.Errorf("invalid end date %q", end)
		}
		params.Window = domain.NewDateInterval(s, e)
	case start != "" || end != "":
		return params, fmt.Errorf("start and end must be provided together")
	}

	if selStart, selEnd := q.Get("sel_start"), q.Get("sel_end"); selStart != "" && selEnd != "" {
		params.Selection = &domain.BrushSelection{
			Boxes: []domain.BrushBox{{X: [2]string{selStart, selEnd}}},
		}
	}

	if stat := q.Get("statistic"); stat != "" {
		parsed, err := domain.ParseStatistic(stat)
		if err != nil {
			return params, err
		}
		params.Statistic = parsed
	}

	if top := q.Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < domain.MinTopStations || n > domain.MaxTopStations {
			return params, fmt.Errorf("top must be an integer in [%d, %d]", domain.MinTopStations, domain.MaxTopStations)
		}
		params.TopN = n
	}

	return params, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
