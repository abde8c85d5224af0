package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroger11/hackaviz-2025/internal/domain"
	"github.com/vroger11/hackaviz-2025/internal/explorer"
)

// stubViewer records the params of the last View call.
type stubViewer struct {
	snap     explorer.Snapshot
	viewErr  error
	notReady error
	last     explorer.Params
}

func (v *stubViewer) View(_ context.Context, p explorer.Params) (explorer.Snapshot, error) {
	v.last = p
	return v.snap, v.viewErr
}

func (v *stubViewer) CheckReadiness(_ context.Context) error {
	return v.notReady
}

type stubRenderer struct {
	err error
}

func (r *stubRenderer) RenderDashboard(w io.Writer, _ explorer.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	_, err := w.Write([]byte("<html>dashboard</html>"))
	return err
}

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func testSnapshot() explorer.Snapshot {
	return explorer.Snapshot{
		Trend: []domain.DailyAggregate{
			{Date: day(1), WaterHeight: 10},
			{Date: day(2), WaterHeight: 12},
		},
		Stations: []domain.StationSummary{
			{Station: "A", Lat: 43.6, Lon: 1.4, PrecipitationTotal: 5},
		},
		Window:     domain.DateInterval{Start: day(1), End: day(2)},
		Selected:   domain.DateInterval{Start: day(1), End: day(2)},
		TrendScale: domain.TrendColorScale(),
		MapScale:   domain.VariationColorScale(),
		Statistic:  domain.StatisticMedian,
		TopN:       50,
	}
}

func newTestServer(viewer *stubViewer) *Server {
	return NewServer(":0", viewer, &stubRenderer{}, slog.Default())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&stubViewer{snap: testSnapshot()}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := get(t, newTestServer(&stubViewer{snap: testSnapshot()}), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		viewer := &stubViewer{notReady: errors.New("datasets not loaded")}
		rec := get(t, newTestServer(viewer), "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "datasets not loaded")
	})
}

func TestTrendEndpoint(t *testing.T) {
	viewer := &stubViewer{snap: testSnapshot()}
	rec := get(t, newTestServer(viewer), "/api/trend?start=2024-05-01&end=2024-05-02&statistic=mean")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Trend []domain.DailyAggregate `json:"trend"`
		Scale domain.ColorScale       `json:"scale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Trend, 2)
	assert.Equal(t, -1.0, body.Scale.Min)

	assert.Equal(t, domain.StatisticMean, viewer.last.Statistic)
	assert.Equal(t, day(1), viewer.last.Window.Start)
	assert.Equal(t, day(2), viewer.last.Window.End)
}

func TestTrendEndpoint_MalformedDates(t *testing.T) {
	s := newTestServer(&stubViewer{snap: testSnapshot()})

	for _, target := range []string{
		"/api/trend?start=garbage&end=2024-05-02",
		"/api/trend?start=2024-05-01",
		"/api/trend?start=2024-05-01&end=2024-05-02&statistic=mode",
		"/api/stations?start=2024-05-01&end=2024-05-02&top=0",
		"/api/stations?top=not-a-number",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestTrendEndpoint_InvertedWindowIsSwapped(t *testing.T) {
	viewer := &stubViewer{snap: testSnapshot()}
	rec := get(t, newTestServer(viewer), "/api/trend?start=2024-05-10&end=2024-05-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, day(1), viewer.last.Window.Start)
	assert.Equal(t, day(10), viewer.last.Window.End)
}

func TestStationsEndpoint(t *testing.T) {
	viewer := &stubViewer{snap: testSnapshot()}
	rec := get(t, newTestServer(viewer), "/api/stations?sel_start=2024-05-01&sel_end=2024-05-02&top=10")

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, viewer.last.Selection)
	require.Len(t, viewer.last.Selection.Boxes, 1)
	assert.Equal(t, [2]string{"2024-05-01", "2024-05-02"}, viewer.last.Selection.Boxes[0].X)
	assert.Equal(t, 10, viewer.last.TopN)

	assert.NotContains(t, rec.Body.String(), "message")
}

func TestStationsEndpoint_EmptyResultCarriesMessage(t *testing.T) {
	snap := testSnapshot()
	snap.Stations = []domain.StationSummary{}
	viewer := &stubViewer{snap: snap}

	rec := get(t, newTestServer(viewer), "/api/stations")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data for")
}

func TestDashboardEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&stubViewer{snap: testSnapshot()}), "/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "dashboard")
}

func TestViewFailureReturns500(t *testing.T) {
	viewer := &stubViewer{viewErr: errors.New("dataset unreadable")}
	rec := get(t, newTestServer(viewer), "/api/trend")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unreadable", "internal details must not leak")
}
