package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/cdl-history-service/internal/adapter/http"
	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/history"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

// stubSource answers every year with the configured code; missing years fail.
type stubSource struct{ codes map[int]int }

func (s stubSource) FetchValue(_ context.Context, _, _ float64, year int) ([]byte, error) {
	code, ok := s.codes[year]
	if !ok {
		return nil, errors.New("unavailable")
	}
	return []byte(fmt.Sprintf("<Result>%d</Result>", code)), nil
}

func newTestServer(readyErr error) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	svc := history.NewService(stubSource{codes: map[int]int{2020: 1, 2021: 1, 2022: 75, 2023: 1}}, 2020, 2023, metrics, logger)
	return httpadapter.NewServer(":0", svc, &mockReadiness{err: readyErr}, metrics, logger)
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := do(t, newTestServer(errors.New("not ready yet")), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHistory(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/v1/cdl/history?lat=36.7&lng=-119.8&id=orchard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report domain.HistoryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "orchard", report.ID)
	require.Len(t, report.Records, 4)
	assert.Equal(t, 2020, report.Records[0].Year)
	assert.NotEmpty(t, report.Records[2].TransitionWarning)
	assert.NotEmpty(t, report.Records[3].TransitionWarning)
	assert.Len(t, report.Warnings, 3)
	assert.Equal(t, 4, report.Summary.YearsObserved)
}

func TestHistory_YearWindow(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/v1/cdl/history?lat=36.7&lng=-119.8&start_year=2022&end_year=2023", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.HistoryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report.Records, 2)
}

func TestHistory_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing lat", "/v1/cdl/history?lng=-90"},
		{"bad lng", "/v1/cdl/history?lat=40&lng=west"},
		{"bad year", "/v1/cdl/history?lat=40&lng=-90&start_year=soon"},
		{"lat out of range", "/v1/cdl/history?lat=100&lng=-90"},
		{"reversed window", "/v1/cdl/history?lat=40&lng=-90&start_year=2022&end_year=2020"},
		{"before coverage", "/v1/cdl/history?lat=40&lng=-90&start_year=1999"},
		{"end year far in the future", "/v1/cdl/history?lat=40&lng=-90&end_year=1000000000"},
		{"end year past the latest layer", "/v1/cdl/history?lat=40&lng=-90&start_year=2008&end_year=3000000"},
	}

	srv := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestPoint(t *testing.T) {
	srv := newTestServer(nil)

	rec := do(t, srv, http.MethodGet, "/v1/cdl/point?lat=36.7&lng=-119.8&year=2022", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var yr domain.YearRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &yr))
	assert.Equal(t, "Almonds", yr.CropName)
	assert.Equal(t, domain.CropTypePermanent, yr.CropType)

	rec = do(t, srv, http.MethodGet, "/v1/cdl/point?lat=36.7&lng=-119.8&year=2010", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/cdl/point?lat=36.7&lng=-119.8", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrop(t *testing.T) {
	srv := newTestServer(nil)

	rec := do(t, srv, http.MethodGet, "/v1/cdl/crops/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Corn", body["name"])
	assert.Equal(t, "annual", body["type"])
	assert.InDelta(t, 90, body["estimated_accuracy"], 0)
	assert.Equal(t, false, body["no_data"])

	rec = do(t, srv, http.MethodGet, "/v1/cdl/crops/81", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["no_data"])

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/v1/cdl/crops/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/v1/cdl/crops/corn", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/v1/cdl/crops/300", "").Code)
}

func TestAnalyze(t *testing.T) {
	body := `{"observations": [
		{"year": 2021, "crop_type": "permanent", "crop_name": "Grapes", "confidence": 81},
		{"year": 2020, "crop_code": 1},
		{"year": 2022, "crop_name": "Mystery", "confidence": 35}
	]}`

	rec := do(t, newTestServer(nil), http.MethodPost, "/v1/cdl/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Observations []domain.Observation `json:"observations"`
		Warnings     []domain.Warning     `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Observations, 3)
	assert.Equal(t, 2020, resp.Observations[0].Year)
	assert.Equal(t, "Corn", resp.Observations[0].CropName)

	kinds := make([]domain.WarningKind, len(resp.Warnings))
	for i, w := range resp.Warnings {
		kinds[i] = w.Kind
	}
	// 2021: isolated + establishment; 2022 has no type so only low confidence.
	assert.Equal(t, []domain.WarningKind{
		domain.WarningIsolatedPermanent,
		domain.WarningTransition,
		domain.WarningLowConfidence,
	}, kinds)
	assert.Contains(t, resp.Warnings[1].Message, "Grapes (81% confidence)")
}

func TestAnalyze_BadBody(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodPost, "/v1/cdl/analyze", "{nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(nil), http.MethodGet, "/v1/cdl/analyze", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
