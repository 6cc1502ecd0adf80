package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/history"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
)

// maxAnalyzeBody bounds POST /v1/cdl/analyze request bodies.
const maxAnalyzeBody = 1 << 20

// HistoryService is the query surface the API exposes. *history.Service implements it.
type HistoryService interface {
	QueryHistory(ctx context.Context, req domain.HistoryRequest) (domain.HistoryReport, error)
	QueryPoint(ctx context.Context, lat, lng float64, year int) (domain.YearRecord, bool, error)
	Analyze(inputs []history.AnalyzeInput) ([]domain.Observation, []domain.Warning)
}

type api struct {
	svc     HistoryService
	metrics *observability.Metrics
	logger  *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type cropResponse struct {
	Code              domain.CropCode `json:"code"`
	Name              string          `json:"name"`
	Color             string          `json:"color"`
	Type              domain.CropType `json:"type"`
	EstimatedAccuracy int             `json:"estimated_accuracy"`
	NoData            bool            `json:"no_data"`
}

type analyzeRequest struct {
	Observations []history.AnalyzeInput `json:"observations"`
}

type analyzeResponse struct {
	Observations []domain.Observation `json:"observations"`
	Warnings     []domain.Warning     `json:"warnings"`
}

func (a *api) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lng, err := parseLatLng(q.Get("lat"), q.Get("lng"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	start, err := optionalInt(q.Get("start_year"), "start_year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	end, err := optionalInt(q.Get("end_year"), "end_year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	a.metrics.HistoryQueries.WithLabelValues("http").Inc()
	report, err := a.svc.QueryHistory(r.Context(), domain.HistoryRequest{
		ID:        q.Get("id"),
		Lat:       lat,
		Lng:       lng,
		StartYear: start,
		EndYear:   end,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *api) handlePoint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lng, err := parseLatLng(q.Get("lat"), q.Get("lng"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	year, err := optionalInt(q.Get("year"), "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, ok, err := a.svc.QueryPoint(r.Context(), lat, lng, year)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no CDL data for this point and year"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *api) handleCrop(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("code"))
	if err != nil || n < 0 || n > 255 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid crop code %q", r.PathValue("code")))
		return
	}
	code := domain.CropCode(n)
	entry, ok := domain.LookupCrop(code)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown crop code %d", n)})
		return
	}
	writeJSON(w, http.StatusOK, cropResponse{
		Code:              code,
		Name:              entry.Name,
		Color:             entry.Color,
		Type:              entry.Type,
		EstimatedAccuracy: domain.EstimateAccuracy(code),
		NoData:            code.IsNoData(),
	})
}

func (a *api) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode analyze request: %w", err))
		return
	}

	obs, warnings := a.svc.Analyze(req.Observations)
	writeJSON(w, http.StatusOK, analyzeResponse{Observations: obs, Warnings: warnings})
}

func (a *api) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a.logger.Error("history query failed", "error", err)
	writeError(w, http.StatusInternalServerError, errors.New("internal error"))
}

// instrument records request duration by route and response status.
func (a *api) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		a.metrics.APIRequestDuration.
			WithLabelValues(route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func parseLatLng(latStr, lngStr string) (float64, float64, error) {
	if latStr == "" || lngStr == "" {
		return 0, 0, errors.New("lat and lng are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lat %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lng %q", lngStr)
	}
	return lat, lng, nil
}

func optionalInt(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
