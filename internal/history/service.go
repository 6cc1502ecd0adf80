// Package history assembles analyzed CDL history reports on top of the domain
// query orchestrator. It is shared by the HTTP API, the Kafka pipeline and the
// cdlscan command.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
	"github.com/google/uuid"
)

// Service answers point and history queries against a CDL source.
type Service struct {
	source    domain.CDLSource
	metrics   *observability.Metrics
	logger    *slog.Logger
	startYear int
	endYear   int
}

// NewService creates a history service. startYear and endYear are the default
// window for requests that leave theirs unset.
func NewService(source domain.CDLSource, startYear, endYear int, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		source:    source,
		metrics:   metrics,
		logger:    logger,
		startYear: startYear,
		endYear:   endYear,
	}
}

// QueryHistory validates the request, queries every year in its window and
// returns the analyzed report. Per-year failures never fail the report; only
// an invalid request does.
func (s *Service) QueryHistory(ctx context.Context, req domain.HistoryRequest) (domain.HistoryReport, error) {
	req = req.WithDefaults(s.startYear, s.endYear)
	if err := req.Validate(); err != nil {
		return domain.HistoryReport{}, err
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	years := domain.YearRange(req.StartYear, req.EndYear)
	records := domain.QueryCDLHistory(ctx, s.source, req.Lat, req.Lng, years, s.logger)
	warnings := domain.AnalyzeCropHistory(domain.Observations(records))
	if warnings == nil {
		warnings = []domain.Warning{}
	}

	s.metrics.YearsSkipped.Add(float64(len(years) - len(records)))
	for _, w := range warnings {
		s.metrics.HistoryWarnings.WithLabelValues(string(w.Kind)).Inc()
	}

	s.logger.Info("cdl history analyzed",
		"id", req.ID,
		"lat", req.Lat,
		"lng", req.Lng,
		"years_requested", len(years),
		"years_observed", len(records),
		"warnings", len(warnings),
	)

	return domain.HistoryReport{
		ID:         req.ID,
		Lat:        req.Lat,
		Lng:        req.Lng,
		StartYear:  req.StartYear,
		EndYear:    req.EndYear,
		Records:    records,
		Warnings:   warnings,
		Summary:    domain.Summarize(records, warnings),
		AnalyzedAt: domain.Now(),
	}, nil
}

// QueryPoint returns the enriched record for a single year. The boolean is
// false when the year produced nothing usable.
func (s *Service) QueryPoint(ctx context.Context, lat, lng float64, year int) (domain.YearRecord, bool, error) {
	req := domain.HistoryRequest{Lat: lat, Lng: lng, StartYear: year, EndYear: year}
	if err := req.Validate(); err != nil {
		return domain.YearRecord{}, false, err
	}
	if year == 0 {
		return domain.YearRecord{}, false, fmt.Errorf("%w: year is required", domain.ErrInvalidRequest)
	}
	rec, ok := domain.QueryCDLPoint(ctx, s.source, lat, lng, year, s.logger)
	if !ok {
		s.metrics.YearsSkipped.Inc()
	}
	return rec, ok, nil
}

// AnalyzeInput is one caller-supplied observation for offline analysis. When
// CropCode is set, missing name and type are filled from the taxonomy.
type AnalyzeInput struct {
	Year       int              `json:"year"`
	CropCode   *domain.CropCode `json:"crop_code,omitempty"`
	CropType   domain.CropType  `json:"crop_type,omitempty"`
	CropName   string           `json:"crop_name,omitempty"`
	Confidence *int             `json:"confidence,omitempty"`
}

// Analyze runs the history analyzer over caller-supplied observations. The
// observations are sorted by year first and returned in that order.
func (s *Service) Analyze(inputs []AnalyzeInput) ([]domain.Observation, []domain.Warning) {
	obs := make([]domain.Observation, len(inputs))
	for i, in := range inputs {
		o := domain.Observation{
			Year:       in.Year,
			CropType:   in.CropType,
			CropName:   in.CropName,
			Confidence: in.Confidence,
		}
		if in.CropCode != nil {
			entry := domain.ResolveCrop(*in.CropCode)
			if o.CropName == "" {
				o.CropName = entry.Name
			}
			if o.CropType == "" {
				o.CropType = entry.Type
			}
		}
		obs[i] = o
	}
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Year < obs[j].Year })

	warnings := domain.AnalyzeCropHistory(obs)
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	return obs, warnings
}
