package domain

import (
	"context"
	"log/slog"
	"sort"
)

// QueryCDLPoint fetches and enriches the CDL classification of one point for
// one year. It returns false when the year yields nothing usable: a fetch or
// parse failure (logged) or a no-data code. It never returns an error.
func QueryCDLPoint(ctx context.Context, src CDLSource, lat, lng float64, year int, logger *slog.Logger) (YearRecord, bool) {
	body, err := src.FetchValue(ctx, lat, lng, year)
	if err != nil {
		logger.Warn("cdl query failed, skipping year",
			"year", year, "lat", lat, "lng", lng, "error", err)
		return YearRecord{}, false
	}

	c, err := ParseCDLPayload(body)
	if err != nil {
		logger.Warn("cdl payload unparseable, skipping year",
			"year", year, "lat", lat, "lng", lng, "error", err)
		return YearRecord{}, false
	}

	if c.Code.IsNoData() {
		logger.Debug("cdl no data", "year", year, "lat", lat, "lng", lng, "code", int(c.Code))
		return YearRecord{}, false
	}

	return NewYearRecord(year, c), true
}

// NewYearRecord enriches a classification with taxonomy and confidence. An
// inline confidence from the upstream payload takes precedence over the estimate.
func NewYearRecord(year int, c Classification) YearRecord {
	entry := ResolveCrop(c.Code)
	confidence := EstimateAccuracy(c.Code)
	if c.Confidence != nil {
		confidence = *c.Confidence
	}
	return YearRecord{
		Year:       year,
		CropCode:   c.Code,
		CropName:   entry.Name,
		Color:      entry.Color,
		CropType:   entry.Type,
		Confidence: confidence,
	}
}

// QueryCDLHistory queries each year in turn, waiting for one request to finish
// before the next is sent; the upstream service does not tolerate concurrent
// load. Failed and no-data years are left out. If ctx is cancelled the years
// completed so far are analyzed and returned. The result is sorted ascending by
// year with warnings attached.
func QueryCDLHistory(ctx context.Context, src CDLSource, lat, lng float64, years []int, logger *slog.Logger) []YearRecord {
	records := make([]YearRecord, 0, len(years))
	seen := make(map[int]bool, len(years))

	for _, year := range years {
		if ctx.Err() != nil {
			logger.Info("cdl history query cancelled, returning partial result",
				"lat", lat, "lng", lng, "completed", len(records), "error", ctx.Err())
			break
		}
		if seen[year] {
			continue
		}
		seen[year] = true

		if rec, ok := QueryCDLPoint(ctx, src, lat, lng, year, logger); ok {
			records = append(records, rec)
		}
	}

	return AnalyzeRecords(records)
}

// AnalyzeRecords sorts records ascending by year, runs the history analyzer and
// attaches its warnings.
func AnalyzeRecords(records []YearRecord) []YearRecord {
	sorted := SortByYear(records)
	return AttachWarnings(sorted, AnalyzeCropHistory(Observations(sorted)))
}

// SortByYear returns a copy of records in ascending year order.
func SortByYear(records []YearRecord) []YearRecord {
	out := make([]YearRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
