package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MinCDLYear is the first year with national CDL coverage.
const MinCDLYear = 2008

// ErrInvalidRequest is wrapped by every history request validation error.
var ErrInvalidRequest = errors.New("invalid history request")

// ParseHistoryRequest deserializes a raw message into a HistoryRequest. The
// message key is used as the request ID when the payload carries none.
func ParseHistoryRequest(raw RawRequest) (HistoryRequest, error) {
	var req HistoryRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return HistoryRequest{}, fmt.Errorf("parse history request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}
	return req, nil
}

// Validate checks coordinate ranges and the year window. Years set on the
// request must lie between MinCDLYear and the current year.
func (r HistoryRequest) Validate() error {
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("%w: lat %v out of range", ErrInvalidRequest, r.Lat)
	}
	if r.Lng < -180 || r.Lng > 180 {
		return fmt.Errorf("%w: lng %v out of range", ErrInvalidRequest, r.Lng)
	}
	if r.StartYear != 0 && r.StartYear < MinCDLYear {
		return fmt.Errorf("%w: start_year %d before %d", ErrInvalidRequest, r.StartYear, MinCDLYear)
	}
	latest := Now().Year()
	if r.StartYear > latest {
		return fmt.Errorf("%w: start_year %d after %d", ErrInvalidRequest, r.StartYear, latest)
	}
	if r.EndYear != 0 && (r.EndYear < MinCDLYear || r.EndYear > latest) {
		return fmt.Errorf("%w: end_year %d outside %d-%d", ErrInvalidRequest, r.EndYear, MinCDLYear, latest)
	}
	if r.StartYear != 0 && r.EndYear != 0 && r.StartYear > r.EndYear {
		return fmt.Errorf("%w: start_year %d after end_year %d", ErrInvalidRequest, r.StartYear, r.EndYear)
	}
	return nil
}

// WithDefaults fills a zero start or end year from the given defaults.
func (r HistoryRequest) WithDefaults(startYear, endYear int) HistoryRequest {
	if r.StartYear == 0 {
		r.StartYear = startYear
	}
	if r.EndYear == 0 {
		r.EndYear = endYear
	}
	return r
}

// YearRange lists the years from end down to start, the conventional query
// order (most recent layer first). It returns nil when start > end.
func YearRange(start, end int) []int {
	if start > end {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := end; y >= start; y-- {
		years = append(years, y)
	}
	return years
}
