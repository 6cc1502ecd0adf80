package domain

import "context"

// CDLSource fetches the raw CDL point-value payload for a WGS-84 coordinate and
// layer year. Implementations report transport failures, timeouts and
// non-success statuses as errors; parsing is left to ParseCDLPayload.
type CDLSource interface {
	FetchValue(ctx context.Context, lat, lng float64, year int) ([]byte, error)
}
