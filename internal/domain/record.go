package domain

import (
	"context"
	"time"
)

// YearRecord is one enriched CDL observation for a point and year.
type YearRecord struct {
	Year              int      `json:"year"`
	CropCode          CropCode `json:"crop_code"`
	CropName          string   `json:"crop_name"`
	Color             string   `json:"color"`
	CropType          CropType `json:"crop_type"`
	Confidence        int      `json:"confidence"`
	TransitionWarning string   `json:"transition_warning,omitempty"`
}

// Observation returns the analyzer view of the record.
func (r YearRecord) Observation() Observation {
	confidence := r.Confidence
	return Observation{
		Year:       r.Year,
		CropType:   r.CropType,
		CropName:   r.CropName,
		Confidence: &confidence,
	}
}

// Observation is the minimal input of the history analyzer. CropType and
// Confidence may be absent, in which case the rules that need them do not apply.
type Observation struct {
	Year       int      `json:"year"`
	CropType   CropType `json:"crop_type,omitempty"`
	CropName   string   `json:"crop_name"`
	Confidence *int     `json:"confidence,omitempty"`
}

// WarningKind identifies which history check produced a warning.
type WarningKind string

const (
	WarningIsolatedPermanent WarningKind = "isolated_permanent"
	WarningTransition        WarningKind = "transition"
	WarningLowConfidence     WarningKind = "low_confidence"
)

// Warning is a finding about a single year of a history.
type Warning struct {
	Year    int         `json:"year"`
	Kind    WarningKind `json:"kind"`
	Message string      `json:"warning"`
}

// Classification is a parsed upstream CDL value for one point and year.
type Classification struct {
	Code       CropCode
	Confidence *int // inline confidence, when the upstream payload carried one
}

// HistoryRequest asks for the CDL history of a single point.
type HistoryRequest struct {
	ID        string  `json:"id,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	StartYear int     `json:"start_year,omitempty"`
	EndYear   int     `json:"end_year,omitempty"`
}

// HistoryReport is the analyzed CDL history of a point, ready for rendering.
type HistoryReport struct {
	ID         string         `json:"id"`
	Lat        float64        `json:"lat"`
	Lng        float64        `json:"lng"`
	StartYear  int            `json:"start_year"`
	EndYear    int            `json:"end_year"`
	Records    []YearRecord   `json:"records"`
	Warnings   []Warning      `json:"warnings"`
	Summary    HistorySummary `json:"summary"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
}

// RawRequest is an unprocessed history request message from the source topic.
type RawRequest struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}
