package domain

// HistorySummary aggregates a point's CDL history for display.
type HistorySummary struct {
	YearsObserved  int              `json:"years_observed"`
	FirstYear      int              `json:"first_year,omitempty"`
	LastYear       int              `json:"last_year,omitempty"`
	TypeCounts     map[CropType]int `json:"type_counts"`
	CropCounts     map[string]int   `json:"crop_counts"`
	DominantCrop   string           `json:"dominant_crop,omitempty"`
	MeanConfidence float64          `json:"mean_confidence"`
	TypeChanges    int              `json:"type_changes"`
	WarningCount   int              `json:"warning_count"`
}

// Summarize computes summary statistics over records sorted ascending by year.
// Ties for the dominant crop go to the crop seen most recently.
func Summarize(records []YearRecord, warnings []Warning) HistorySummary {
	s := HistorySummary{
		YearsObserved: len(records),
		TypeCounts:    make(map[CropType]int),
		CropCounts:    make(map[string]int),
		WarningCount:  len(warnings),
	}
	if len(records) == 0 {
		return s
	}

	s.FirstYear = records[0].Year
	s.LastYear = records[len(records)-1].Year

	total := 0
	for i, r := range records {
		s.TypeCounts[r.CropType]++
		s.CropCounts[r.CropName]++
		total += r.Confidence
		if i > 0 && records[i-1].CropType != r.CropType {
			s.TypeChanges++
		}
	}
	s.MeanConfidence = float64(total) / float64(len(records))

	best := 0
	for _, r := range records {
		if n := s.CropCounts[r.CropName]; n >= best {
			best = n
			s.DominantCrop = r.CropName
		}
	}
	return s
}
