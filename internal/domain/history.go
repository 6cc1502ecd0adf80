package domain

import "fmt"

// LowConfidenceThreshold is the confidence below which an observation is flagged.
const LowConfidenceThreshold = 50

// AnalyzeCropHistory scans a chronologically ordered history and returns every
// finding in scan order. Adjacency is by slice index, so callers must sort the
// observations by year first. For each observation it runs, independently:
//
//   - the isolated-permanent check: a permanent crop whose neighbors on both
//     sides are not permanent (a missing neighbor counts as not permanent)
//   - the pairwise transition check against the previous observation
//   - the low-confidence check
//
// Findings are not deduplicated; a single year can collect several warnings.
func AnalyzeCropHistory(obs []Observation) []Warning {
	var warnings []Warning

	for i, cur := range obs {
		if isIsolatedPermanent(obs, i) {
			warnings = append(warnings, Warning{
				Year: cur.Year,
				Kind: WarningIsolatedPermanent,
				Message: fmt.Sprintf(
					"%s detected for a single year only: permanent crops persist for many seasons, so a one-year occurrence is likely a misclassification",
					cur.CropName,
				),
			})
		}

		if i > 0 {
			prev := obs[i-1]
			if msg, ok := ValidateTransition(prev.CropType, cur.CropType, prev.CropName, cur.CropName, cur.Confidence); ok {
				warnings = append(warnings, Warning{Year: cur.Year, Kind: WarningTransition, Message: msg})
			}
		}

		if cur.Confidence != nil && *cur.Confidence < LowConfidenceThreshold {
			warnings = append(warnings, Warning{
				Year:    cur.Year,
				Kind:    WarningLowConfidence,
				Message: fmt.Sprintf("Low classification confidence for %s (%d%%)", cur.CropName, *cur.Confidence),
			})
		}
	}

	return warnings
}

func isIsolatedPermanent(obs []Observation, i int) bool {
	if obs[i].CropType != CropTypePermanent {
		return false
	}
	prevDiffers := i == 0 || obs[i-1].CropType != CropTypePermanent
	nextDiffers := i == len(obs)-1 || obs[i+1].CropType != CropTypePermanent
	return prevDiffers && nextDiffers
}

// AttachWarnings stores a warning on the record with the matching year and
// returns the updated records. Transition and isolated-permanent findings take
// precedence over low-confidence ones; otherwise the one emitted last is kept.
func AttachWarnings(records []YearRecord, warnings []Warning) []YearRecord {
	out := make([]YearRecord, len(records))
	copy(out, records)

	byYear := make(map[int]int, len(out))
	for i, r := range out {
		byYear[r.Year] = i
	}
	attached := make(map[int]WarningKind, len(out))
	for _, w := range warnings {
		i, ok := byYear[w.Year]
		if !ok {
			continue
		}
		if prev, seen := attached[i]; seen && w.Kind == WarningLowConfidence && prev != WarningLowConfidence {
			continue
		}
		out[i].TransitionWarning = w.Message
		attached[i] = w.Kind
	}
	return out
}

// Observations converts records into analyzer input.
func Observations(records []YearRecord) []Observation {
	obs := make([]Observation, len(records))
	for i, r := range records {
		obs[i] = r.Observation()
	}
	return obs
}
