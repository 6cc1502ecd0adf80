package domain

import "fmt"

// ValidateTransition decides whether a change from one crop type to another
// between consecutive years is agronomically implausible. It returns the
// warning text and true when a rule fires. Rules are checked in order and the
// first match wins:
//
//  1. a permanent crop appears (orchards and vineyards take 3–7 years to establish)
//  2. a permanent crop is replaced by an annual crop or pasture
//  3. the land becomes forest or developed
//
// An absent or unrecognized type on either side disables every rule.
func ValidateTransition(from, to CropType, fromName, toName string, confidence *int) (string, bool) {
	if !from.Valid() || !to.Valid() {
		return "", false
	}

	switch {
	case to == CropTypePermanent:
		return fmt.Sprintf(
			"%s%s detected after %s: orchards and vineyards take 3-7 years to establish, so a sudden appearance is suspicious",
			toName, confidenceSuffix(confidence), fromName,
		), true

	case from == CropTypePermanent && (to == CropTypeAnnual || to == CropTypePasture):
		return fmt.Sprintf(
			"%s replaced by %s within one year: established orchards and vineyards are rarely removed and replanted in a single season",
			fromName, toName,
		), true

	case (to == CropTypeForest || to == CropTypeDeveloped) && to != from:
		return fmt.Sprintf(
			"%s changed to %s: %s land is normally a permanent land use and may be a misclassification for this year",
			fromName, toName, to,
		), true
	}

	return "", false
}

func confidenceSuffix(confidence *int) string {
	if confidence == nil {
		return ""
	}
	return fmt.Sprintf(" (%d%% confidence)", *confidence)
}
