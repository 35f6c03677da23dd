package constants

import (
	"strings"
)

// RiskCategory is the clause-level risk taxonomy fed to the analysis prompt.
// Recovered model output is NOT validated against this set; it only shapes the
// prompt and the optional strict schema.
type RiskCategory string

const (
	Termination       RiskCategory = "Termination"
	Compensation      RiskCategory = "Compensation"
	Confidentiality   RiskCategory = "Confidentiality"
	Liability         RiskCategory = "Liability"
	NonCompete        RiskCategory = "Non-compete"
	DataSharing       RiskCategory = "Data Sharing"
	Jurisdiction      RiskCategory = "Jurisdiction"
	AutoRenewal       RiskCategory = "Auto-Renewal"
	PenaltyFees       RiskCategory = "Penalty Fees"
	UnilateralChanges RiskCategory = "Unilateral Changes"
	Other             RiskCategory = "Other"
)

var allCategories = []RiskCategory{
	Termination,
	Compensation,
	Confidentiality,
	Liability,
	NonCompete,
	DataSharing,
	Jurisdiction,
	AutoRenewal,
	PenaltyFees,
	UnilateralChanges,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize folds a free-form category label onto the taxonomy.
// Returns Other and false when the label is unknown.
func Canonicalize(input string) (RiskCategory, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]RiskCategory{
		"cancellation":       Termination,
		"notice period":      Termination,
		"payment":            Compensation,
		"fees":               Compensation,
		"nda":                Confidentiality,
		"non-disclosure":     Confidentiality,
		"indemnity":          Liability,
		"indemnification":    Liability,
		"noncompete":         NonCompete,
		"non compete":        NonCompete,
		"data privacy":       DataSharing,
		"data protection":    DataSharing,
		"governing law":      Jurisdiction,
		"venue":              Jurisdiction,
		"renewal":            AutoRenewal,
		"autorenewal":        AutoRenewal,
		"late fees":          PenaltyFees,
		"liquidated damages": PenaltyFees,
		"amendment":          UnilateralChanges,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
