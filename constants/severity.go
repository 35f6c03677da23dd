package constants

import "strings"

// Severity is the per-clause risk severity scale from the prompt contract.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

var allSeverities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

func SeveritiesAsStringSlice() []string {
	result := make([]string, len(allSeverities))
	for i, s := range allSeverities {
		result[i] = string(s)
	}
	return result
}

// ParseSeverity matches a label case-insensitively. Unknown labels return
// false; callers decide whether that matters (recovered output keeps whatever
// the model said).
func ParseSeverity(input string) (Severity, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, s := range allSeverities {
		if normalized == strings.ToLower(string(s)) {
			return s, true
		}
	}
	return "", false
}
