package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wellFormedAnalysis() map[string]any {
	return map[string]any{
		"clauses": []any{
			map[string]any{
				"clause_id":                  1,
				"original_text":              "Either party may terminate with 5 days notice.",
				"simplified_text":            "The contract can end on very short notice.",
				"risk_category":              "Termination",
				"severity":                   "High",
				"why_it_matters":             "Five days gives no time to find a replacement vendor.",
				"actionable_recommendations": []any{"Negotiate a 30-day notice period."},
			},
		},
		"actionable_recommendations_summary": []any{
			"Extend the termination notice period.",
			"Cap liability exposure.",
			"Clarify renewal terms.",
		},
	}
}

func TestValidateAnalysisAccepted(t *testing.T) {
	require.NoError(t, ValidateAnalysis(wellFormedAnalysis()))
}

func TestValidateAnalysisRejectsUnknownSeverity(t *testing.T) {
	v := wellFormedAnalysis()
	v["clauses"].([]any)[0].(map[string]any)["severity"] = "Catastrophic"
	assert.Error(t, ValidateAnalysis(v))
}

func TestValidateAnalysisRejectsMissingTopLevelKey(t *testing.T) {
	v := wellFormedAnalysis()
	delete(v, "actionable_recommendations_summary")
	assert.Error(t, ValidateAnalysis(v))
}

func TestValidateAnalysisRejectsEmptyRecommendations(t *testing.T) {
	v := wellFormedAnalysis()
	v["clauses"].([]any)[0].(map[string]any)["actionable_recommendations"] = []any{}
	assert.Error(t, ValidateAnalysis(v))
}

func TestDecodeAnalysisTypedView(t *testing.T) {
	res, err := DecodeAnalysis(wellFormedAnalysis())
	require.NoError(t, err)
	require.Len(t, res.Clauses, 1)
	assert.Equal(t, 1, res.Clauses[0].ClauseID)
	assert.Equal(t, "Termination", res.Clauses[0].RiskCategory)
	assert.Len(t, res.ActionableRecommendationsSummary, 3)
}
