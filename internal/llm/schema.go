package llm

import "github.com/contractscan/contract-risk-scanner/constants"

// BuildAnalysisJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the documented analysis shape. Recovery never uses
// it; it backs the optional strict post-validation step only.
func BuildAnalysisJSONSchema() map[string]any {
	clause := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clause_id":       map[string]any{"type": "integer", "minimum": 1},
			"original_text":   map[string]any{"type": "string"},
			"simplified_text": map[string]any{"type": "string"},
			"risk_category": map[string]any{
				"type": "string",
				"enum": constants.AsStringSlice(),
			},
			"severity": map[string]any{
				"type": "string",
				"enum": constants.SeveritiesAsStringSlice(),
			},
			"why_it_matters": map[string]any{"type": "string"},
			"actionable_recommendations": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
				"maxItems": 3,
			},
		},
		"required": []string{
			"clause_id", "original_text", "simplified_text",
			"risk_category", "severity", "why_it_matters",
			"actionable_recommendations",
		},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clauses": map[string]any{
				"type":     "array",
				"items":    clause,
				"maxItems": 20,
			},
			"actionable_recommendations_summary": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"clauses", "actionable_recommendations_summary"},
	}
}
