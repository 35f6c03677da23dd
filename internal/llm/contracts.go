package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Clause is one structured record describing a single contract clause's risk
// assessment, as requested from the model.
type Clause struct {
	ClauseID                  int      `json:"clause_id"`
	OriginalText              string   `json:"original_text"`
	SimplifiedText            string   `json:"simplified_text"`
	RiskCategory              string   `json:"risk_category"`
	Severity                  string   `json:"severity"`
	WhyItMatters              string   `json:"why_it_matters"`
	ActionableRecommendations []string `json:"actionable_recommendations"`
}

// AnalysisResult is the target top-level shape of a recovered analysis.
type AnalysisResult struct {
	Clauses                          []Clause `json:"clauses"`
	ActionableRecommendationsSummary []string `json:"actionable_recommendations_summary"`
}

// Analyzer is the generative-text collaborator the pipeline depends on: one
// rendered prompt in, one free-form text response out.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// DecodeAnalysis re-marshals a recovered JSON value into the typed shape.
// Recovery itself never enforces this shape; the typed view is best-effort
// and feeds presentation extras (XLSX table, summary rendering) only.
func DecodeAnalysis(v any) (*AnalysisResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode recovered value: %w", err)
	}
	var res AnalysisResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("decode analysis shape: %w", err)
	}
	return &res, nil
}
