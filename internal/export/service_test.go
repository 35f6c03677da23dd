package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/contractscan/contract-risk-scanner/internal/llm"
)

func sampleAnalysis() map[string]any {
	return map[string]any{
		"clauses": []any{
			map[string]any{
				"clause_id":                  float64(1),
				"original_text":              "Provider may modify fees at any time.",
				"simplified_text":            "Fees can change without your agreement.",
				"risk_category":              "Unilateral Changes",
				"severity":                   "High",
				"why_it_matters":             "Costs are unpredictable.",
				"actionable_recommendations": []any{"Require written consent for fee changes."},
			},
		},
		"actionable_recommendations_summary": []any{"Lock in pricing for the initial term."},
	}
}

func TestStageRecoveredRun(t *testing.T) {
	svc := NewService(t.TempDir(), nil)
	runID := uuid.New()

	art, err := svc.Stage(runID, "extracted text here", "", sampleAnalysis(), true)
	require.NoError(t, err)

	assert.Equal(t, svc.RunDir(runID), art.Dir)
	assert.Equal(t, FileExtractedText, art.ExtractedText)
	assert.Equal(t, FileAnalysisJSON, art.AnalysisJSON)
	assert.Empty(t, art.AnalysisTXT)
	assert.Equal(t, FileClauseXLSX, art.ClauseXLSX)

	text, err := os.ReadFile(filepath.Join(art.Dir, FileExtractedText))
	require.NoError(t, err)
	assert.Equal(t, "extracted text here", string(text))

	jsonBytes, err := os.ReadFile(filepath.Join(art.Dir, FileAnalysisJSON))
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"risk_category": "Unilateral Changes"`)

	f, err := excelize.OpenFile(filepath.Join(art.Dir, FileClauseXLSX))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	got, err := f.GetCellValue("Clauses", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Unilateral Changes", got)
}

func TestStageRawFallback(t *testing.T) {
	svc := NewService(t.TempDir(), nil)
	runID := uuid.New()

	art, err := svc.Stage(runID, "extracted", "not json at all", nil, false)
	require.NoError(t, err)

	assert.Equal(t, FileAnalysisTXT, art.AnalysisTXT)
	assert.Empty(t, art.AnalysisJSON)
	assert.Empty(t, art.ClauseXLSX)

	raw, err := os.ReadFile(filepath.Join(art.Dir, FileAnalysisTXT))
	require.NoError(t, err)
	assert.Equal(t, "not json at all", string(raw))
}

func TestStageSkipsXLSXWhenShapeDoesNotFit(t *testing.T) {
	svc := NewService(t.TempDir(), nil)

	art, err := svc.Stage(uuid.New(), "extracted", "", map[string]any{"whatever": 1}, true)
	require.NoError(t, err)

	assert.Equal(t, FileAnalysisJSON, art.AnalysisJSON)
	assert.Empty(t, art.ClauseXLSX)
}

func TestPrettyJSON(t *testing.T) {
	out, err := PrettyJSON(map[string]any{"a": "<b>", "c": []any{float64(1)}})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "\n  ")
	assert.Contains(t, s, "<b>", "HTML escaping must be off")
	assert.False(t, s[len(s)-1] == '\n')
}

func TestMIMEFor(t *testing.T) {
	assert.Equal(t, "application/json", MIMEFor(FileAnalysisJSON))
	assert.Equal(t, "text/plain; charset=utf-8", MIMEFor(FileAnalysisTXT))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", MIMEFor(FileClauseXLSX))
	assert.Equal(t, "application/octet-stream", MIMEFor("something.bin"))
}

func TestBuildClauseWorkbookSummaryBlock(t *testing.T) {
	res := &llm.AnalysisResult{
		Clauses: []llm.Clause{{
			ClauseID:                  1,
			RiskCategory:              "Liability",
			Severity:                  "Medium",
			SimplifiedText:            "Liability is uncapped.",
			WhyItMatters:              "Exposure is unlimited.",
			ActionableRecommendations: []string{"Add a liability cap.", "Carve out gross negligence."},
		}},
		ActionableRecommendationsSummary: []string{"Negotiate a cap."},
	}

	b, err := BuildClauseWorkbook(res)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	tmp := filepath.Join(t.TempDir(), "wb.xlsx")
	require.NoError(t, os.WriteFile(tmp, b, 0o644))
	f, err := excelize.OpenFile(tmp)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	recs, err := f.GetCellValue("Clauses", "F2")
	require.NoError(t, err)
	assert.Contains(t, recs, "Add a liability cap.")

	label, err := f.GetCellValue("Clauses", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Overall Recommendations", label)
}
