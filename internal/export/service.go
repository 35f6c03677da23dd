package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/contractscan/contract-risk-scanner/internal/llm"
)

// Fixed artifact filenames offered for download.
const (
	FileAnalysisJSON  = "contract_risk_analysis.json"
	FileAnalysisTXT   = "contract_risk_analysis.txt"
	FileExtractedText = "extracted_contract_text.txt"
	FileClauseXLSX    = "contract_risk_analysis.xlsx"
)

// Artifacts lists what was staged for one run. Empty name means the artifact
// was not produced for this run.
type Artifacts struct {
	Dir           string `json:"-"`
	ExtractedText string `json:"extracted_text,omitempty"`
	AnalysisJSON  string `json:"analysis_json,omitempty"`
	AnalysisTXT   string `json:"analysis_txt,omitempty"`
	ClauseXLSX    string `json:"clause_xlsx,omitempty"`
}

// Names returns the staged filenames.
func (a Artifacts) Names() []string {
	var names []string
	for _, n := range []string{a.ExtractedText, a.AnalysisJSON, a.AnalysisTXT, a.ClauseXLSX} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Service stages per-run download artifacts under a root directory. The
// staging area is incidental and non-durable; nothing reads it back except
// the download handlers.
type Service struct {
	root   string
	logger *slog.Logger
}

func NewService(root string, logger *slog.Logger) *Service {
	if root == "" {
		root = "./tmp"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{root: root, logger: logger}
}

// RunDir returns the staging directory for a run.
func (s *Service) RunDir(runID uuid.UUID) string {
	return filepath.Join(s.root, runID.String())
}

// Stage writes the run's artifacts: the extracted text, then either the
// pretty-printed analysis JSON (plus a clause-table XLSX when the recovered
// value fits the typed shape) or the raw fallback text.
func (s *Service) Stage(runID uuid.UUID, extractedText, raw string, analysis any, recovered bool) (Artifacts, error) {
	dir := s.RunDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create staging dir: %w", err)
	}
	art := Artifacts{Dir: dir}

	if err := os.WriteFile(filepath.Join(dir, FileExtractedText), []byte(extractedText), 0o644); err != nil {
		return art, fmt.Errorf("stage extracted text: %w", err)
	}
	art.ExtractedText = FileExtractedText

	if !recovered {
		if err := os.WriteFile(filepath.Join(dir, FileAnalysisTXT), []byte(raw), 0o644); err != nil {
			return art, fmt.Errorf("stage raw analysis: %w", err)
		}
		art.AnalysisTXT = FileAnalysisTXT
		s.logger.Warn("export.staged_raw_fallback", "run_id", runID, "dir", dir)
		return art, nil
	}

	pretty, err := PrettyJSON(analysis)
	if err != nil {
		return art, fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileAnalysisJSON), pretty, 0o644); err != nil {
		return art, fmt.Errorf("stage analysis json: %w", err)
	}
	art.AnalysisJSON = FileAnalysisJSON

	// Clause table is best-effort; a recovered value that doesn't fit the
	// typed shape still ships as JSON.
	if res, err := llm.DecodeAnalysis(analysis); err == nil && len(res.Clauses) > 0 {
		xlsxBytes, err := BuildClauseWorkbook(res)
		if err != nil {
			s.logger.Warn("export.xlsx_failed", "run_id", runID, "error", err)
		} else if err := os.WriteFile(filepath.Join(dir, FileClauseXLSX), xlsxBytes, 0o644); err != nil {
			s.logger.Warn("export.xlsx_write_failed", "run_id", runID, "error", err)
		} else {
			art.ClauseXLSX = FileClauseXLSX
		}
	}

	s.logger.Info("export.staged", "run_id", runID, "dir", dir, "artifacts", len(art.Names()))
	return art, nil
}

// PrettyJSON renders a recovered value the way it is offered for download:
// two-space indent, non-ASCII left unescaped.
func PrettyJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MIMEFor maps an artifact filename to its download content type.
func MIMEFor(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// BuildClauseWorkbook renders the clause table as an XLSX workbook.
func BuildClauseWorkbook(res *llm.AnalysisResult) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Clauses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Clause ID",
		"Risk Category",
		"Severity",
		"Simplified Text",
		"Why It Matters",
		"Recommendations",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range res.Clauses {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, c.ClauseID)
		write(2, c.RiskCategory)
		write(3, c.Severity)
		write(4, c.SimplifiedText)
		write(5, c.WhyItMatters)
		write(6, joinLines(c.ActionableRecommendations))
		row++
	}

	// Summary block under the table
	if len(res.ActionableRecommendationsSummary) > 0 {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheet, cell, "Overall Recommendations")
		for _, item := range res.ActionableRecommendationsSummary {
			row++
			cell, _ := excelize.CoordinatesToCellName(2, row)
			_ = f.SetCellValue(sheet, cell, item)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinLines(items []string) string {
	var buf bytes.Buffer
	for i, it := range items {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(it)
	}
	return buf.String()
}
