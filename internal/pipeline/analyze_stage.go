package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/llm"
)

// Config holds behavior flags for the analyze stage.
type Config struct {
	ExcerptChars   int  // default 5000
	StrictValidate bool // optional schema post-check; flags, never rejects
}

// AnalyzeStage renders the fixed prompt, calls the generative-text
// collaborator, and recovers structured JSON from its reply.
type AnalyzeStage struct {
	Logger   *slog.Logger
	Cfg      Config
	Analyzer llm.Analyzer
}

func NewAnalyzeStage(logger *slog.Logger, cfg Config, analyzer llm.Analyzer) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = llm.DefaultExcerptChars
	}
	return &AnalyzeStage{Logger: logger, Cfg: cfg, Analyzer: analyzer}
}

// AnalyzeOutcome carries the raw model text plus the recovered value, if any.
// Recovered=false is not a failure: the orchestrator presents Raw verbatim.
type AnalyzeOutcome struct {
	Raw         string
	Value       any
	Recovered   bool
	NeedsReview bool
}

func (s *AnalyzeStage) Run(ctx context.Context, contractText string) (AnalyzeOutcome, error) {
	var out AnalyzeOutcome

	prompt := llm.BuildAnalysisPrompt(contractText, s.Cfg.ExcerptChars)
	raw, err := s.Analyzer.Analyze(ctx, prompt)
	if err != nil {
		return out, fmt.Errorf("%w: %v", common.ErrGeneration, err)
	}
	out.Raw = raw

	value, ok := llm.Recover(raw)
	if !ok {
		s.Logger.Warn("pipeline.analyze.not_recoverable",
			"run_id", common.RunIDFromContext(ctx),
			"raw_bytes", len(raw),
		)
		return out, nil
	}
	out.Value = value
	out.Recovered = true

	if s.Cfg.StrictValidate {
		if err := llm.ValidateAnalysis(value); err != nil {
			out.NeedsReview = true
			s.Logger.Warn("pipeline.analyze.schema_mismatch", "error", err)
		}
	}

	s.Logger.Info("pipeline.analyze.ok",
		"run_id", common.RunIDFromContext(ctx),
		"raw_bytes", len(raw),
		"recovered", out.Recovered,
		"needs_review", out.NeedsReview,
	)
	return out, nil
}
