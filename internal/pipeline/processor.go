package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contractscan/contract-risk-scanner/constants"
	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/export"
)

// Processor coordinates one full scan run: upload+extract, then analyze,
// then artifact staging. Each run is independent and synchronous; the only
// suspension points are the collaborators' blocking calls.
type Processor struct {
	Logger   *slog.Logger
	Extract  *ExtractStage
	Analyze  *AnalyzeStage
	Exporter *export.Service
}

func NewProcessor(logger *slog.Logger, ex *ExtractStage, an *AnalyzeStage, exp *export.Service) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extract: ex, Analyze: an, Exporter: exp}
}

// RunResult is the full outcome of one scan run.
type RunResult struct {
	RunID         uuid.UUID
	StorageURI    string
	ExtractedText string
	Raw           string
	Analysis      any
	Recovered     bool
	NeedsReview   bool
	Artifacts     export.Artifacts
}

// ProcessContract runs the pipeline for one uploaded contract. Upload,
// extraction and generation failures halt the run; an unrecoverable model
// reply degrades to a raw-text result and the run still succeeds.
func (p *Processor) ProcessContract(ctx context.Context, filename string, content []byte) (*RunResult, error) {
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())

	p.Logger.Info("processor.run.start", "run_id", runID, "filename", filename, "bytes", len(content))

	ext, err := p.Extract.Run(ctx, filename, content)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "run_id", runID, "status", constants.RunStatusFailed, "err", err)
		return nil, err
	}
	p.Logger.Info("processor.extract.ok",
		"run_id", runID,
		"status", constants.RunStatusExtractOK,
		"method", ext.Method,
		"pages", ext.Pages,
		"uri", ext.StorageURI,
	)

	an, err := p.Analyze.Run(ctx, ext.Text)
	if err != nil {
		p.Logger.Error("processor.analyze.failed", "run_id", runID, "status", constants.RunStatusFailed, "err", err)
		return nil, err
	}

	res := &RunResult{
		RunID:         runID,
		StorageURI:    ext.StorageURI,
		ExtractedText: ext.Text,
		Raw:           an.Raw,
		Analysis:      an.Value,
		Recovered:     an.Recovered,
		NeedsReview:   an.NeedsReview,
	}

	if p.Exporter != nil {
		art, err := p.Exporter.Stage(runID, ext.Text, an.Raw, an.Value, an.Recovered)
		if err != nil {
			p.Logger.Error("processor.stage.failed", "run_id", runID, "status", constants.RunStatusFailed, "err", err)
			return nil, err
		}
		res.Artifacts = art
	}

	p.Logger.Info("processor.run.ok",
		"run_id", runID,
		"status", res.Status(),
		"recovered", res.Recovered,
		"needs_review", res.NeedsReview,
	)
	return res, nil
}

// Status reports the terminal run state: ANALYZED when a structured result
// was recovered, RAW_ONLY when only the verbatim model text survived.
func (r *RunResult) Status() constants.RunStatus {
	if r.Recovered {
		return constants.RunStatusAnalyzed
	}
	return constants.RunStatusRawOnly
}
