package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/contractscan/contract-risk-scanner/constants"
	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/extract"
	"github.com/contractscan/contract-risk-scanner/internal/storage"
)

// ExtractStage uploads the contract to object storage, reads the stored
// bytes back, and runs text extraction on them. Store may be nil for local
// one-shot runs; the upload is then skipped and extraction reads the input
// bytes directly.
type ExtractStage struct {
	Store     storage.ObjectStore
	Extractor extract.TextExtractor
	Logger    *slog.Logger
}

func NewExtractStage(store storage.ObjectStore, tx extract.TextExtractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Store: store, Extractor: tx, Logger: logger}
}

// ExtractOutcome is what the stage hands to analysis.
type ExtractOutcome struct {
	StorageURI string
	Text       string
	Pages      int
	Method     string
}

func (s *ExtractStage) Run(ctx context.Context, filename string, content []byte) (ExtractOutcome, error) {
	var out ExtractOutcome

	if len(content) == 0 {
		return out, common.WrapError(common.ErrInvalidInput, "empty document")
	}

	docBytes := content
	if s.Store != nil {
		up, err := s.Store.Upload(ctx, bytes.NewReader(content), int64(len(content)), filename)
		if err != nil {
			return out, fmt.Errorf("%w: %v", common.ErrUpload, err)
		}
		out.StorageURI = up.URI

		// read the stored object back so extraction always runs on exactly
		// what was persisted
		docBytes, err = s.Store.Download(ctx, up.Key)
		if err != nil {
			return out, fmt.Errorf("%w: %v", common.ErrUpload, err)
		}
	} else {
		s.Logger.Debug("pipeline.extract.no_store", "filename", filename)
	}

	res, err := s.Extractor.Extract(ctx, docBytes, constants.MIMEPDF)
	if err != nil {
		return out, fmt.Errorf("%w: %v", common.ErrExtraction, err)
	}

	out.Text = res.Text
	out.Pages = res.Pages
	out.Method = res.Method

	s.Logger.Info("pipeline.extract.ok",
		"filename", filename,
		"method", res.Method,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"warnings", len(res.Warnings),
	)
	return out, nil
}
