package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/contractscan/contract-risk-scanner/constants"
)

// LocalPDFExtractor reads embedded PDF text in-process. It is the fallback
// for runs without a remote processor configured; scanned (image-only) PDFs
// yield ErrNoText since no OCR happens locally.
type LocalPDFExtractor struct {
	log *slog.Logger
}

func NewLocalPDFExtractor(logger *slog.Logger) *LocalPDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalPDFExtractor{log: logger}
}

func (e *LocalPDFExtractor) Extract(ctx context.Context, content []byte, mimeType string) (TextExtractionResult, error) {
	start := time.Now()

	if mimeType != constants.MIMEPDF {
		return TextExtractionResult{}, fmt.Errorf("local extractor supports %s only, got %q", constants.MIMEPDF, mimeType)
	}
	if len(content) == 0 {
		return TextExtractionResult{}, ErrNoDocument
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	var warnings []string
	numPages := r.NumPage()

	for pageIndex := 1; pageIndex <= numPages; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return TextExtractionResult{}, err
		}
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		str, err := p.GetPlainText(nil)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", pageIndex, err))
			continue
		}
		b.WriteString(str)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		e.log.Warn("extract.pdf.no_text", "pages", numPages, "warnings", len(warnings))
		return TextExtractionResult{}, ErrNoText
	}

	res := TextExtractionResult{
		Text:     text,
		Pages:    numPages,
		Method:   "pdf-text",
		Duration: time.Since(start),
		Warnings: warnings,
	}
	e.log.Info("extract.pdf.ok", "pages", res.Pages, "text_bytes", len(res.Text), "elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}
