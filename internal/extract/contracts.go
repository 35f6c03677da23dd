package extract

import (
	"context"
	"errors"
	"time"
)

// TextExtractor is Stage 1: document bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte, mimeType string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "docai" | "pdf-text"
	Duration time.Duration
	Warnings []string
}

// Explicit collaborator failures, surfaced to the user verbatim.
var (
	// ErrNoDocument means the service answered but returned no document object.
	ErrNoDocument = errors.New("extraction service returned no document")
	// ErrNoText means extraction ran but produced no text (scanned or image-only file).
	ErrNoText = errors.New("no text extracted from document")
)
