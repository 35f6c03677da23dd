package async

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractscan/contract-risk-scanner/internal/export"
	"github.com/contractscan/contract-risk-scanner/internal/extract"
	"github.com/contractscan/contract-risk-scanner/internal/pipeline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingExtractor struct {
	mu    sync.Mutex
	seen  int
	texts []string
}

func (c *countingExtractor) Extract(_ context.Context, content []byte, _ string) (extract.TextExtractionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen++
	c.texts = append(c.texts, string(content))
	return extract.TextExtractionResult{Text: string(content), Pages: 1, Method: "pdf-text"}, nil
}

type staticAnalyzer struct{}

func (staticAnalyzer) Analyze(_ context.Context, _ string) (string, error) {
	return `{"clauses": [], "actionable_recommendations_summary": []}`, nil
}

func TestQueueProcessesAllJobsAndDrains(t *testing.T) {
	ex := &countingExtractor{}
	proc := pipeline.NewProcessor(nil,
		pipeline.NewExtractStage(nil, ex, nil),
		pipeline.NewAnalyzeStage(nil, pipeline.Config{}, staticAnalyzer{}),
		export.NewService(t.TempDir(), nil),
	)

	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("content of "+name), 0o644))
		jobs = append(jobs, Job{Path: path, SubmittedAt: time.Now()})
	}

	q := NewProcessorQueue(proc, testLogger(), WithWorkers(2), WithQueueSize(8))
	for _, job := range jobs {
		require.NoError(t, q.Enqueue(context.Background(), job))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	ex.mu.Lock()
	defer ex.mu.Unlock()
	assert.Equal(t, 3, ex.seen)
}

func TestEnqueueAfterShutdownIsNoop(t *testing.T) {
	proc := pipeline.NewProcessor(nil,
		pipeline.NewExtractStage(nil, &countingExtractor{}, nil),
		pipeline.NewAnalyzeStage(nil, pipeline.Config{}, staticAnalyzer{}),
		nil,
	)

	q := NewProcessorQueue(proc, testLogger(), WithWorkers(1))
	q.Shutdown(context.Background())

	// must not panic on the closed channel
	assert.NoError(t, q.Enqueue(context.Background(), Job{Path: "/nope.pdf"}))
}

func TestShutdownIsIdempotent(t *testing.T) {
	proc := pipeline.NewProcessor(nil,
		pipeline.NewExtractStage(nil, &countingExtractor{}, nil),
		pipeline.NewAnalyzeStage(nil, pipeline.Config{}, staticAnalyzer{}),
		nil,
	)

	q := NewProcessorQueue(proc, testLogger(), WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
}
