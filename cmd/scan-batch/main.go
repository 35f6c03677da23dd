package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/contractscan/contract-risk-scanner/constants"
	"github.com/contractscan/contract-risk-scanner/internal/async"
	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/export"
	"github.com/contractscan/contract-risk-scanner/internal/extract"
	"github.com/contractscan/contract-risk-scanner/internal/llm/gemini"
	"github.com/contractscan/contract-risk-scanner/internal/pipeline"
	"github.com/contractscan/contract-risk-scanner/internal/storage"
)

// scan-batch walks a directory of contract PDFs and runs each through the
// pipeline on a worker pool. Failures are logged per file and do not stop
// the batch.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	dir := flag.String("dir", ".", "directory to scan for contract PDFs")
	workers := flag.Int("workers", 4, "number of concurrent pipeline workers")
	perFile := flag.Duration("timeout", 3*time.Minute, "per-file processing timeout")
	local := flag.Bool("local", false, "extract PDF text in-process instead of the remote service")
	flag.Parse()

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *local {
		cfg.Extract.Mode = common.ExtractModeLocal
	}
	if cfg.Gemini.APIKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY env var is required")
		os.Exit(2)
	}

	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		minioStore, err := storage.NewMinIOStore(cfg.Storage, logger)
		if err != nil {
			logger.Error("failed to create object store", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			logger.Error("failed to ensure bucket", "bucket", cfg.Storage.Bucket, "error", err)
			os.Exit(1)
		}
		store = minioStore
	}

	var extractor extract.TextExtractor
	switch cfg.Extract.Mode {
	case common.ExtractModeLocal:
		extractor = extract.NewLocalPDFExtractor(logger)
	default:
		extractor = extract.NewDocAIClient(cfg.Extract, logger)
	}

	analyzer := gemini.NewClient(gemini.FromCommonConfig(cfg.Gemini), logger)
	exporter := export.NewService(cfg.Pipeline.StagingDir, logger)

	processor := pipeline.NewProcessor(logger,
		pipeline.NewExtractStage(store, extractor, logger),
		pipeline.NewAnalyzeStage(logger, pipeline.Config{
			ExcerptChars:   cfg.Pipeline.ExcerptChars,
			StrictValidate: cfg.Pipeline.StrictValidate,
		}, analyzer),
		exporter,
	)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(*workers),
		async.WithProcessTimeout(*perFile),
	)

	ctx := context.Background()
	var queued int
	err := filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !constants.AllowedExt(filepath.Ext(path)) {
			return nil
		}
		queued++
		return queue.Enqueue(ctx, async.Job{
			Path:        path,
			SubmittedAt: time.Now(),
			TraceID:     uuid.New().String(),
		})
	})
	if err != nil {
		logger.Error("directory walk failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if queued == 0 {
		logger.Warn("no PDF files found", "dir", *dir)
	} else {
		logger.Info("batch queued", "dir", *dir, "files", queued, "workers", *workers)
	}

	queue.Shutdown(ctx)
}
