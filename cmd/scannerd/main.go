package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/export"
	"github.com/contractscan/contract-risk-scanner/internal/extract"
	"github.com/contractscan/contract-risk-scanner/internal/llm/gemini"
	"github.com/contractscan/contract-risk-scanner/internal/pipeline"
	"github.com/contractscan/contract-risk-scanner/internal/server"
	"github.com/contractscan/contract-risk-scanner/internal/storage"
)

func main() {
	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time and level attributes, keep message and other variables
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Object storage (upload collaborator)
	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		minioStore, err := storage.NewMinIOStore(cfg.Storage, logger)
		if err != nil {
			logger.Error("failed to create object store", "error", err)
			os.Exit(1)
		}
		if err := minioStore.EnsureBucket(ctx); err != nil {
			logger.Error("failed to ensure bucket", "bucket", cfg.Storage.Bucket, "error", err)
			os.Exit(1)
		}
		store = minioStore
	} else {
		logger.Warn("STORAGE_ENDPOINT not set; uploads will not be persisted to object storage")
	}

	// Text extraction collaborator
	var extractor extract.TextExtractor
	switch cfg.Extract.Mode {
	case common.ExtractModeLocal:
		extractor = extract.NewLocalPDFExtractor(logger)
	default:
		extractor = extract.NewDocAIClient(cfg.Extract, logger)
	}

	// Generative-text collaborator
	analyzer := gemini.NewClient(gemini.FromCommonConfig(cfg.Gemini), logger)

	// Pipeline wiring
	exporter := export.NewService(cfg.Pipeline.StagingDir, logger)
	extractStage := pipeline.NewExtractStage(store, extractor, logger)
	analyzeStage := pipeline.NewAnalyzeStage(logger, pipeline.Config{
		ExcerptChars:   cfg.Pipeline.ExcerptChars,
		StrictValidate: cfg.Pipeline.StrictValidate,
	}, analyzer)
	processor := pipeline.NewProcessor(logger, extractStage, analyzeStage, exporter)

	svc := server.NewScannerService(processor, exporter, cfg.Server.MaxUploadBytes, logger)
	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: svc.Router(),
	}

	logger.Info("contract-risk-scanner listening", "addr", cfg.Server.HTTPAddr, "extractor", cfg.Extract.Mode)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
