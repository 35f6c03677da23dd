package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/contractscan/contract-risk-scanner/constants"
	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/export"
	"github.com/contractscan/contract-risk-scanner/internal/extract"
	"github.com/contractscan/contract-risk-scanner/internal/llm/gemini"
	"github.com/contractscan/contract-risk-scanner/internal/pipeline"
	"github.com/contractscan/contract-risk-scanner/internal/storage"
)

// scan analyzes a single local contract PDF and prints the result. Object
// storage is skipped unless STORAGE_ENDPOINT is configured, so the tool works
// against nothing but an extraction path and a Gemini key.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	local := flag.Bool("local", false, "extract PDF text in-process instead of the remote service")
	outDir := flag.String("out", "", "staging directory for artifacts (default: STAGING_DIR)")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall run timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scan [-local] [-out dir] <contract.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)
	if !constants.AllowedExt(filepath.Ext(path)) {
		fmt.Fprintf(os.Stderr, "unsupported file type: %s\n", path)
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *local {
		cfg.Extract.Mode = common.ExtractModeLocal
	}
	if *outDir != "" {
		cfg.Pipeline.StagingDir = *outDir
	}
	if cfg.Gemini.APIKey == "" {
		fmt.Fprintln(os.Stderr, "GEMINI_API_KEY env var is required")
		os.Exit(2)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read contract: %v\n", err)
		os.Exit(1)
	}

	var store storage.ObjectStore
	if cfg.Storage.Endpoint != "" {
		minioStore, err := storage.NewMinIOStore(cfg.Storage, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "object store: %v\n", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := processor.ProcessContract(ctx, filepath.Base(path), content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	if res.Recovered {
		pretty, err := export.PrettyJSON(res.Analysis)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render analysis: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(pretty))
	} else {
		fmt.Fprintln(os.Stderr, "model output was not recoverable as JSON; raw output follows")
		fmt.Println(res.Raw)
	}
	fmt.Fprintf(os.Stderr, "artifacts staged in %s\n", res.Artifacts.Dir)
}
