package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/export"
	"github.com/contractscan/contract-risk-scanner/internal/pipeline"
)

// ScannerService is the HTTP surface: one analyze endpoint, per-run artifact
// downloads, and a health probe.
type ScannerService struct {
	proc           *pipeline.Processor
	exporter       *export.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewScannerService(proc *pipeline.Processor, exporter *export.Service, maxUploadBytes int64, logger *slog.Logger) *ScannerService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 * 1024 * 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScannerService{
		proc:           proc,
		exporter:       exporter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Router wires all routes with request logging.
func (s *ScannerService) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/v1/runs/{run_id}/{artifact}", s.handleDownload).Methods(http.MethodGet)

	return r
}

func (s *ScannerService) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *ScannerService) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		start := time.Now()

		ctx := common.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))

		s.logger.Info("http.request",
			"req_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
