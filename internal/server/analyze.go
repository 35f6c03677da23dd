package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/contractscan/contract-risk-scanner/constants"
	"github.com/contractscan/contract-risk-scanner/internal/common"
	"github.com/contractscan/contract-risk-scanner/internal/export"
)

// analyzeResponse is the JSON body for a completed run. Exactly one of
// Analysis and RawOutput is populated, depending on whether the model's
// reply was recoverable.
type analyzeResponse struct {
	RunID       string           `json:"run_id"`
	StorageURI  string           `json:"storage_uri,omitempty"`
	Recovered   bool             `json:"recovered"`
	NeedsReview bool             `json:"needs_review,omitempty"`
	Analysis    any              `json:"analysis,omitempty"`
	RawOutput   string           `json:"raw_output,omitempty"`
	Artifacts   export.Artifacts `json:"artifacts"`
}

func (s *ScannerService) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reqID := common.RequestIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.logger.Error("analyze request body invalid", "req_id", reqID, "error", err)
		writeError(w, http.StatusBadRequest, "multipart form with a 'file' field is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.logger.Error("analyze request missing file field", "req_id", reqID, "error", err)
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("upload close error", "req_id", reqID, "error", err)
		}
	}()

	if !constants.AllowedExt(filepath.Ext(header.Filename)) {
		s.logger.Error("analyze request unsupported extension", "req_id", reqID, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "only PDF uploads are supported")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("analyze request read failed", "req_id", reqID, "error", err)
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	s.logger.Info("analyze run starting", "req_id", reqID, "filename", header.Filename, "bytes", len(content))

	res, err := s.proc.ProcessContract(r.Context(), header.Filename, content)
	if err != nil {
		s.logger.Error("analyze run failed", "req_id", reqID, "err", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := analyzeResponse{
		RunID:       res.RunID.String(),
		StorageURI:  res.StorageURI,
		Recovered:   res.Recovered,
		NeedsReview: res.NeedsReview,
		Artifacts:   res.Artifacts,
	}
	if res.Recovered {
		resp.Analysis = res.Analysis
	} else {
		resp.RawOutput = res.Raw
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *ScannerService) handleDownload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	runID, err := uuid.Parse(vars["run_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "run_id must be a UUID")
		return
	}

	artifact := vars["artifact"]
	if !allowedArtifact(artifact) {
		writeError(w, http.StatusNotFound, "unknown artifact")
		return
	}

	path := filepath.Join(s.exporter.RunDir(runID), artifact)
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "artifact not staged for this run")
		return
	}
	defer func() {
		_ = f.Close()
	}()

	w.Header().Set("Content-Type", export.MIMEFor(artifact))
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact+`"`)
	if _, err := io.Copy(w, f); err != nil {
		s.logger.Warn("artifact download interrupted", "run_id", runID, "artifact", artifact, "error", err)
	}
}

func allowedArtifact(name string) bool {
	switch name {
	case export.FileAnalysisJSON, export.FileAnalysisTXT, export.FileExtractedText, export.FileClauseXLSX:
		return true
	}
	return false
}

// statusFor maps run failures onto HTTP statuses: bad input is the caller's
// fault, collaborator failures are upstream errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUpload), errors.Is(err, common.ErrExtraction), errors.Is(err, common.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
