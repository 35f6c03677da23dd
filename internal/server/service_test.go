package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractscan/contract-risk-scanner/internal/export"
	"github.com/contractscan/contract-risk-scanner/internal/extract"
	"github.com/contractscan/contract-risk-scanner/internal/pipeline"
)

type stubExtractor struct{ text string }

func (s *stubExtractor) Extract(_ context.Context, _ []byte, _ string) (extract.TextExtractionResult, error) {
	return extract.TextExtractionResult{Text: s.text, Pages: 1, Method: "pdf-text"}, nil
}

type stubAnalyzer struct{ reply string }

func (s *stubAnalyzer) Analyze(_ context.Context, _ string) (string, error) {
	return s.reply, nil
}

func newTestService(t *testing.T, reply string) *ScannerService {
	t.Helper()
	exporter := export.NewService(t.TempDir(), nil)
	proc := pipeline.NewProcessor(nil,
		pipeline.NewExtractStage(nil, &stubExtractor{text: "contract text"}, nil),
		pipeline.NewAnalyzeStage(nil, pipeline.Config{}, &stubAnalyzer{reply: reply}),
		exporter,
	)
	return NewScannerService(proc, exporter, 0, nil)
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	svc := newTestService(t, `{}`)
	rec := httptest.NewRecorder()

	svc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyzeRecoveredRun(t *testing.T) {
	svc := newTestService(t, `{"clauses": [], "actionable_recommendations_summary": []}`)

	body, ctype := multipartUpload(t, "file", "contract.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	svc.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Recovered)
	assert.NotNil(t, resp.Analysis)
	assert.Empty(t, resp.RawOutput)
	assert.NotEmpty(t, resp.RunID)
	_, err := uuid.Parse(resp.RunID)
	assert.NoError(t, err)
	assert.Equal(t, export.FileAnalysisJSON, resp.Artifacts.AnalysisJSON)
}

func TestAnalyzeRawFallbackRun(t *testing.T) {
	svc := newTestService(t, "no json here, sorry")

	body, ctype := multipartUpload(t, "file", "contract.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	svc.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Recovered)
	assert.Equal(t, "no json here, sorry", resp.RawOutput)
	assert.Nil(t, resp.Analysis)
}

func TestAnalyzeMissingFileField(t *testing.T) {
	svc := newTestService(t, `{}`)

	body, ctype := multipartUpload(t, "document", "contract.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	svc.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeRejectsNonPDF(t *testing.T) {
	svc := newTestService(t, `{}`)

	body, ctype := multipartUpload(t, "file", "contract.docx", []byte("PK"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()

	svc.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadStagedArtifact(t *testing.T) {
	svc := newTestService(t, `{"clauses": [], "actionable_recommendations_summary": []}`)

	body, ctype := multipartUpload(t, "file", "contract.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	dlReq := httptest.NewRequest(http.MethodGet, "/v1/runs/"+resp.RunID+"/"+export.FileExtractedText, nil)
	dlRec := httptest.NewRecorder()
	svc.Router().ServeHTTP(dlRec, dlReq)

	require.Equal(t, http.StatusOK, dlRec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", dlRec.Header().Get("Content-Type"))
	got, err := io.ReadAll(dlRec.Body)
	require.NoError(t, err)
	assert.Equal(t, "contract text", string(got))
}

func TestDownloadUnknownArtifact(t *testing.T) {
	svc := newTestService(t, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+uuid.NewString()+"/secrets.txt", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadBadRunID(t *testing.T) {
	svc := newTestService(t, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/not-a-uuid/"+export.FileExtractedText, nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadArtifactNotStaged(t *testing.T) {
	svc := newTestService(t, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+uuid.NewString()+"/"+export.FileAnalysisJSON, nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
