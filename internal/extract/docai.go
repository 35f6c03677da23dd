package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contractscan/contract-risk-scanner/internal/common"
)

// DocAIClient implements TextExtractor against a managed document-processing
// REST endpoint (Document AI style: a named processor receives base64 bytes
// plus a MIME type and answers with the document's full text).
type DocAIClient struct {
	cfg  common.ExtractConfig
	http *http.Client
	log  *slog.Logger
}

func NewDocAIClient(cfg common.ExtractConfig, logger *slog.Logger) *DocAIClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://documentai.googleapis.com/v1"
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocAIClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// Document AI process request/response structures
type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"` // base64
	MimeType string `json:"mimeType"`
}

type processResponse struct {
	Document *struct {
		Text  string `json:"text"`
		Pages []struct {
			PageNumber int `json:"pageNumber"`
		} `json:"pages"`
	} `json:"document"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func (c *DocAIClient) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		c.cfg.ProjectID, c.cfg.Location, c.cfg.ProcessorID)
}

func (c *DocAIClient) Extract(ctx context.Context, content []byte, mimeType string) (TextExtractionResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	reqBody := processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(content),
			MimeType: mimeType,
		},
	}
	bs, err := json.Marshal(reqBody)
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("encode process request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/" + c.processorName() + ":process"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return TextExtractionResult{}, fmt.Errorf("build process request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	}

	c.log.Info("extract.docai.request",
		"req_id", rid,
		"processor", c.cfg.ProcessorID,
		"mime_type", mimeType,
		"document_bytes", len(content),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("extract.docai.send_error", "req_id", rid, "error", err)
		return TextExtractionResult{}, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("extract.docai.body_close_error", "req_id", rid, "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	var pr processResponse
	if resp.StatusCode/100 != 2 {
		if json.Unmarshal(raw, &pr) == nil && pr.Error != nil {
			c.log.Error("extract.docai.api_error", "req_id", rid, "status", pr.Error.Status, "message", pr.Error.Message)
			return TextExtractionResult{}, fmt.Errorf("document processing: %s: %s", pr.Error.Status, pr.Error.Message)
		}
		c.log.Error("extract.docai.http_error", "req_id", rid, "status", resp.StatusCode)
		return TextExtractionResult{}, fmt.Errorf("document processing: non-2xx status: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &pr); err != nil {
		return TextExtractionResult{}, fmt.Errorf("decode process response: %w", err)
	}
	if pr.Document == nil {
		return TextExtractionResult{}, ErrNoDocument
	}

	text := strings.TrimSpace(pr.Document.Text)
	if text == "" {
		return TextExtractionResult{}, ErrNoText
	}

	res := TextExtractionResult{
		Text:     text,
		Pages:    len(pr.Document.Pages),
		Method:   "docai",
		Duration: time.Since(start),
	}
	c.log.Info("extract.docai.ok",
		"req_id", rid,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
