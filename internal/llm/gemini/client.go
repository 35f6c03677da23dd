// Package gemini implements llm.Analyzer against the Gemini native REST API.
// https://ai.google.dev/api/rest
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contractscan/contract-risk-scanner/internal/llm"
)

// Gemini API request/response structures
type generateRequest struct {
	Contents         []content  `json:"contents"`
	GenerationConfig *genConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// Analyze sends one rendered prompt and returns the model's free-form text
// response. No structured-output mode is requested; downstream recovery deals
// with whatever comes back.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.analyze.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(prompt),
	)

	body := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: &genConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model + ":generateContent"
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}

	raw, _, httpErr := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if httpErr != nil {
		// surface the API's own message when the body carries one
		var apiResp generateResponse
		if json.Unmarshal(raw, &apiResp) == nil && apiResp.Error != nil {
			c.log.Error("llm.analyze.api_error",
				"req_id", rid, "status", apiResp.Error.Status, "message", apiResp.Error.Message,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return "", fmt.Errorf("gemini: %s: %s", apiResp.Error.Status, apiResp.Error.Message)
		}
		c.log.Error("llm.analyze.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", httpErr
	}

	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Error("llm.analyze.decode_error", "req_id", rid, "error", err)
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		c.log.Error("llm.analyze.no_candidates", "req_id", rid)
		return "", fmt.Errorf("gemini returned no candidates")
	}

	cand := resp.Candidates[0]
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		c.log.Error("llm.analyze.empty_response", "req_id", rid, "finish_reason", cand.FinishReason)
		return "", fmt.Errorf("gemini returned empty text (finish_reason=%s)", cand.FinishReason)
	}

	c.log.Info("llm.analyze.ok",
		"req_id", rid,
		"finish_reason", cand.FinishReason,
		"response_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
