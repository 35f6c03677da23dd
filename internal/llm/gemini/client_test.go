package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-2.5-flash-lite",
	}, nil)
}

func TestAnalyzeSendsPromptAndReturnsText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{
				Content: content{
					Role:  "model",
					Parts: []part{{Text: `{"clauses": `}, {Text: `[]}`}},
				},
				FinishReason: "STOP",
			}},
		})
	})

	text, err := client.Analyze(context.Background(), "analyze this contract")
	require.NoError(t, err)

	assert.Equal(t, `{"clauses": []}`, text)
	assert.Equal(t, "/models/gemini-2.5-flash-lite:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "analyze this contract", gotReq.Contents[0].Parts[0].Text)
}

func TestAnalyzeSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	})

	_, err := client.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ARGUMENT")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestAnalyzeNoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	_, err := client.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestAnalyzeEmptyText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{
				Content:      content{Role: "model", Parts: []part{{Text: "   "}}},
				FinishReason: "MAX_TOKENS",
			}},
		})
	})

	_, err := client.Analyze(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", c.cfg.BaseURL)
	assert.Equal(t, "gemini-2.5-flash-lite", c.cfg.Model)
	assert.Equal(t, 8192, c.cfg.MaxOutputTokens)
	assert.NotNil(t, c.http)
}
