package gemini

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/contractscan/contract-risk-scanner/internal/common"
)

// Config for the Gemini client.
type Config struct {
	APIKey          string // required; passed explicitly, never read from ambient state
	BaseURL         string // default https://generativelanguage.googleapis.com/v1beta
	Model           string // e.g., "gemini-2.5-flash-lite"
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration // http client timeout
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-lite"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 8192
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// FromCommonConfig builds a client Config from the application config block.
func FromCommonConfig(c common.GeminiConfig) Config {
	return Config{
		APIKey:          c.APIKey,
		Model:           c.Model,
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
		Timeout:         c.Timeout,
	}
}
