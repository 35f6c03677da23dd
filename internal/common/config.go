package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. It is built once in main and
// passed by value into every collaborator constructor; nothing reads the
// environment after startup.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Extract  ExtractConfig
	Gemini   GeminiConfig
	Pipeline PipelineConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// StorageConfig holds object-storage (MinIO/S3) configuration
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ExtractConfig holds document-text-extraction configuration.
// Mode "remote" talks to the managed document-understanding service;
// "local" reads PDF text in-process.
type ExtractConfig struct {
	Mode        string
	Endpoint    string
	ProjectID   string
	Location    string
	ProcessorID string
	APIKey      string
	Timeout     time.Duration
}

// GeminiConfig holds generative-text service configuration
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// PipelineConfig holds orchestrator behavior flags
type PipelineConfig struct {
	ExcerptChars   int
	StagingDir     string
	StrictValidate bool
}

const (
	ExtractModeRemote = "remote"
	ExtractModeLocal  = "local"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 32)) * 1024 * 1024,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "contract-risk-scanner"),
			UseSSL:    getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Extract: ExtractConfig{
			Mode:        getEnv("EXTRACTOR", ExtractModeRemote),
			Endpoint:    getEnv("DOCAI_ENDPOINT", "https://documentai.googleapis.com/v1"),
			ProjectID:   getEnv("DOCAI_PROJECT_ID", ""),
			Location:    getEnv("DOCAI_LOCATION", "us"),
			ProcessorID: getEnv("DOCAI_PROCESSOR_ID", ""),
			APIKey:      getEnv("DOCAI_API_KEY", ""),
			Timeout:     getEnvAsDuration("DOCAI_TIMEOUT", 60*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:          getEnv("GEMINI_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			Temperature:     getEnvAsFloat32("GEMINI_TEMPERATURE", 0.0),
			MaxOutputTokens: getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 8192),
			Timeout:         getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		Pipeline: PipelineConfig{
			ExcerptChars:   getEnvAsInt("EXCERPT_CHARS", 5000),
			StagingDir:     getEnv("STAGING_DIR", "./tmp"),
			StrictValidate: getEnvAsBool("STRICT_VALIDATE", false),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration for the daemon. Credential and
// endpoint errors here are fatal before any pipeline step runs.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Storage.Endpoint != "" {
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return NewAppError("CONFIG_ERROR", "STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required when STORAGE_ENDPOINT is set", ErrInvalidInput)
		}
		if c.Storage.Bucket == "" {
			return NewAppError("CONFIG_ERROR", "STORAGE_BUCKET is required when STORAGE_ENDPOINT is set", ErrInvalidInput)
		}
	}
	switch c.Extract.Mode {
	case ExtractModeRemote:
		if c.Extract.ProjectID == "" || c.Extract.ProcessorID == "" {
			return NewAppError("CONFIG_ERROR", "DOCAI_PROJECT_ID and DOCAI_PROCESSOR_ID are required for EXTRACTOR=remote", ErrInvalidInput)
		}
	case ExtractModeLocal:
		// no external collaborator to configure
	default:
		return NewAppError("CONFIG_ERROR", "EXTRACTOR must be 'remote' or 'local'", ErrInvalidInput)
	}
	if c.Pipeline.ExcerptChars <= 0 {
		return NewAppError("CONFIG_ERROR", "EXCERPT_CHARS must be positive", ErrInvalidInput)
	}
	return nil
}
