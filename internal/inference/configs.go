package inference

import (
	"fmt"
	"os"
	"strconv"
)

// INFERENCE_ENDPOINT must point to the root of the inference service
// (no path appended). The client appends /health, /extract and /embed
// itself, so callers only supply the host base URL.

// Config holds connection settings for the inference service client.
// It is immutable after construction and shared, read-only, across all calls.
type Config struct {
	// Endpoint is the base URL of the inference service.
	Endpoint string

	// ServiceToken is an optional bearer token attached to every request.
	ServiceToken string

	// RequestTimeoutS is the per-call timeout in seconds (default 30).
	// Every call additionally honors the caller-supplied context deadline.
	RequestTimeoutS int

	// EmbeddingDim is the expected length of returned embedding vectors
	// (default 384).
	EmbeddingDim int
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	timeout := 30
	if v := os.Getenv("INFERENCE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = n
		}
	}

	dim := 384
	if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dim = n
		}
	}

	return &Config{
		Endpoint:        os.Getenv("INFERENCE_ENDPOINT"),
		ServiceToken:    os.Getenv("INFERENCE_SERVICE_TOKEN"),
		RequestTimeoutS: timeout,
		EmbeddingDim:    dim,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("inference: missing INFERENCE_ENDPOINT")
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("inference: EMBEDDING_DIMENSION must be positive")
	}
	return nil
}
