package httpapi

import (
	"os"
	"strconv"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	// Address the API server listens on.
	Address string

	// ReadTimeout bounds reading a request, including the body.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration

	// MaxBodyBytes caps accepted request bodies.
	MaxBodyBytes int64
}

// NewConfig reads from environment variables.
//
//	HTTP_ADDRESS, HTTP_READ_TIMEOUT_SECONDS, HTTP_WRITE_TIMEOUT_SECONDS
func NewConfig() Config {
	cfg := Config{
		Address:      ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		MaxBodyBytes: 1 << 20,
	}

	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("HTTP_READ_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("HTTP_WRITE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WriteTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg
}
