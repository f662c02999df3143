package vectorindex

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds connection and collection settings for the vector index.
type Config struct {
	// Enabled toggles the index. When false the package no-ops and search
	// is unavailable.
	Enabled bool

	// Host of the Qdrant server, e.g. "localhost".
	Host string

	// Port is the gRPC port. Defaults to 6334.
	Port int

	// APIKey is the optional authentication token.
	APIKey string

	// Collection holding material points.
	Collection string

	// Dimension is the embedding vector length, matching the inference
	// service.
	Dimension int
}

// NewConfig reads from environment variables.
//
//	VECTOR_INDEX_ENABLED, QDRANT_HOST, QDRANT_PORT, QDRANT_API_KEY,
//	QDRANT_COLLECTION, EMBEDDING_DIMENSION
func NewConfig() Config {
	cfg := Config{
		Enabled:    os.Getenv("VECTOR_INDEX_ENABLED") == "true",
		Host:       os.Getenv("QDRANT_HOST"),
		Port:       6334,
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		Collection: "materials",
		Dimension:  384,
	}

	if v := os.Getenv("QDRANT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if v := os.Getenv("QDRANT_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Dimension = n
		}
	}

	return cfg
}

// Validate checks the config when the index is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("vectorindex: missing QDRANT_HOST")
	}
	if c.Collection == "" {
		return fmt.Errorf("vectorindex: missing QDRANT_COLLECTION")
	}
	if c.Dimension < 1 {
		return fmt.Errorf("vectorindex: Dimension must be positive")
	}
	return nil
}
