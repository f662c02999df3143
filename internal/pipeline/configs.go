package pipeline

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config tunes the processing pipeline.
type Config struct {
	// MaxAttempts is the per-phase attempt budget. Each retryable phase
	// (download, extraction, embedding) gets its own fresh budget.
	MaxAttempts int

	// BaseDelay is the wait before the first retry of a phase.
	BaseDelay time.Duration

	// Multiplier grows the delay between consecutive retries.
	Multiplier float64

	// StaleAfter bounds how long a processing claim is honored. A material
	// stuck in processing longer than this is treated as orphaned by a
	// crashed run and becomes claimable again.
	StaleAfter time.Duration

	// Workers is the dispatcher pool size.
	Workers int

	// RunTimeout caps a full processing run started by the dispatcher.
	RunTimeout time.Duration
}

// NewConfig reads from environment variables.
//
//	PIPELINE_MAX_ATTEMPTS, PIPELINE_BASE_DELAY_MS, PIPELINE_BACKOFF_MULTIPLIER,
//	PIPELINE_STALE_AFTER_MINUTES, PIPELINE_WORKERS, PIPELINE_RUN_TIMEOUT_MINUTES
func NewConfig() Config {
	cfg := Config{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		Multiplier:  2.0,
		StaleAfter:  15 * time.Minute,
		Workers:     4,
		RunTimeout:  5 * time.Minute,
	}

	if v := os.Getenv("PIPELINE_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxAttempts = n
		}
	}
	if v := os.Getenv("PIPELINE_BASE_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BaseDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("PIPELINE_BACKOFF_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 {
			cfg.Multiplier = f
		}
	}
	if v := os.Getenv("PIPELINE_STALE_AFTER_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StaleAfter = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("PIPELINE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("PIPELINE_RUN_TIMEOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RunTimeout = time.Duration(n) * time.Minute
		}
	}

	return cfg
}

// Validate checks the config for internally consistent values.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("pipeline: MaxAttempts must be at least 1")
	}
	if c.BaseDelay <= 0 {
		return fmt.Errorf("pipeline: BaseDelay must be positive")
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("pipeline: Multiplier must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("pipeline: Workers must be at least 1")
	}
	return nil
}
