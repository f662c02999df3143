package ratelimit

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend selects the window store implementation.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config tunes the per-client fixed-window limiter.
type Config struct {
	// Ceiling is the maximum number of admitted requests per window.
	Ceiling int

	// Window is the fixed window length.
	Window time.Duration

	// Backend is "memory" or "redis".
	Backend string

	// KeyPrefix namespaces limiter keys in shared stores.
	KeyPrefix string

	// Redis connection, used only when Backend is "redis".
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewConfig reads from environment variables.
//
//	RATE_LIMIT_CEILING, RATE_LIMIT_WINDOW_SECONDS, RATE_LIMIT_BACKEND,
//	REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
func NewConfig() Config {
	cfg := Config{
		Ceiling:   15,
		Window:    60 * time.Second,
		Backend:   BackendMemory,
		KeyPrefix: "ratelimit",
		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	if v := os.Getenv("RATE_LIMIT_CEILING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Ceiling = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Window = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("RATE_LIMIT_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}

	return cfg
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.Ceiling < 1 {
		return fmt.Errorf("ratelimit: Ceiling must be at least 1")
	}
	if c.Window <= 0 {
		return fmt.Errorf("ratelimit: Window must be positive")
	}
	switch c.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("ratelimit: redis backend requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("ratelimit: unknown backend %q", c.Backend)
	}
	return nil
}
