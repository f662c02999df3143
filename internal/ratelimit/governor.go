package ratelimit

import (
	"context"
	"time"

	"github.com/studystack/materials/internal/logger"
)

// Decision is the outcome of one admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Limit is the configured ceiling, for response headers.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// RetryAfter is how long a denied client should wait before trying
	// again. Zero when Allowed.
	RetryAfter time.Duration
}

// Governor applies the fixed-window policy on top of a WindowStore.
type Governor struct {
	store   WindowStore
	ceiling int
	window  time.Duration
	logger  *logger.Logger
}

// NewGovernor builds a Governor from cfg, choosing the window store by
// backend.
func NewGovernor(cfg Config, log *logger.Logger) (*Governor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store WindowStore
	switch cfg.Backend {
	case BackendRedis:
		store = NewRedisStore(newRedisClient(cfg), cfg.KeyPrefix)
	default:
		store = NewMemoryStore()
	}

	return &Governor{
		store:   store,
		ceiling: cfg.Ceiling,
		window:  cfg.Window,
		logger:  log,
	}, nil
}

// NewGovernorWithStore builds a Governor on an explicit store. Used by
// tests and by callers that manage the Redis client themselves.
func NewGovernorWithStore(store WindowStore, ceiling int, window time.Duration, log *logger.Logger) *Governor {
	return &Governor{store: store, ceiling: ceiling, window: window, logger: log}
}

// Admit checks whether a request from clientID fits into its current
// window. Store errors admit the request (fail open).
func (g *Governor) Admit(ctx context.Context, clientID string) Decision {
	count, resetIn, err := g.store.Incr(ctx, clientID, g.window)
	if err != nil {
		g.logger.Warn("rate limit store unavailable, admitting request", err, map[string]interface{}{
			"client_id": clientID,
		})
		return Decision{Allowed: true, Limit: g.ceiling, Remaining: g.ceiling}
	}

	remaining := g.ceiling - int(count)
	if remaining < 0 {
		remaining = 0
	}

	if count > int64(g.ceiling) {
		return Decision{
			Allowed:    false,
			Limit:      g.ceiling,
			Remaining:  0,
			RetryAfter: resetIn,
		}
	}

	return Decision{Allowed: true, Limit: g.ceiling, Remaining: remaining}
}
