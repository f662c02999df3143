package pipeline

import (
	"math"
	"time"
)

// RetryPolicy describes exponential backoff for a single phase.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// Delay returns the wait before retry attempt k (1-based): the first retry
// waits BaseDelay, the second BaseDelay*Multiplier, and so on.
func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(retry-1)))
}
