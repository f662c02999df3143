package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyDelay(t *testing.T) {
	t.Run("doubles with multiplier 2", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 3, BaseDelay: 1 * time.Second, Multiplier: 2.0}

		assert.Equal(t, 1*time.Second, p.Delay(1))
		assert.Equal(t, 2*time.Second, p.Delay(2))
		assert.Equal(t, 4*time.Second, p.Delay(3))
	})

	t.Run("fractional multiplier", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 3, BaseDelay: 200 * time.Millisecond, Multiplier: 1.5}

		assert.Equal(t, 200*time.Millisecond, p.Delay(1))
		assert.Equal(t, 300*time.Millisecond, p.Delay(2))
		assert.Equal(t, 450*time.Millisecond, p.Delay(3))
	})

	t.Run("retry below one clamps to first delay", func(t *testing.T) {
		p := RetryPolicy{MaxAttempts: 3, BaseDelay: 1 * time.Second, Multiplier: 2.0}
		assert.Equal(t, 1*time.Second, p.Delay(0))
	})
}
