package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
)

func TestDispatcherRejectsWhenSaturated(t *testing.T) {
	inf := &fakeInference{
		extractStarted: make(chan struct{}),
		extractRelease: make(chan struct{}),
	}
	h := newHarness(t, inf, &fakeBlob{data: []byte("%PDF")})

	cfg := Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Multiplier:  2.0,
		StaleAfter:  15 * time.Minute,
		Workers:     1,
		RunTimeout:  time.Minute,
	}
	log := logger.NewLoggerClient(logger.Config{Level: "error", ServiceName: "pipeline-test"})
	d, err := NewDispatcher(h.processor, cfg, log)
	require.NoError(t, err)
	t.Cleanup(d.Release)

	m := pendingMaterial()
	h.store.add(m)

	// The first run occupies the only worker and parks inside extraction.
	require.NoError(t, d.Enqueue(m.ID))
	<-inf.extractStarted

	// With no free worker the submission must fail fast, not block.
	assert.ErrorIs(t, d.Enqueue(uuid.NewString()), ErrQueueFull)

	close(inf.extractRelease)
	assert.Eventually(t, func() bool {
		got, err := h.store.GetMaterial(context.Background(), m.ID)
		return err == nil && got.Status == material.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	// A drained pool accepts work again; the worker may still be winding
	// down the first run for a moment.
	assert.Eventually(t, func() bool {
		return d.Enqueue(m.ID) == nil
	}, 5*time.Second, 10*time.Millisecond)
}
