package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/studystack/materials/internal/logger"
)

// Dispatcher feeds accepted processing requests into a bounded worker pool
// so the HTTP layer can acknowledge immediately.
type Dispatcher struct {
	pool       *ants.Pool
	processor  *Processor
	logger     *logger.Logger
	runTimeout time.Duration
}

// NewDispatcher creates a dispatcher backed by an ants pool of cfg.Workers
// goroutines. The pool is non-blocking so a saturated pool rejects new work
// instead of stalling the submitting request.
func NewDispatcher(processor *Processor, cfg Config, log *logger.Logger) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		pool:       pool,
		processor:  processor,
		logger:     log,
		runTimeout: cfg.RunTimeout,
	}, nil
}

// Enqueue schedules a processing run for the material id. The run executes
// on the pool with its own timeout, detached from the caller's request
// context. ErrQueueFull is returned when all workers are busy.
func (d *Dispatcher) Enqueue(id string) error {
	err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.runTimeout)
		defer cancel()

		if err := d.processor.Process(ctx, id); err != nil && !errors.Is(err, ErrAlreadyProcessing) {
			d.logger.Error("background processing run failed", err, map[string]interface{}{"material_id": id})
		}
	})
	if errors.Is(err, ants.ErrPoolOverload) {
		return ErrQueueFull
	}
	return err
}

// Release drains the pool. Pending tasks are abandoned.
func (d *Dispatcher) Release() {
	d.pool.Release()
}
