package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	traceSpan "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/studystack/materials/internal/blob"
	"github.com/studystack/materials/internal/inference"
	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
)

// Processor runs the material processing state machine.
type Processor struct {
	store     material.Store
	inference InferenceClient
	blobs     BlobStore
	logger    *logger.Logger

	policy     RetryPolicy
	staleAfter time.Duration

	// Optional collaborators, nil when not configured.
	indexer   Indexer
	publisher Publisher
	observer  Observer
	tracer    Tracer

	// group collapses concurrent in-process calls for the same id onto a
	// single run; joiners observe the in-flight run's outcome.
	group singleflight.Group

	// sleep and now are injectable for deterministic backoff tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithIndexer mirrors completed materials into a vector index.
func WithIndexer(ix Indexer) Option {
	return func(p *Processor) { p.indexer = ix }
}

// WithPublisher emits status transition events.
func WithPublisher(pub Publisher) Option {
	return func(p *Processor) { p.publisher = pub }
}

// WithObserver records processing telemetry.
func WithObserver(obs Observer) Option {
	return func(p *Processor) { p.observer = obs }
}

// WithTracer opens spans around runs and phases.
func WithTracer(tr Tracer) Option {
	return func(p *Processor) { p.tracer = tr }
}

// WithSleep replaces the backoff sleep, primarily for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Processor) { p.sleep = sleep }
}

// NewProcessor builds a Processor from its required collaborators.
func NewProcessor(store material.Store, inf InferenceClient, blobs BlobStore, cfg Config, log *logger.Logger, opts ...Option) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Processor{
		store:     store,
		inference: inf,
		blobs:     blobs,
		logger:    log,
		policy: RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BaseDelay,
			Multiplier:  cfg.Multiplier,
		},
		staleAfter: cfg.StaleAfter,
		sleep:      sleepContext,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process runs the pipeline for one material id.
//
// Reprocessing a completed material is a no-op. A material currently held
// by another run yields ErrAlreadyProcessing; concurrent in-process callers
// for the same id instead join the in-flight run and share its outcome.
func (p *Processor) Process(ctx context.Context, id string) error {
	_, err, _ := p.group.Do(id, func() (interface{}, error) {
		runCtx, span := p.startSpan(ctx, "material.process")
		if span != nil {
			span.SetAttributes(attribute.String("material_id", id))
		}
		err := p.run(runCtx, id)
		p.endSpan(span, err)
		return nil, err
	})
	return err
}

func (p *Processor) run(ctx context.Context, id string) error {
	m, err := p.store.GetMaterial(ctx, id)
	if err != nil {
		return err
	}

	if m.Status == material.StatusCompleted {
		p.logger.Debug("material already completed, skipping", nil, map[string]interface{}{"material_id": id})
		p.observeOutcome("skipped")
		return nil
	}

	if !material.MimeTypeAllowed(m.MimeType) {
		return p.fail(ctx, id, ErrUnsupportedMimeType)
	}

	claimed, err := p.store.ClaimForProcessing(ctx, id, p.staleAfter)
	if err != nil {
		return err
	}
	if !claimed {
		// The claim can lose because the material finished in the
		// meantime, which is the idempotent no-op, or because a live run
		// holds it.
		if m, err = p.store.GetMaterial(ctx, id); err == nil && m.Status == material.StatusCompleted {
			p.observeOutcome("skipped")
			return nil
		}
		p.observeOutcome("skipped")
		return ErrAlreadyProcessing
	}

	p.publish(ctx, id, material.StatusProcessing, "")
	p.logger.Info("processing material", nil, map[string]interface{}{
		"material_id": id,
		"mime_type":   m.MimeType,
		"locator":     m.StorageLocator,
	})

	var data []byte
	err = p.retryPhase(ctx, PhaseDownload, func(ctx context.Context) error {
		var err error
		data, err = p.blobs.Download(ctx, m.StorageLocator)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDownload, err)
		}
		return nil
	})
	if err != nil {
		return p.fail(ctx, id, err)
	}

	filename := baseName(m.StorageLocator)

	var text string
	err = p.retryPhase(ctx, PhaseExtract, func(ctx context.Context) error {
		var err error
		text, err = p.inference.ExtractText(ctx, data, filename)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errEmptyExtraction
		}
		return nil
	})
	if err != nil {
		return p.fail(ctx, id, err)
	}

	var embedding []float64
	err = p.retryPhase(ctx, PhaseEmbed, func(ctx context.Context) error {
		var err error
		embedding, err = p.inference.GenerateEmbedding(ctx, text)
		return err
	})
	if err != nil {
		return p.fail(ctx, id, err)
	}

	// The run's work is done; record the result even if the caller has
	// gone away in the meantime.
	persistCtx := context.WithoutCancel(ctx)
	persistCtx, span := p.startSpan(persistCtx, "material."+PhasePersist)
	start := p.now()
	err = p.store.UpdateResult(persistCtx, id, text, embedding)
	p.observePhase(PhasePersist, p.now().Sub(start), err)
	p.endSpan(span, err)
	if err != nil {
		return p.fail(ctx, id, err)
	}

	if p.indexer != nil {
		m.ExtractedText = &text
		if err := p.indexer.UpsertMaterial(persistCtx, m, embedding); err != nil {
			p.logger.Warn("vector index upsert failed", err, map[string]interface{}{"material_id": id})
		}
	}

	p.publish(persistCtx, id, material.StatusCompleted, "")
	p.observeOutcome("completed")
	p.logger.Info("material processed", nil, map[string]interface{}{
		"material_id": id,
		"text_length": len(text),
	})
	return nil
}

// retryPhase runs fn under the phase's attempt budget, sleeping with
// exponential backoff between attempts. Non-retryable errors abort the
// budget immediately.
func (p *Processor) retryPhase(ctx context.Context, phase string, fn func(context.Context) error) (err error) {
	ctx, span := p.startSpan(ctx, "material."+phase)
	defer func() { p.endSpan(span, err) }()

	var lastErr error
	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		start := p.now()
		err := fn(ctx)
		p.observePhase(phase, p.now().Sub(start), err)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			p.logger.Error("phase failed permanently", err, map[string]interface{}{"phase": phase})
			return err
		}
		if attempt == p.policy.MaxAttempts {
			break
		}

		delay := p.policy.Delay(attempt)
		p.observeRetry(phase)
		p.logger.Warn("phase failed, retrying", err, map[string]interface{}{
			"phase":   phase,
			"attempt": attempt,
			"delay":   delay.String(),
		})
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}

// fail records the terminal failed state. The status write uses a context
// detached from cancellation so a dying caller still leaves a consistent
// record behind.
func (p *Processor) fail(ctx context.Context, id string, cause error) error {
	detached := context.WithoutCancel(ctx)
	if err := p.store.UpdateStatus(detached, id, material.StatusFailed, cause.Error()); err != nil {
		p.logger.Error("failed to record failure status", err, map[string]interface{}{"material_id": id})
	}
	p.publish(detached, id, material.StatusFailed, cause.Error())
	p.observeOutcome("failed")
	p.logger.Error("material processing failed", cause, map[string]interface{}{"material_id": id})
	return cause
}

// retryable classifies errors for the backoff loop. Timeouts and service
// errors are transient; a mismatched embedding dimension, a missing blob or
// a canceled caller will not be fixed by another attempt.
func retryable(err error) bool {
	if inference.IsDimensionMismatch(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, blob.ErrNotFound) {
		return false
	}
	return true
}

func (p *Processor) publish(ctx context.Context, id string, status material.Status, errorMessage string) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishStatusChange(ctx, id, status, errorMessage); err != nil {
		p.logger.Warn("failed to publish status event", err, map[string]interface{}{
			"material_id": id,
			"status":      string(status),
		})
	}
}

// startSpan opens a span when a tracer is configured; otherwise it returns
// the context unchanged and a nil span, which endSpan ignores.
func (p *Processor) startSpan(ctx context.Context, name string) (context.Context, traceSpan.Span) {
	if p.tracer == nil {
		return ctx, nil
	}
	return p.tracer.StartSpan(ctx, name)
}

func (p *Processor) endSpan(span traceSpan.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		p.tracer.RecordErrorOnSpan(span, err)
	}
	span.End()
}

func (p *Processor) observePhase(phase string, d time.Duration, err error) {
	if p.observer != nil {
		p.observer.ObservePhase(phase, d, err)
	}
}

func (p *Processor) observeRetry(phase string) {
	if p.observer != nil {
		p.observer.ObserveRetry(phase)
	}
}

func (p *Processor) observeOutcome(outcome string) {
	if p.observer != nil {
		p.observer.ObserveOutcome(outcome)
	}
}

// baseName extracts the filename component of a storage locator.
func baseName(locator string) string {
	if i := strings.LastIndexByte(locator, '/'); i >= 0 {
		return locator[i+1:]
	}
	return locator
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
