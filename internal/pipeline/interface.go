package pipeline

import (
	"context"
	"time"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/studystack/materials/internal/material"
)

// InferenceClient is the slice of the inference service the pipeline needs.
type InferenceClient interface {
	// ExtractText returns the text content of a file. Empty text is a
	// valid service response.
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)

	// GenerateEmbedding returns a fixed-dimension embedding for text.
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// BlobStore downloads uploaded material files by storage locator.
type BlobStore interface {
	Download(ctx context.Context, locator string) ([]byte, error)
}

// Indexer mirrors completed materials into the vector index. Index errors
// never fail a run; search freshness is best effort.
type Indexer interface {
	UpsertMaterial(ctx context.Context, m *material.Material, embedding []float64) error
}

// Publisher emits status transition events for downstream consumers.
type Publisher interface {
	PublishStatusChange(ctx context.Context, id string, status material.Status, errorMessage string) error
}

// Observer receives processing telemetry. The metrics package implements it;
// tests use fakes.
type Observer interface {
	// ObservePhase records one phase attempt with its duration and outcome.
	ObservePhase(phase string, d time.Duration, err error)

	// ObserveRetry counts a scheduled retry of a phase.
	ObserveRetry(phase string)

	// ObserveOutcome counts a finished run: "completed", "failed" or
	// "skipped" (idempotent no-op and lost claims).
	ObserveOutcome(outcome string)
}

// Tracer opens spans around processing runs and phases. The tracer package
// implements it.
type Tracer interface {
	// StartSpan creates a span named after the operation. The caller ends it.
	StartSpan(ctx context.Context, name string) (context.Context, traceSpan.Span)

	// RecordErrorOnSpan records err on the span and marks it failed.
	RecordErrorOnSpan(span traceSpan.Span, err error)
}

// Phase names as reported to the Observer.
const (
	PhaseDownload = "download"
	PhaseExtract  = "extract"
	PhaseEmbed    = "embed"
	PhasePersist  = "persist"
)
