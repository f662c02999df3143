package pipeline

import (
	"context"

	"go.uber.org/fx"

	"github.com/studystack/materials/internal/blob"
	"github.com/studystack/materials/internal/inference"
	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
	"github.com/studystack/materials/internal/tracer"
)

// processorParams gathers the Processor's collaborators. The indexer,
// publisher and observer are optional: the pipeline runs without them when
// their modules are disabled.
type processorParams struct {
	fx.In

	Store     material.Store
	Inference InferenceClient
	Blobs     BlobStore
	Config    Config
	Logger    *logger.Logger

	Indexer   Indexer   `optional:"true"`
	Publisher Publisher `optional:"true"`
	Observer  Observer  `optional:"true"`
	Tracer    Tracer    `optional:"true"`
}

func newProcessorFromParams(p processorParams) (*Processor, error) {
	var opts []Option
	if p.Indexer != nil {
		opts = append(opts, WithIndexer(p.Indexer))
	}
	if p.Publisher != nil {
		opts = append(opts, WithPublisher(p.Publisher))
	}
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	if p.Tracer != nil {
		opts = append(opts, WithTracer(p.Tracer))
	}
	return NewProcessor(p.Store, p.Inference, p.Blobs, p.Config, p.Logger, opts...)
}

// FXModule wires the processor and its worker pool into Fx, binding the
// concrete inference and blob clients to the pipeline's interfaces.
var FXModule = fx.Module("pipeline",
	fx.Provide(
		NewConfig,
		newProcessorFromParams,
		NewDispatcher,
		func(c *inference.Client) InferenceClient { return c },
		func(s *blob.Store) BlobStore { return s },
		func(t *tracer.Tracer) Tracer { return t },
	),
	fx.Invoke(RegisterDispatcherLifecycle),
)

// RegisterDispatcherLifecycle releases the worker pool on shutdown.
func RegisterDispatcherLifecycle(lc fx.Lifecycle, d *Dispatcher, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("releasing processing worker pool", nil, nil)
			d.Release()
			return nil
		},
	})
}
