package events

import (
	"context"

	"go.uber.org/fx"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/pipeline"
)

// FXModule wires the status event publisher into Fx and binds it as the
// pipeline's Publisher. A disabled publisher stays wired and no-ops.
var FXModule = fx.Module("events",
	fx.Provide(
		NewConfig,
		NewPublisher,
		func(p *Publisher) pipeline.Publisher { return p },
	),
	fx.Invoke(RegisterPublisherLifecycle),
)

// RegisterPublisherLifecycle closes the broker connection on shutdown.
func RegisterPublisherLifecycle(lc fx.Lifecycle, p *Publisher, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("closing status event publisher", nil, nil)
			return p.Close()
		},
	})
}
