package tracer

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the tracer into Fx.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewConfig,
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle flushes spans on shutdown.
func RegisterTracerLifecycle(lc fx.Lifecycle, t *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			t.logger.Info("shutting down tracer", nil, nil)
			return t.Shutdown(ctx)
		},
	})
}
