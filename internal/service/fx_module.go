package service

import (
	"context"

	"go.uber.org/fx"

	"github.com/studystack/materials/internal/inference"
)

// FXModule wires the service container into Fx. Initialize runs as the
// last OnStart hook of its module, after every component's own lifecycle.
var FXModule = fx.Module("service",
	fx.Provide(
		New,
		func(c *inference.Client) HealthProbe { return c },
	),
	fx.Invoke(RegisterServiceLifecycle),
)

// RegisterServiceLifecycle runs Initialize on startup.
func RegisterServiceLifecycle(lc fx.Lifecycle, s *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Initialize(ctx)
		},
	})
}
