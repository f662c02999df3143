package blob

import (
	"context"

	"go.uber.org/fx"

	"github.com/studystack/materials/internal/logger"
)

// FXModule wires the object store into Fx.
var FXModule = fx.Module("blob",
	fx.Provide(
		NewConfig,
		NewStore,
	),
	fx.Invoke(RegisterBlobLifecycle),
)

// RegisterBlobLifecycle checks bucket reachability on startup. MinIO clients
// hold no persistent connection, so there is nothing to close on shutdown.
func RegisterBlobLifecycle(lc fx.Lifecycle, s *Store, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := s.HealthCheck(ctx); err != nil {
				return err
			}
			log.Info("connected to MinIO", nil, map[string]interface{}{"bucket": s.cfg.BucketName})
			return nil
		},
	})
}
