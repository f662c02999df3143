package vectorindex

import (
	"context"

	"go.uber.org/fx"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/pipeline"
)

// FXModule wires the vector index into Fx and binds it as the pipeline's
// Indexer. A disabled index stays wired and no-ops.
var FXModule = fx.Module("vectorindex",
	fx.Provide(
		NewConfig,
		NewIndex,
		func(ix *Index) pipeline.Indexer { return ix },
	),
	fx.Invoke(RegisterIndexLifecycle),
)

// RegisterIndexLifecycle bootstraps the collection on startup. Index
// unavailability is logged, not fatal: processing works without search.
func RegisterIndexLifecycle(lc fx.Lifecycle, ix *Index, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !ix.Enabled() {
				log.Info("vector index disabled", nil, nil)
				return nil
			}
			if err := ix.EnsureCollection(ctx); err != nil {
				log.Warn("vector index unavailable, search degraded", err, nil)
				return nil
			}
			log.Info("vector index ready", nil, map[string]interface{}{"collection": ix.cfg.Collection})
			return nil
		},
	})
}
