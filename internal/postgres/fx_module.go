package postgres

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/studystack/materials/internal/logger"
)

// FXModule wires the PostgreSQL client into Fx.
//
// It provides:
//   - Config    (NewConfig)
//   - *Postgres (NewPostgres)
//   - *gorm.DB  extracted from the client for repositories
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewConfig,
		NewPostgres,
		func(p *Postgres) *gorm.DB { return p.DB() },
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// RegisterPostgresLifecycle verifies connectivity on startup and closes the
// pool on shutdown.
func RegisterPostgresLifecycle(lc fx.Lifecycle, p *Postgres, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.HealthCheck(ctx); err != nil {
				return err
			}
			log.Info("connected to PostgreSQL", nil, nil)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down PostgreSQL client", nil, nil)
			return p.GracefulShutdown()
		},
	})
}
