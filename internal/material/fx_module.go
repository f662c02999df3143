package material

import (
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/studystack/materials/internal/logger"
)

// FXModule wires the material repository into Fx.
//
// It provides:
//   - *Repository (NewRepository), also bound to the Store interface
//   - Optional schema migration on startup (POSTGRES_AUTO_MIGRATE=true)
var FXModule = fx.Module("material",
	fx.Provide(
		NewRepository,
		func(r *Repository) Store { return r },
	),
	fx.Invoke(RunMigrations),
)

// RunMigrations applies the materials table migration when enabled.
// Deployments that manage schema externally leave POSTGRES_AUTO_MIGRATE unset.
func RunMigrations(db *gorm.DB, repo *Repository, log *logger.Logger) error {
	if os.Getenv("POSTGRES_AUTO_MIGRATE") != "true" {
		return nil
	}

	log.Info("running materials schema migration", nil, nil)
	return repo.Migrate()
}
