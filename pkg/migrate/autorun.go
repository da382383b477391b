package migrate

import (
	"context"

	"github.com/angelmondragon/ims-backend/pkg/config"
	"github.com/angelmondragon/ims-backend/pkg/logger"
	"gorm.io/gorm"
)

// MaybeRunDev bootstraps the schema when the app runs in dev mode with the
// auto-migrate flag enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, conn *gorm.DB) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})
	logg.Info(ctx, "applying schema (dev auto-migrate)")

	if err := Apply(ctx, conn); err != nil {
		return err
	}

	logg.Info(ctx, "schema applied")
	return nil
}
