package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/salonstore-backend/pkg/config"
	"github.com/angelmondragon/salonstore-backend/pkg/db"
	"github.com/angelmondragon/salonstore-backend/pkg/db/models"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. The SQL migrations target postgres, so a sqlite dev
// database is brought up with gorm's AutoMigrate instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		ctx = logg.WithField(ctx, "driver", config.DBDriverSQLite)
		logg.Info(ctx, "auto-migrating sqlite schema")
		if err := AutoMigrateModels(client); err != nil {
			return err
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}

// AutoMigrateModels creates the storefront tables from the gorm models.
func AutoMigrateModels(client *db.Client) error {
	if err := client.DB().AutoMigrate(&models.Salon{}, &models.Product{}, &models.CartLine{}); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}
