package migration

import (
	"github.com/smallbiznis/propertydesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.MigrationsEnabled {
			log.Info("migrations disabled")
			return nil
		}

		if err := RunMigrations(conn, cfg.DBType); err != nil {
			return err
		}
		log.Info("migrations applied", zap.String("dialect", cfg.DBType))
		return nil
	}),
)
