package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cpaas-portal/internal/config"
	"cpaas-portal/internal/database"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/observ"
)

// migrate_data copies every table of the sqlite file at DB_PATH into the
// postgres database at DATABASE_URL. Rows keep their ids.
func main() {
	if err := run(); err != nil {
		log.Fatalf("migrate_data: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sqliteDB, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to sqlite: %w", err)
	}
	logger.Info("connected to sqlite", zap.String("path", cfg.DBPath))

	cfg.DBDriver = "postgres"
	pgDB, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(pgDB); err != nil {
		return err
	}

	logger.Info("starting data migration")
	err = pgDB.Transaction(func(tx *gorm.DB) error {
		steps := []func() error{
			func() error { return copyTable[models.Company](sqliteDB, tx, logger) },
			func() error { return copyTable[models.User](sqliteDB, tx, logger) },
			func() error { return copyTable[models.Contact](sqliteDB, tx, logger) },
			func() error { return copyTable[models.Tag](sqliteDB, tx, logger) },
			func() error { return copyTable[models.Team](sqliteDB, tx, logger) },
			func() error { return copyTable[models.Channel](sqliteDB, tx, logger) },
			func() error { return copyTable[models.Tool](sqliteDB, tx, logger) },
			func() error { return copyTable[models.Upload](sqliteDB, tx, logger) },
		}
		if len(steps) != len(models.All()) {
			return fmt.Errorf("migration covers %d of %d tables", len(steps), len(models.All()))
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	logger.Info("migration completed")
	return nil
}

type tabler interface {
	TableName() string
}

// copyTable reads every row of T from src and inserts it into dst in batches.
func copyTable[T tabler](src, dst *gorm.DB, logger *zap.Logger) error {
	var zero T
	table := zero.TableName()

	var rows []T
	if err := src.Find(&rows).Error; err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	if len(rows) > 0 {
		if err := dst.CreateInBatches(&rows, 200).Error; err != nil {
			return fmt.Errorf("write %s: %w", table, err)
		}
	}
	logger.Info("table migrated", zap.String("table", table), zap.Int("rows", len(rows)))
	return nil
}
