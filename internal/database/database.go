package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/config"
	"cpaas-portal/internal/models"
	"cpaas-portal/internal/observ"
	"cpaas-portal/internal/theme"
	wire "cpaas-portal/pkg/models"
)

// Open connects to postgres when configured, otherwise to the sqlite file.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	log = observ.OrNop(log)

	level := logger.Info
	if cfg.IsProduction() {
		level = logger.Warn
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	if cfg.UsePostgres() {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		log.Info("connected to postgres")
		return db, nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}
	log.Info("connected to sqlite", zap.String("path", cfg.DBPath))
	return db, nil
}

// OpenMemory opens a private in-memory sqlite database, migrated.
func OpenMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Seed creates the first company and its master admin when the database is
// empty and returns a session token for that admin. It returns "" when the
// database already has a company.
func Seed(db *gorm.DB, cfg *config.Config, issuer *auth.Issuer) (string, error) {
	var count int64
	if err := db.Model(&models.Company{}).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	company := models.Company{
		CompanyName: cfg.SeedCompanyName,
		BrandColor:  theme.DefaultBrandColor,
		Language:    "en",
		IsActive:    true,
	}
	admin := models.User{
		Email:     cfg.SeedAdminEmail,
		FirstName: "Master",
		LastName:  "Admin",
		Role:      wire.RoleMasterAdmin,
		IsActive:  true,
		Resources: append([]string(nil), wire.Resources...),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		admin.CompanyID = company.ID
		return tx.Create(&admin).Error
	})
	if err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}

	return issuer.Session(admin.ID, company.ID, admin.Email, admin.Role)
}
