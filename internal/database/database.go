package database

import (
	"fmt"
	"log"

	"github.com/jaytnw/washwatch/internal/config"
	"github.com/jaytnw/washwatch/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.BuildDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.BuildDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.AutoMigrate(&models.Preference{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("✅ Database connected (%s)", cfg.Driver)
	return db, nil
}
