// Package repository provides GORM-backed persistence for the partner
// service.
package repository

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/affablelink/service-partner/internal/models"
)

// PostgresConfig holds connection parameters for the service database.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the config as a libpq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Connect opens the Postgres database.
func Connect(cfg PostgresConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)

	return db, nil
}

// Migrate applies schema migrations for all service entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Partner{},
		&models.Vendor{},
		&models.Campaign{},
		&models.TrackedLink{},
		&models.Conversion{},
		&models.Payout{},
		&models.Lead{},
	)
}
