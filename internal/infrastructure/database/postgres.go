package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/allospace/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a new Postgres connection.
// TranslateError turns driver unique violations into gorm.ErrDuplicatedKey.
func Open(dsn string, production bool) (*gorm.DB, error) {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// AutoMigrate performs database migration for all required tables,
// including the Casbin policy table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBAccount{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := db.AutoMigrate(&repositories.DBListing{}); err != nil {
		return fmt.Errorf("failed to migrate spaces table: %w", err)
	}

	// creates casbin_rule when missing
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}

// Close releases the pool behind db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
