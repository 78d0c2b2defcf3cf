package config

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"task-service.com/task-service/internal/logging"
	model "task-service.com/task-service/internal/models"
)

// NewDatabaseClient opens the configured database. Postgres connections go
// through lib/pq; sqlite is meant for local runs and tests.
func NewDatabaseClient(cfg DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logging.NewGormLogger(200 * time.Millisecond),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}
	return db, nil
}

// Migrate creates the profile's table if it does not exist.
func Migrate(db *gorm.DB, profile model.Profile) error {
	if err := db.Table(profile.Table).AutoMigrate(profile.Schema()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
