// Package testutil builds throwaway sqlite databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"task-service.com/task-service/internal/database"
	model "task-service.com/task-service/internal/models"
	"task-service.com/task-service/internal/querybuilder"
)

// NewDB opens a file-backed sqlite database under t.TempDir with the
// profile's table created.
func NewDB(t *testing.T, profile model.Profile) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "tasks.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.Table(profile.Table).AutoMigrate(profile.Schema()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewPool wraps db in a pool with generous test limits.
func NewPool(t *testing.T, db *gorm.DB) *database.Pool {
	t.Helper()

	pool, err := database.NewPool(db, database.PoolOptions{
		MaxConnections:    4,
		IdleTimeout:       time.Minute,
		ConnectionTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	return pool
}

func NewBuilder(profile model.Profile, opts ...querybuilder.Option) *querybuilder.Builder {
	return querybuilder.New(profile, querybuilder.SQLite{}, opts...)
}

// InsertTask writes a row directly, bypassing the repository, so tests can
// control timestamps. updatedAt is ignored for tables without that column.
func InsertTask(t *testing.T, db *gorm.DB, profile model.Profile, title string, completed bool, createdAt time.Time, updatedAt *time.Time) {
	t.Helper()

	var err error
	if profile.HasUpdatedAt {
		err = db.Exec("INSERT INTO "+profile.Table+" (title, completed, created_at, updated_at) VALUES (?, ?, ?, ?)",
			title, completed, createdAt.UTC(), updatedAt).Error
	} else {
		err = db.Exec("INSERT INTO "+profile.Table+" (title, completed, created_at) VALUES (?, ?, ?)",
			title, completed, createdAt.UTC()).Error
	}
	if err != nil {
		t.Fatalf("failed to insert fixture %q: %v", title, err)
	}
}

func MustProfile(t *testing.T, name string) model.Profile {
	t.Helper()

	p, err := model.LookupProfile(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}
