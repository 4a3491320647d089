// Package repo implements the persistence layer, backed by GORM. This file
// contains database bootstrapping: the connection URL is dispatched on its
// scheme prefix to the matching driver, schema migrations are applied with
// AutoMigrate, and query tracing can be attached via the GORM OpenTelemetry
// plugin.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/nordstack/go-api-starter/internal/domain"
)

// Open connects to the database named by databaseURL.
//
// Supported schemes: "sqlite://<path>" and "file:<path>" (pure-Go SQLite
// driver), "postgres://" and "postgresql://" (pgx-backed driver). Driver
// duplicate-key errors are translated to gorm.ErrDuplicatedKey so the error
// classifier can recognize uniqueness conflicts uniformly.
func Open(databaseURL string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return openSQLite(strings.TrimPrefix(databaseURL, "sqlite://"), gormCfg)
	case strings.HasPrefix(databaseURL, "file:"):
		return openSQLite(databaseURL, gormCfg)
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return gorm.Open(postgres.Open(databaseURL), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database_url scheme: %q", databaseURL)
	}
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	// Fail early when the parent directory is missing instead of surfacing
	// a cryptic sqlite "out of memory (14)".
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, err
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// EnableTracing attaches the GORM OpenTelemetry plugin so every query shows
// up as a span under the request trace.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate applies the schema for all persistence models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
	)
}
