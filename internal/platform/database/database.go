// Package database provides the SQLite connection used by the storage
// adapter, wrapped with pool configuration and a health checker for the
// readiness endpoint.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/taskfolio/todo-service/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// DB wraps sqlx.DB with health checking. It satisfies ports.HealthChecker
// structurally via Name and HealthCheck.
type DB struct {
	*sqlx.DB
}

// Open opens the SQLite database at cfg.Path, configures the connection
// pool, and verifies connectivity with a ping. The busy timeout is passed
// through to the driver so concurrent writers wait instead of failing
// immediately with SQLITE_BUSY.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Path, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database %s: %w", cfg.Path, err)
	}

	return &DB{DB: db}, nil
}

// Name identifies this component in health check results.
func (db *DB) Name() string {
	return "database"
}

// HealthCheck reports database connectivity by pinging with the caller's
// context.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}
