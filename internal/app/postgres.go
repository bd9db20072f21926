package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/guttosm/bocspot/config"
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open.
var sqlOpener = sql.Open

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// InitPostgres opens the mirror database described by cfg.Postgres.URL and
// pings it once. The returned pool is safe for concurrent use.
func InitPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// postgresOpener is an indirection used by Build; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
