package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB represents a database connection pool
type DB struct {
	*pgxpool.Pool
}

// NewConnection creates a new database connection pool. Pool sizing can be
// tuned through DATABASE_MAX_CONNS, DATABASE_MIN_CONNS and
// DATABASE_CONN_MAX_LIFETIME_MINUTES.
func NewConnection(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// All ledger math assumes calendar windows in UTC
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	config.MaxConns = int32(getEnvInt("DATABASE_MAX_CONNS", 10))
	config.MinConns = int32(getEnvInt("DATABASE_MIN_CONNS", 2))
	config.MaxConnLifetime = time.Duration(getEnvInt("DATABASE_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
