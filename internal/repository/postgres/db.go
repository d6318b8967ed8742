package postgres

import (
	"context"
	"fmt"

	"orderdesk-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool creates a new pgx connection pool
func NewPgxPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Configure pool settings from config
	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

const schema = `CREATE TABLE IF NOT EXISTS fulfillment_records (
	tab        TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	seq        BIGSERIAL,
	version    BIGINT      NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	payload    JSONB       NOT NULL,
	PRIMARY KEY (tab, id)
)`

// EnsureSchema creates the records table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure fulfillment_records: %w", err)
	}
	return nil
}
