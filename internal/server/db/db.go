// Package db wires the server to its postgres backing store: a bounded
// connection pool and the bucket-replace operations every item handler
// needs.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cuemby/taskbook/pkg/log"
)

// Pool bounds: small and conservative, since every request holds a
// connection only for the span of one transaction.
const (
	maxConns        = 10
	minConns        = 0
	maxConnIdleTime = 5 * time.Minute
	maxConnLifetime = 30 * time.Minute
	acquireTimeout  = 5 * time.Second
)

// DB wraps a pgxpool.Pool with the schema-level operations the server
// needs.
type DB struct {
	Pool *pgxpool.Pool
}

// Open parses dsn, applies the pool bounds, and connects. acquireTimeout
// bounds only the initial connection check; later acquisitions are
// bounded by the caller's context alone.
func Open(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.MaxConnLifetime = maxConnLifetime

	acquireCtx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(acquireCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	log.Logger.Info().Int32("max_conns", maxConns).Msg("database pool ready")
	return &DB{Pool: pool}, nil
}

// Close releases all pooled connections.
func (d *DB) Close() {
	d.Pool.Close()
}
