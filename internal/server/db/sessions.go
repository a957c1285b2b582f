package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cuemby/taskbook/pkg/store"
)

// CreateSession persists a session keyed by the SHA-256 hash of the
// bearer token (never the raw token) for user, expiring after ttl.
func (d *DB) CreateSession(ctx context.Context, tokenHash []byte, userID uuid.UUID, ttl time.Duration) error {
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		tokenHash, userID, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// UserIDForSession resolves a session token hash to its owning user,
// rejecting expired sessions with store.ErrAuth.
func (d *DB) UserIDForSession(ctx context.Context, tokenHash []byte) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := d.Pool.QueryRow(ctx,
		`SELECT user_id, expires_at FROM sessions WHERE token_hash = $1`,
		tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, store.ErrAuth
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("looking up session: %w", err)
	}
	if time.Now().After(expiresAt) {
		return uuid.Nil, store.ErrAuth
	}
	return userID, nil
}

// DeleteSession removes a session by token hash; logout is idempotent,
// so a missing row is not an error.
func (d *DB) DeleteSession(ctx context.Context, tokenHash []byte) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteSessionsForUser removes every session belonging to userID,
// invalidating all of that caller's devices at once (logout semantics),
// using the sessions_user_id_idx index.
func (d *DB) DeleteSessionsForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deleting sessions for user: %w", err)
	}
	return nil
}

// PruneExpiredSessions deletes every session past its expiry, returning
// how many rows were removed.
func (d *DB) PruneExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
