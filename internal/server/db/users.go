package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cuemby/taskbook/pkg/store"
)

// User is a row of the users table.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
}

// CreateUser inserts a new user, returning store.ErrConflict if the
// username or email is already taken.
func (d *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	u := &User{ID: uuid.New(), Username: username, Email: email, PasswordHash: passwordHash}
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email already registered", store.ErrConflict)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// UserByUsername looks up a user by username, returning store.ErrNotFound
// if none exists.
func (d *DB) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := d.Pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE username = $1`,
		username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return &u, nil
}

// UserByID looks up a user by id, returning store.ErrNotFound if none
// exists.
func (d *DB) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := d.Pool.QueryRow(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE id = $1`,
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
