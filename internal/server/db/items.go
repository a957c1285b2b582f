package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cuemby/taskbook/pkg/store"
	"github.com/cuemby/taskbook/pkg/wire"
)

func bucketCode(b store.Bucket) int16 {
	if b == store.Archive {
		return 1
	}
	return 0
}

// ReadItems returns every sealed item owner has in bucket.
func (d *DB) ReadItems(ctx context.Context, owner uuid.UUID, b store.Bucket) (map[string]wire.EncryptedItem, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT item_key, data, nonce FROM items WHERE user_id = $1 AND bucket = $2`,
		owner, bucketCode(b))
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]wire.EncryptedItem)
	for rows.Next() {
		var key, data, nonce string
		if err := rows.Scan(&key, &data, &nonce); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		out[key] = wire.EncryptedItem{Data: data, Nonce: nonce}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}
	return out, nil
}

// ReplaceItems atomically replaces every item owner has in bucket with
// items: a single transaction deletes the bucket's current rows, then
// inserts the replacement set, so a reader never observes a partial
// bucket.
func (d *DB) ReplaceItems(ctx context.Context, owner uuid.UUID, b store.Bucket, items map[string]wire.EncryptedItem) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM items WHERE user_id = $1 AND bucket = $2`, owner, bucketCode(b)); err != nil {
		return fmt.Errorf("clearing bucket: %w", err)
	}

	batch := &pgx.Batch{}
	for key, enc := range items {
		batch.Queue(
			`INSERT INTO items (user_id, bucket, item_key, data, nonce) VALUES ($1, $2, $3, $4, $5)`,
			owner, bucketCode(b), key, enc.Data, enc.Nonce)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("inserting item: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("closing batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
