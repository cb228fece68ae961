// Package postgres stores the latest prescription per user in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/exerciserx/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS prescriptions (
    user_id         TEXT PRIMARY KEY,
    prescription_id UUID NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL,
    payload         JSONB NOT NULL
)`

// Migrate creates the prescriptions table when it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

// Repository provides Postgres-backed persistence for prescription records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save upserts the user's record.
func (r *Repository) Save(ctx context.Context, record domain.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	const upsert = `INSERT INTO prescriptions (user_id, prescription_id, created_at, payload)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id) DO UPDATE
        SET prescription_id = EXCLUDED.prescription_id,
            created_at = EXCLUDED.created_at,
            payload = EXCLUDED.payload`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, upsert, record.UserID, record.ID, record.CreatedAt, payload); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Latest returns the user's record or (nil, nil) when none is stored.
func (r *Repository) Latest(ctx context.Context, userID string) (*domain.Record, error) {
	const query = `SELECT payload FROM prescriptions WHERE user_id=$1`

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var record domain.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode record for %s: %w", userID, err)
	}
	return &record, nil
}
