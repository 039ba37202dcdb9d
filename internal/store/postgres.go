package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/tonkolab/astrobot/core/logger"
)

// PostgresStore implements Store on top of a sqlx connection pool.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Upsert inserts or updates the birth data for a user. The fulfilled flag
// is deliberately left out of the update set.
func (s *PostgresStore) Upsert(ctx context.Context, userID int64, birthData string) error {
	const q = `
		INSERT INTO users (user_id, birth_data, fulfilled)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id)
		DO UPDATE SET birth_data = EXCLUDED.birth_data`

	if _, err := s.db.ExecContext(ctx, q, userID, birthData); err != nil {
		return fmt.Errorf("store: upsert user %d: %w", userID, err)
	}
	logger.Debug(ctx, "db", "users.upsert",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("birth_data", birthData),
	)
	return nil
}

// Get loads the record for a user.
func (s *PostgresStore) Get(ctx context.Context, userID int64) (UserRecord, error) {
	const q = `SELECT user_id, birth_data, fulfilled FROM users WHERE user_id = $1`

	var rec UserRecord
	if err := s.db.GetContext(ctx, &rec, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserRecord{}, ErrNotFound
		}
		return UserRecord{}, fmt.Errorf("store: get user %d: %w", userID, err)
	}
	return rec, nil
}

// MarkFulfilled flips the fulfilled flag. Calling it again for the same
// user is a no-op.
func (s *PostgresStore) MarkFulfilled(ctx context.Context, userID int64) error {
	const q = `UPDATE users SET fulfilled = TRUE WHERE user_id = $1`

	res, err := s.db.ExecContext(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("store: mark fulfilled %d: %w", userID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	logger.Info(ctx, "db", "users.fulfilled",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return nil
}

// Count returns the total number of user records.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("store: count users: %w", err)
	}
	return n, nil
}

// CountFulfilled returns the number of users with a delivered purchase.
func (s *PostgresStore) CountFulfilled(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE fulfilled`); err != nil {
		return 0, fmt.Errorf("store: count fulfilled: %w", err)
	}
	return n, nil
}
