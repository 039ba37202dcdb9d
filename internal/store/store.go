// Package store persists funnel user records.
package store

import (
	"context"
	"errors"
)

// ErrNotFound indicates no record exists for the requested user.
var ErrNotFound = errors.New("store: user record not found")

// UserRecord is the durable state of one funnel participant.
type UserRecord struct {
	UserID    int64  `db:"user_id"`
	BirthData string `db:"birth_data"`
	Fulfilled bool   `db:"fulfilled"`
}

// Store is the persistence boundary for user records.
//
// Upsert writes birth data without touching the fulfilled flag, so a
// returning buyer who re-enters the funnel keeps their purchase.
type Store interface {
	Upsert(ctx context.Context, userID int64, birthData string) error
	Get(ctx context.Context, userID int64) (UserRecord, error)
	MarkFulfilled(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
	CountFulfilled(ctx context.Context) (int64, error)
}
