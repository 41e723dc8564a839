package repository

import (
	"context"
	"database/sql"
	"errors"
)

// db is an interface satisfied by both *sqlx.DB and *sqlx.Tx, so every
// repository can run against a direct connection or inside a transaction.
type db interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// handleNotFound converts sql.ErrNoRows into a nil result without error.
// Find* operations treat a missing row as an absent value, not a failure.
func handleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
