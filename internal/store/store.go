// Package store is the PostgreSQL persistence layer for merchant imports.
//
// Queries follow the sqlc layout: New(db) binds the query set to a pool or
// a transaction, and each method maps to exactly one statement. Lookups that
// only need an id select the id column alone.
//
// A query that matches no row returns ErrNotFound. Every other driver error
// is returned as-is.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Queries runs statements against a DBTX.
type Queries struct {
	db DBTX
}

// New binds the query set to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// notFound maps pgx.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// scanID runs a single-column id query.
func (q *Queries) scanID(ctx context.Context, sql string, arg any) (int64, error) {
	var id int64
	if err := q.db.QueryRow(ctx, sql, arg).Scan(&id); err != nil {
		return 0, notFound(err)
	}
	return id, nil
}
