package store

import (
	"context"
	"fmt"
)

// Savepoints isolates each imported row inside a transaction. PostgreSQL
// aborts the whole transaction on any error, so a failed row must roll back
// to its savepoint before the next row can run.
type Savepoints struct {
	db DBTX
}

// NewSavepoints returns a row guard over tx.
func NewSavepoints(tx DBTX) *Savepoints {
	return &Savepoints{db: tx}
}

func savepointName(row int) string {
	return fmt.Sprintf("sp_%d", row)
}

func (s *Savepoints) Begin(ctx context.Context, row int) error {
	if _, err := s.db.Exec(ctx, "SAVEPOINT "+savepointName(row)); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}
	return nil
}

func (s *Savepoints) Release(ctx context.Context, row int) error {
	if _, err := s.db.Exec(ctx, "RELEASE SAVEPOINT "+savepointName(row)); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (s *Savepoints) Rollback(ctx context.Context, row int) error {
	if _, err := s.db.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepointName(row)); err != nil {
		return fmt.Errorf("rollback savepoint: %w", err)
	}
	return nil
}
