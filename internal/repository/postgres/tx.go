// Package postgres implements the repository contracts over database/sql
// with the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"notifyhub/internal/repository"
)

// TxManager runs units of work on a single top-level transaction. Nesting is
// not supported: a RunInTransaction call made inside fn opens an independent
// transaction with its own commit/rollback fate.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTransaction begins a transaction, passes its handle to fn, commits on
// nil return and rolls back on error or panic. The error returned by fn is
// propagated unchanged.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Querier) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
