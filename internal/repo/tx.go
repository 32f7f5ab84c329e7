package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// beginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx. A pgx.Tx
// begins a savepoint, so integration tests can nest RunInTx inside their
// rollback-only test transaction.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// pgTxRunner is the Postgres implementation of TxRunner.
type pgTxRunner struct {
	db beginner
}

// NewTxRunner constructs a TxRunner that opens transactions on db.
func NewTxRunner(db beginner) TxRunner {
	return &pgTxRunner{db: db}
}

// RunInTx delegates commit/rollback handling to pgx.BeginFunc.
func (r *pgTxRunner) RunInTx(ctx context.Context, fn func(Repos) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
}
