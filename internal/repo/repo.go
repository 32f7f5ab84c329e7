// Package repo contains all database access logic for the Priority-To-Do app.
// Each resource has its own file with an interface and a Postgres implementation;
// sqlite.go holds the SQLite implementations of the same interfaces.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos groups the repositories that share one connection or transaction.
type Repos struct {
	Lists ListRepo
	Items ItemRepo
}

// TxRunner runs a unit of work inside a single database transaction.
// The service layer uses it for operations that must write several rows
// atomically (creating a list together with its first item).
type TxRunner interface {
	// RunInTx calls fn with repos bound to a new transaction. The transaction
	// is committed if fn returns nil and rolled back otherwise; fn's error is
	// returned unchanged.
	RunInTx(ctx context.Context, fn func(Repos) error) error
}

// NewRepos returns Postgres-backed repos sharing the provided db connection.
func NewRepos(db db) Repos {
	return Repos{Lists: NewListRepo(db), Items: NewItemRepo(db)}
}
