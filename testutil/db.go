// Package testutil provides shared helpers for database-backed tests.
// Postgres helpers skip automatically when TEST_DATABASE_URL is not set, so
// unit tests run without a database server; the SQLite helper always runs.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"

	"github.com/pkordes/priority-todo/migrations"
)

// NewPool opens a *pgxpool.Pool on TEST_DATABASE_URL with every Postgres
// migration applied, the Postgres counterpart of NewSQLiteDB.
//
// Test packages run in parallel against the same database, so migrations are
// applied under a Postgres advisory lock. The test is skipped when
// TEST_DATABASE_URL is not set, and the pool is closed when it finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireDSN(t)
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := migratePostgres(ctx, db); err != nil {
		t.Fatalf("testutil.NewPool: migrate: %v", err)
	}
	return pool
}

// NewSQLDB opens a *sql.DB on TEST_DATABASE_URL through the pgx
// database/sql driver, without applying migrations. Migration tests use it
// to drive goose themselves.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	return db
}

// migratePostgres brings db up to the latest embedded migration.
func migratePostgres(ctx context.Context, db *sql.DB) error {
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return err
	}
	provider, err := migrations.NewProvider(goose.DialectPostgres, db, goose.WithSessionLocker(locker))
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// requireDSN returns TEST_DATABASE_URL, skipping the test if it is not set.
func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres test")
	}
	return dsn
}
