package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/priority-todo/internal/repo"
	"github.com/pkordes/priority-todo/migrations"
)

// NewSQLiteDB opens a private in-memory SQLite database with all migrations
// applied. Unlike NewPool it never skips: SQLite needs no external server.
// The database is closed (and discarded) when the test finishes.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := repo.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("testutil.NewSQLiteDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	provider, err := migrations.NewProvider(goose.DialectSQLite3, db.DB)
	if err != nil {
		t.Fatalf("testutil.NewSQLiteDB: goose provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		t.Fatalf("testutil.NewSQLiteDB: migrate: %v", err)
	}
	return db
}
