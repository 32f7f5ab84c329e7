// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests, the migrate command, and server bootstrap.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// FS holds all *.sql migration files embedded at compile time, one
// directory per SQL dialect. Use Postgres or SQLite to get the sub-tree
// goose expects instead of relying on a filesystem path at runtime.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Postgres returns the migrations for the Postgres store.
func Postgres() fs.FS {
	return mustSub("postgres")
}

// SQLite returns the migrations for the SQLite store.
func SQLite() fs.FS {
	return mustSub("sqlite")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(FS, dir)
	if err != nil {
		// Only reachable if the embed directive and dir drift apart.
		panic(fmt.Sprintf("migrations: sub %q: %v", dir, err))
	}
	return sub
}

// NewProvider returns a goose provider for db using the migration set that
// matches dialect. Only goose.DialectPostgres and goose.DialectSQLite3 are
// supported. opts are passed through to goose, e.g. a session locker.
func NewProvider(dialect goose.Dialect, db *sql.DB, opts ...goose.ProviderOption) (*goose.Provider, error) {
	var fsys fs.FS
	switch dialect {
	case goose.DialectPostgres:
		fsys = Postgres()
	case goose.DialectSQLite3:
		fsys = SQLite()
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	return goose.NewProvider(dialect, db, fsys, opts...)
}
