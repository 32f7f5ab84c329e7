package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/priority-todo/internal/config"
	"github.com/pkordes/priority-todo/internal/poll"
	"github.com/pkordes/priority-todo/internal/repo"
	"github.com/pkordes/priority-todo/migrations"
)

// store bundles one opened backend: repos and a TxRunner for the service,
// plus a *sql.DB and dialect for goose.
type store struct {
	repos   repo.Repos
	tx      repo.TxRunner
	sqlDB   *sql.DB
	dialect goose.Dialect
	close   func()
}

// openStore connects to the backend selected by cfg.StoreDriver.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return openSQLiteStore(ctx, cfg, log)
	default:
		return openPostgresStore(ctx, cfg, log)
	}
}

func openPostgresStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*store, error) {
	// pgxpool.New does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	// Postgres often starts alongside the server (docker compose), so the
	// first ping is retried until DBConnectTimeout runs out.
	attempt := 0
	err = poll.Do(ctx, poll.Policy{MaxWait: cfg.DBConnectTimeout}, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			log.DebugContext(ctx, "database not ready", "attempt", attempt, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.InfoContext(ctx, "database connection established", "driver", config.DriverPostgres)

	// goose needs database/sql; share the pool's connections instead of
	// opening a second set.
	sqlDB := stdlib.OpenDBFromPool(pool)

	return &store{
		repos:   repo.NewRepos(pool),
		tx:      repo.NewTxRunner(pool),
		sqlDB:   sqlDB,
		dialect: goose.DialectPostgres,
		close: func() {
			_ = sqlDB.Close()
			pool.Close()
		},
	}, nil
}

func openSQLiteStore(ctx context.Context, cfg config.Config, log *slog.Logger) (*store, error) {
	db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "database connection established", "driver", config.DriverSQLite, "path", cfg.SQLitePath)

	return &store{
		repos:   repo.NewSQLiteRepos(db),
		tx:      repo.NewSQLiteTxRunner(db),
		sqlDB:   db.DB,
		dialect: goose.DialectSQLite3,
		close:   func() { _ = db.Close() },
	}, nil
}

// migrateUp applies every pending migration and logs each one.
func (s *store) migrateUp(ctx context.Context, log *slog.Logger) error {
	provider, err := migrations.NewProvider(s.dialect, s.sqlDB)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	return nil
}
