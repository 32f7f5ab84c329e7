package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/priority-todo/internal/domain"
)

// ListRepo defines the persistence operations for Lists.
// The service layer depends on this interface, not the concrete implementation,
// which allows the service to be unit-tested with a mock.
type ListRepo interface {
	// Create inserts a new, empty list and returns the persisted record
	// (with generated id and created_at populated).
	Create(ctx context.Context) (domain.List, error)

	// GetByID retrieves a single list by its UUID primary key.
	// Returns domain.ErrNotFound if no list with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.List, error)

	// Count returns the number of stored lists.
	Count(ctx context.Context) (int64, error)
}

// pgListRepo is the Postgres implementation of ListRepo.
type pgListRepo struct {
	db db
}

// NewListRepo constructs a ListRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewListRepo(db db) ListRepo {
	return &pgListRepo{db: db}
}

// Create inserts a new list row and returns the full persisted record.
func (r *pgListRepo) Create(ctx context.Context) (domain.List, error) {
	const q = `
		INSERT INTO lists DEFAULT VALUES
		RETURNING id, created_at`

	result, err := scanList(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.ListRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a list by primary key.
func (r *pgListRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.List, error) {
	const q = `
		SELECT id, created_at
		FROM lists
		WHERE id = @id`

	result, err := scanList(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.ListRepo.GetByID: %w", err)
	}
	return result, nil
}

// Count returns the total number of lists.
func (r *pgListRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM lists`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ListRepo.Count: %w", err)
	}
	return n, nil
}

// scanList maps a single database row into a domain.List.
func scanList(s scanner) (domain.List, error) {
	var (
		l  domain.List
		id pgtype.UUID
	)
	if err := s.Scan(&id, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.List{}, domain.ErrNotFound
		}
		return domain.List{}, err
	}
	l.ID = uuid.UUID(id.Bytes)
	return l, nil
}
