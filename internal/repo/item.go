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

// ItemRepo defines the persistence operations for Items.
// Items are append-only: there is no update or delete.
type ItemRepo interface {
	// Create appends an item with the given text to the list identified by
	// listID and returns the persisted record, including its position.
	// Returns domain.ErrNotFound if the list does not exist.
	Create(ctx context.Context, listID uuid.UUID, text string) (domain.Item, error)

	// ListByList returns all items of a list in creation order.
	// Returns an empty, non-nil slice when the list has no items.
	ListByList(ctx context.Context, listID uuid.UUID) ([]domain.Item, error)

	// Count returns the number of stored items across all lists.
	Count(ctx context.Context) (int64, error)
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

// Create inserts the item only if the parent list exists, so a missing list
// surfaces as pgx.ErrNoRows instead of a foreign key violation.
// The statement's snapshot does not include the new row, hence the +1.
func (r *pgItemRepo) Create(ctx context.Context, listID uuid.UUID, text string) (domain.Item, error) {
	const q = `
		WITH ins AS (
			INSERT INTO items (list_id, text)
			SELECT id, @text FROM lists WHERE id = @list_id
			RETURNING id, seq, list_id, text, created_at
		)
		SELECT ins.id, ins.list_id, ins.text,
		       (SELECT count(*) FROM items i
		        WHERE i.list_id = ins.list_id AND i.seq < ins.seq) + 1,
		       ins.created_at
		FROM ins`

	args := pgx.NamedArgs{
		"list_id": listID,
		"text":    text,
	}

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return result, nil
}

// ListByList returns a list's items ordered by insertion sequence.
func (r *pgItemRepo) ListByList(ctx context.Context, listID uuid.UUID) ([]domain.Item, error) {
	const q = `
		SELECT id, list_id, text,
		       row_number() OVER (ORDER BY seq),
		       created_at
		FROM items
		WHERE list_id = @list_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"list_id": listID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByList: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByList: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByList: rows: %w", err)
	}
	return items, nil
}

// Count returns the total number of items.
func (r *pgItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ItemRepo.Count: %w", err)
	}
	return n, nil
}

// scanItem maps a single database row into a domain.Item.
// Columns: id, list_id, text, position, created_at.
func scanItem(s scanner) (domain.Item, error) {
	var (
		it       domain.Item
		id       pgtype.UUID
		listID   pgtype.UUID
		position int64
	)
	err := s.Scan(&id, &listID, &it.Text, &position, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}
	it.ID = uuid.UUID(id.Bytes)
	it.ListID = uuid.UUID(listID.Bytes)
	it.Position = int(position)
	return it, nil
}
