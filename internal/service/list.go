// Package service contains the business logic for the Priority-To-Do app.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/priority-todo/internal/domain"
	"github.com/pkordes/priority-todo/internal/repo"
)

// EmptyItemError is the message attached to domain.ErrValidation when an
// item is submitted without text.
const EmptyItemError = "You can't have an empty list item"

// ListService implements business logic for List and Item operations.
// It holds the repos for single-statement operations and a TxRunner for
// creating a list together with its first item.
type ListService struct {
	repos repo.Repos
	tx    repo.TxRunner
}

// NewListService constructs a ListService backed by the provided repos.
func NewListService(repos repo.Repos, tx repo.TxRunner) *ListService {
	return &ListService{repos: repos, tx: tx}
}

// NewList creates a list holding a single item with the given text.
// Both rows are written in one transaction, so a failure never leaves an
// empty list behind.
// Returns domain.ErrValidation if text is blank.
func (s *ListService) NewList(ctx context.Context, text string) (domain.List, error) {
	if err := validateItemText(text); err != nil {
		return domain.List{}, err
	}

	var created domain.List
	err := s.tx.RunInTx(ctx, func(r repo.Repos) error {
		l, err := r.Lists.Create(ctx)
		if err != nil {
			return err
		}
		if _, err := r.Items.Create(ctx, l.ID, text); err != nil {
			return err
		}
		created = l
		return nil
	})
	if err != nil {
		return domain.List{}, fmt.Errorf("service.ListService.NewList: %w", err)
	}
	return created, nil
}

// AddItem appends an item to an existing list.
// Returns domain.ErrValidation if text is blank and domain.ErrNotFound if the
// list does not exist.
func (s *ListService) AddItem(ctx context.Context, listID uuid.UUID, text string) (domain.Item, error) {
	if _, err := s.repos.Lists.GetByID(ctx, listID); err != nil {
		return domain.Item{}, fmt.Errorf("service.ListService.AddItem: %w", err)
	}
	if err := validateItemText(text); err != nil {
		return domain.Item{}, err
	}
	item, err := s.repos.Items.Create(ctx, listID, text)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ListService.AddItem: %w", err)
	}
	return item, nil
}

// GetList returns a list and its items in creation order.
// Returns domain.ErrNotFound if the list does not exist.
// The items slice is never nil so callers can safely range over it.
func (s *ListService) GetList(ctx context.Context, listID uuid.UUID) (domain.List, []domain.Item, error) {
	l, err := s.repos.Lists.GetByID(ctx, listID)
	if err != nil {
		return domain.List{}, nil, fmt.Errorf("service.ListService.GetList: %w", err)
	}
	items, err := s.repos.Items.ListByList(ctx, listID)
	if err != nil {
		return domain.List{}, nil, fmt.Errorf("service.ListService.GetList: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return l, items, nil
}

// validateItemText rejects empty and whitespace-only text.
// The text itself is stored exactly as submitted.
func validateItemText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %s", domain.ErrValidation, EmptyItemError)
	}
	return nil
}
