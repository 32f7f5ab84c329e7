// Package domain contains the core data types for the Priority-To-Do application.
// This package has no dependencies on storage or transport and is imported by
// every other internal package (repo, service, handler, view).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// List is a to-do list. It has no title; its identity is its ID, which also
// forms the list's URL. A list is created together with its first item and
// is never updated or deleted.
type List struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// URL returns the canonical path of the list's page.
func (l List) URL() string {
	return ListURL(l.ID)
}

// ListURL returns the canonical path of the page for the list with the given id.
func ListURL(id uuid.UUID) string {
	return "/lists/" + id.String() + "/"
}
