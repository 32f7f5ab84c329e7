package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single to-do entry belonging to exactly one List.
//
// Position is the 1-based ordinal of the item within its list, in creation
// order. It is derived by the repo from insertion order and never stored
// directly.
type Item struct {
	ID        uuid.UUID `json:"id"`
	ListID    uuid.UUID `json:"list_id"`
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
