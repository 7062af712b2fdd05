package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a time-windowed registration campaign. Once published it is
// immutable; only its owner may edit it before publication.
type Room struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Markdown  string    `json:"markdown"`
	OpensAt   time.Time `json:"opens_at"`
	ClosesAt  time.Time `json:"closes_at"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
