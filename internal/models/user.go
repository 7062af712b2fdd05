package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated room owner, keyed by the opaque identity string
// issued by the auth provider. Upserted on first sight; immutable afterwards
// aside from email refresh.
type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}
