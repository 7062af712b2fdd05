package models

import (
	"time"

	"github.com/google/uuid"
)

type IDType string

const (
	IDTypeIDCard   IDType = "ID_CARD"
	IDTypePassport IDType = "PASSPORT"
)

// Registrant is one persisted registration attempt, successful or not.
// Rows are append-only: never updated, never deleted. The turnstile snapshot
// lets room owners review attempts that were refused for timing or bot-check
// reasons.
type Registrant struct {
	ID            uuid.UUID `json:"id"`
	WaitingRoomID uuid.UUID `json:"waiting_room_id"`

	LegalName   string `json:"legal_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	IDNumber    string `json:"id_number"`
	IDType      IDType `json:"id_type"`

	TurnstileSuccess    bool       `json:"turnstile_success"`
	TurnstileTimestamp  *time.Time `json:"turnstile_timestamp,omitempty"`
	TurnstileFailReason *string    `json:"turnstile_fail_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
