package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"

	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/utils"
)

const fkViolationCode = "23503"

// RegistrantRepository is the append-only audit trail of registration
// attempts. There is deliberately no Update or Delete: once an attempt is
// recorded it is the permanent record, accepted or not.
type RegistrantRepository interface {
	Create(ctx context.Context, reg *models.Registrant) error
}

type registrantRepo struct {
	db DB
}

func NewRegistrantRepository(db DB) RegistrantRepository {
	return &registrantRepo{db: db}
}

func (r *registrantRepo) Create(ctx context.Context, reg *models.Registrant) error {
	// Single atomic statement: a cancelled caller can never leave a
	// half-written attempt behind.
	row := r.db.QueryRow(ctx, `
        INSERT INTO registrants (
            id, waiting_room_id,
            legal_name, email, phone_number, id_number, id_type,
            turnstile_success, turnstile_timestamp, turnstile_fail_reason,
            created_at
        ) VALUES (
            $1, $2,
            $3, $4, $5, $6, $7,
            $8, $9, $10,
            NOW()
        )
        RETURNING created_at
    `,
		reg.ID, reg.WaitingRoomID,
		reg.LegalName, reg.Email, reg.PhoneNumber, reg.IDNumber, reg.IDType,
		reg.TurnstileSuccess, reg.TurnstileTimestamp, reg.TurnstileFailReason,
	)
	if err := row.Scan(&reg.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolationCode {
			// waiting_room_id FK failed: the room vanished between the
			// cached lookup and the insert.
			return utils.ErrInvalidRoom
		}
		return err
	}
	return nil
}
