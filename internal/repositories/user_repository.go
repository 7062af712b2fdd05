package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/soof-golan/tix-q/internal/models"
)

type UserRepository interface {
	// Upsert inserts or refreshes a user keyed on the unique external
	// identity column. The statement is atomic, so concurrent first-sight
	// requests for the same identity cannot create duplicate rows.
	Upsert(ctx context.Context, externalID, email string) (*models.User, error)
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Upsert(ctx context.Context, externalID, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        INSERT INTO users (id, external_id, email, created_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (external_id) DO UPDATE SET email = EXCLUDED.email
        RETURNING id, external_id, email, created_at
    `, uuid.New(), externalID, email)

	var u models.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
