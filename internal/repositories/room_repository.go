package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/soof-golan/tix-q/internal/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	// GetVisibleByID returns the room only if it is published or owned by
	// the caller. callerID may be nil for anonymous lookups. Returns
	// (nil, nil) when no visible room matches.
	GetVisibleByID(ctx context.Context, id uuid.UUID, callerID *uuid.UUID) (*models.Room, error)
	// UpdateUnpublished updates a room owned by ownerID that has not been
	// published yet. Reports whether a row was actually updated.
	UpdateUnpublished(ctx context.Context, room *models.Room) (bool, error)
	// SetPublished flips the published flag on an owned room.
	SetPublished(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

type roomRepo struct {
	db DB
}

func NewRoomRepository(db DB) RoomRepository {
	return &roomRepo{db: db}
}

func baseSelectRoom() string {
	return `
        SELECT id, owner_id, title, markdown, opens_at, closes_at,
               published, created_at, updated_at
        FROM waiting_rooms`
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	row := r.db.QueryRow(ctx, `
        INSERT INTO waiting_rooms (
            id, owner_id, title, markdown, opens_at, closes_at, published,
            created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
        )
        RETURNING created_at, updated_at
    `,
		room.ID, room.OwnerID, room.Title, room.Markdown,
		room.OpensAt, room.ClosesAt, room.Published,
	)
	return row.Scan(&room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepo) GetVisibleByID(ctx context.Context, id uuid.UUID, callerID *uuid.UUID) (*models.Room, error) {
	// The visibility predicate stays in SQL so an unpublished room id never
	// resolves for anyone but its owner.
	caller := uuid.Nil
	if callerID != nil {
		caller = *callerID
	}
	row := r.db.QueryRow(ctx,
		baseSelectRoom()+` WHERE id=$1 AND (published OR owner_id=$2)`,
		id, caller,
	)
	room, err := scanRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return room, err
}

func (r *roomRepo) UpdateUnpublished(ctx context.Context, room *models.Room) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE waiting_rooms
        SET title=$3, markdown=$4, opens_at=$5, closes_at=$6, updated_at=NOW()
        WHERE id=$1 AND owner_id=$2 AND NOT published
    `,
		room.ID, room.OwnerID,
		room.Title, room.Markdown, room.OpensAt, room.ClosesAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *roomRepo) SetPublished(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE waiting_rooms
        SET published=TRUE, updated_at=NOW()
        WHERE id=$1 AND owner_id=$2
    `, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	var m models.Room
	err := row.Scan(
		&m.ID, &m.OwnerID, &m.Title, &m.Markdown, &m.OpensAt, &m.ClosesAt,
		&m.Published, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
