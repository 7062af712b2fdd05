package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soof-golan/tix-q/internal/dtos"
	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/repositories"
	"github.com/soof-golan/tix-q/internal/utils"
)

// RoomService covers the owner-facing room surface. Rooms are editable by
// their owner until published; after that they are immutable and served to
// registrants through the lookup cache.
type RoomService interface {
	Create(ctx context.Context, owner *models.User, req *dtos.RoomCreateRequest) (*models.Room, error)
	Update(ctx context.Context, owner *models.User, req *dtos.RoomUpdateRequest) (*models.Room, error)
	Read(ctx context.Context, roomID uuid.UUID, caller *models.User) (*models.Room, error)
}

type roomService struct {
	rooms    repositories.RoomRepository
	lookups  LookupCache
	notifier DeployNotifier
}

func NewRoomService(rooms repositories.RoomRepository, lookups LookupCache, notifier DeployNotifier) RoomService {
	return &roomService{rooms: rooms, lookups: lookups, notifier: notifier}
}

func (s *roomService) Create(ctx context.Context, owner *models.User, req *dtos.RoomCreateRequest) (*models.Room, error) {
	if !req.OpensAt.Before(req.ClosesAt) {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidWindow,
			Message:    "opensAt must be before closesAt",
			Err:        utils.ErrInvalidWindow,
		}
	}

	room := &models.Room{
		ID:        uuid.New(),
		OwnerID:   owner.ID,
		Title:     req.Title,
		Markdown:  req.Markdown,
		OpensAt:   req.OpensAt,
		ClosesAt:  req.ClosesAt,
		Published: req.Published,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		utils.Logger.WithError(err).Error("Room create failed")
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error (db)",
			Err:        err,
		}
	}
	utils.Logger.WithFields(logrus.Fields{
		"room_id":   room.ID,
		"owner_id":  owner.ID,
		"published": room.Published,
	}).Info("Room created")

	if room.Published {
		s.notifier.Notify("room published")
	}
	return room, nil
}

func (s *roomService) Update(ctx context.Context, owner *models.User, req *dtos.RoomUpdateRequest) (*models.Room, error) {
	if !req.OpensAt.Before(req.ClosesAt) {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidWindow,
			Message:    "opensAt must be before closesAt",
			Err:        utils.ErrInvalidWindow,
		}
	}

	roomID := uuid.MustParse(req.ID) // validated upstream
	room := &models.Room{
		ID:       roomID,
		OwnerID:  owner.ID,
		Title:    req.Title,
		Markdown: req.Markdown,
		OpensAt:  req.OpensAt,
		ClosesAt: req.ClosesAt,
	}
	updated, err := s.rooms.UpdateUnpublished(ctx, room)
	if err != nil {
		utils.Logger.WithError(err).Error("Room update failed")
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error (db)",
			Err:        err,
		}
	}
	if !updated {
		// Either not owned by the caller, unknown, or already published.
		// Published rooms are immutable by contract.
		existing, lookErr := s.rooms.GetVisibleByID(ctx, roomID, &owner.ID)
		if lookErr == nil && existing != nil && existing.Published {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       utils.ErrCodeRoomPublished,
				Message:    "Published rooms cannot be edited",
				Err:        utils.ErrRoomPublished,
			}
		}
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Room not found",
		}
	}
	s.lookups.InvalidateRoom(roomID)

	if req.Published {
		published, err := s.rooms.SetPublished(ctx, roomID, owner.ID)
		if err != nil || !published {
			utils.Logger.WithError(err).Error("Room publish failed")
			return nil, &utils.AppError{
				StatusCode: http.StatusInternalServerError,
				Code:       utils.ErrCodeInternal,
				Message:    "Internal server error (db)",
				Err:        err,
			}
		}
		s.lookups.InvalidateRoom(roomID)
		s.notifier.Notify("room published")
	}

	fresh, err := s.rooms.GetVisibleByID(ctx, roomID, &owner.ID)
	if err != nil || fresh == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error (db)",
			Err:        err,
		}
	}
	utils.Logger.WithField("room_id", roomID).Info("Room updated")
	return fresh, nil
}

func (s *roomService) Read(ctx context.Context, roomID uuid.UUID, caller *models.User) (*models.Room, error) {
	var callerID *uuid.UUID
	if caller != nil {
		callerID = &caller.ID
	}
	room, err := s.lookups.ResolveRoom(ctx, roomID, callerID)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error (room lookup)",
			Err:        err,
		}
	}
	if room == nil {
		return nil, &utils.AppError{
			StatusCode: http.StatusNotFound,
			Code:       utils.ErrCodeNotFound,
			Message:    "Room not found",
		}
	}
	return room, nil
}
