package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/soof-golan/tix-q/internal/dtos"
	"github.com/soof-golan/tix-q/internal/middleware"
	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/services"
	"github.com/soof-golan/tix-q/internal/utils"
)

type RoomController struct {
	svc services.RoomService
}

func NewRoomController(svc services.RoomService) *RoomController {
	return &RoomController{svc: svc}
}

// -----------------------------------------------------------------------------
// POST /api/v1/room.create  (authenticated owner)
// -----------------------------------------------------------------------------
func (c *RoomController) CreateRoom(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", nil,
		)
		return
	}

	var req dtos.RoomCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing or malformed room fields", nil, err,
		)
		return
	}

	room, err := c.svc.Create(r.Context(), owner, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewTrpcResponse(roomData(room)))
}

// -----------------------------------------------------------------------------
// POST /api/v1/room.update  (authenticated owner, pre-publication only)
// -----------------------------------------------------------------------------
func (c *RoomController) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", nil,
		)
		return
	}

	var req dtos.RoomUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing or malformed room fields", nil, err,
		)
		return
	}

	room, err := c.svc.Update(r.Context(), owner, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewTrpcResponse(roomData(room)))
}

// -----------------------------------------------------------------------------
// GET /api/v1/room.read?id=  (public; owners also see their unpublished rooms)
// -----------------------------------------------------------------------------
func (c *RoomController) ReadRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid room id", nil, err,
		)
		return
	}

	caller, _ := middleware.UserFromContext(r.Context())
	room, svcErr := c.svc.Read(r.Context(), roomID, caller)
	if svcErr != nil {
		utils.HandleAppError(w, svcErr)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewTrpcResponse(roomData(room)))
}

func roomData(room *models.Room) dtos.RoomResponseData {
	return dtos.RoomResponseData{
		ID:        room.ID.String(),
		Title:     room.Title,
		Markdown:  room.Markdown,
		OpensAt:   room.OpensAt,
		ClosesAt:  room.ClosesAt,
		Published: room.Published,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}
