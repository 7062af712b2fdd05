package dtos

import "time"

type RoomCreateRequest struct {
	Title     string    `json:"title" validate:"required,max=255"`
	Markdown  string    `json:"markdown" validate:"required"`
	OpensAt   time.Time `json:"opensAt" validate:"required"`
	ClosesAt  time.Time `json:"closesAt" validate:"required"`
	Published bool      `json:"published"`
}

type RoomUpdateRequest struct {
	ID        string    `json:"id" validate:"required,uuid"`
	Title     string    `json:"title" validate:"required,max=255"`
	Markdown  string    `json:"markdown" validate:"required"`
	OpensAt   time.Time `json:"opensAt" validate:"required"`
	ClosesAt  time.Time `json:"closesAt" validate:"required"`
	Published bool      `json:"published"`
}

type RoomResponseData struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Markdown  string    `json:"markdown"`
	OpensAt   time.Time `json:"opensAt"`
	ClosesAt  time.Time `json:"closesAt"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
