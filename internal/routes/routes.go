package routes

const (
	// Health
	Health = "/health"

	// Public registration endpoint
	Register = "/api/v1/register"

	// Owner-facing room endpoints (tRPC-style procedure names kept for the
	// existing frontend)
	RoomCreate = "/api/v1/room.create"
	RoomUpdate = "/api/v1/room.update"
	RoomRead   = "/api/v1/room.read"
)
