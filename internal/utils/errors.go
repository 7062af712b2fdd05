package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	// Turnstile verification
	ErrNoToken                = errors.New("no_token")
	ErrVerificationTransport  = errors.New("verification_transport_failure")
	ErrMalformedVerification  = errors.New("malformed_verification_response")
	ErrDuplicateToken         = errors.New("duplicate_token")
	ErrInvalidToken           = errors.New("invalid_token")
	ErrMissingToken           = errors.New("missing_token")
	ErrVerificationUnknown    = errors.New("verification_failed")
	ErrIndeterminateTimestamp = errors.New("indeterminate_timestamp")

	// Admission
	ErrInvalidRoom = errors.New("invalid_room")
	ErrTooEarly    = errors.New("too_early")
	ErrTooLate     = errors.New("too_late")

	// Rooms
	ErrInvalidWindow = errors.New("invalid_window")
	ErrRoomPublished = errors.New("room_published")

	// Store
	ErrStoreUnavailable = errors.New("store_unavailable")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
