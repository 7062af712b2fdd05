package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/dtos"
	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/repositories"
	"github.com/soof-golan/tix-q/internal/utils"
)

// AdmissionService turns an inbound registration request into a durably
// recorded outcome. Per request the stages run strictly in order:
//
//	verify token -> resolve room -> classify window -> record attempt -> respond
//
// Room-independent verification failures (no token, transport, malformed
// response) reject before any row exists — the attempt cannot be tied to a
// room yet. Once the room resolves, the attempt is recorded no matter how
// the decision falls, so organizers can review early/late/bot attempts.
//
// Rejection priority after recording is fixed and documented: window
// violations (indeterminate, too early, too late) are reported before a
// failed bot check. Window violations are the more actionable signal for
// the organizer.
type AdmissionService interface {
	Register(ctx context.Context, req *dtos.RegisterRequest, token string) (*dtos.RegisterResponseData, error)
}

type admissionService struct {
	verifier    TurnstileVerifier
	lookups     LookupCache
	registrants repositories.RegistrantRepository
}

func NewAdmissionService(
	verifier TurnstileVerifier,
	lookups LookupCache,
	registrants repositories.RegistrantRepository,
) AdmissionService {
	return &admissionService{
		verifier:    verifier,
		lookups:     lookups,
		registrants: registrants,
	}
}

func playNice(name string) string {
	return fmt.Sprintf(constants.PlayNiceResponse, name)
}

func rejected(status int, code, message, name string) *utils.AppError {
	return &utils.AppError{
		StatusCode: status,
		Code:       code,
		Message:    message + playNice(name),
	}
}

func (s *admissionService) Register(ctx context.Context, req *dtos.RegisterRequest, token string) (*dtos.RegisterResponseData, error) {
	log := utils.Logger.WithFields(logrus.Fields{
		"legal_name": req.LegalName,
		"room_id":    req.WaitingRoomID,
	})
	log.Info("Registration received")

	// 1) Bot mitigation. One siteverify call, never retried: the token is
	// consumed at Cloudflare whether or not we like the answer.
	outcome, err := s.verifier.Verify(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMalformedVerification):
			log.WithError(err).Error("Malformed siteverify response")
			return nil, &utils.AppError{
				StatusCode: http.StatusInternalServerError,
				Code:       utils.ErrCodeExternalServiceFailure,
				Message:    "Invalid turnstile token (challenge_ts)" + playNice(req.LegalName),
				Err:        err,
			}
		default:
			log.WithError(err).Error("Turnstile verification transport failure")
			return nil, &utils.AppError{
				StatusCode: http.StatusBadGateway,
				Code:       utils.ErrCodeExternalServiceFailure,
				Message:    "Verification service unavailable",
				Err:        err,
			}
		}
	}
	if outcome.NoToken() {
		// No room context exists yet, so nothing is recorded.
		log.Info("Rejected: no turnstile token")
		return nil, rejected(http.StatusBadRequest, utils.ErrCodeMissingToken,
			"Missing turnstile token", req.LegalName)
	}
	log.WithField("turnstile_success", outcome.Success).Info("Turnstile verified")

	// 2) Resolve the room. Registration is anonymous, so only published
	// rooms are visible here.
	roomID := uuid.MustParse(req.WaitingRoomID) // validated upstream
	room, err := s.lookups.ResolveRoom(ctx, roomID, nil)
	if err != nil {
		log.WithError(err).Error("Room lookup failed")
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error (room lookup)",
			Err:        err,
		}
	}
	if room == nil {
		log.Info("Rejected: unknown waiting room")
		return nil, rejected(http.StatusBadRequest, utils.ErrCodeInvalidRoom,
			"Invalid waiting room ID", req.LegalName)
	}

	// 3) Classify against the room window using the attested timestamp.
	class := ClassifyWindow(outcome.ChallengeTS, room.OpensAt, room.ClosesAt)
	log.WithField("window", string(class)).Info("Window classified")

	// 4) Record the attempt unconditionally, before deciding what to report.
	reg := &models.Registrant{
		ID:                  uuid.New(),
		WaitingRoomID:       room.ID,
		LegalName:           req.LegalName,
		Email:               req.Email,
		PhoneNumber:         req.PhoneNumber,
		IDNumber:            req.IDNumber,
		IDType:              models.IDType(req.IDType),
		TurnstileSuccess:    outcome.Success,
		TurnstileTimestamp:  outcome.ChallengeTS,
		TurnstileFailReason: outcome.FailReason(),
	}
	if err := s.registrants.Create(ctx, reg); err != nil {
		if errors.Is(err, utils.ErrInvalidRoom) {
			// Cached room won a race against deletion; same outward result
			// as an unknown room.
			log.Info("Rejected: room vanished before insert")
			return nil, rejected(http.StatusBadRequest, utils.ErrCodeInvalidRoom,
				"Invalid waiting room ID", req.LegalName)
		}
		log.WithError(err).Error("Failed to record registration attempt")
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       utils.ErrCodeInternal,
			Message:    "Internal server error (db)",
			Err:        err,
		}
	}
	log.WithField("registrant_id", reg.ID).Info("Attempt recorded")

	// 5) Report. Window verdicts first, bot-check verdict last.
	switch class {
	case WindowIndeterminate:
		return nil, rejected(http.StatusBadRequest, utils.ErrCodeMissingChallengeTs,
			"Missing challenge timestamp", req.LegalName)
	case WindowTooEarly:
		appErr := rejected(http.StatusBadRequest, utils.ErrCodeTooEarly,
			"Too early to register.", req.LegalName)
		appErr.Message += "\nbtw this request was recorded."
		return nil, appErr
	case WindowTooLate:
		return nil, rejected(http.StatusBadRequest, utils.ErrCodeTooLate,
			"Too late to register", req.LegalName)
	}

	if !outcome.Success {
		return nil, s.rejectBotCheck(outcome, req.LegalName, log)
	}

	return &dtos.RegisterResponseData{
		ID:            reg.ID.String(),
		LegalName:     reg.LegalName,
		Email:         reg.Email,
		PhoneNumber:   reg.PhoneNumber,
		IDNumber:      reg.IDNumber,
		IDType:        string(reg.IDType),
		WaitingRoomID: reg.WaitingRoomID.String(),
	}, nil
}

// rejectBotCheck maps siteverify error codes onto the participant-facing
// rejection, mirroring Cloudflare's documented vocabulary.
func (s *admissionService) rejectBotCheck(outcome *models.TurnstileOutcome, name string, log *logrus.Entry) *utils.AppError {
	switch {
	case outcome.HasErrorCode(models.TurnstileErrTimeoutOrDuplicate):
		log.Info("Rejected: duplicate turnstile token")
		return rejected(http.StatusBadRequest, utils.ErrCodeDuplicateToken,
			"Duplicate turnstile token", name)
	case outcome.HasErrorCode(models.TurnstileErrMissingResponse):
		log.Info("Rejected: missing turnstile response")
		return rejected(http.StatusBadRequest, utils.ErrCodeMissingToken,
			"Missing turnstile token", name)
	case outcome.HasErrorCode(models.TurnstileErrInvalidResponse):
		log.Info("Rejected: invalid turnstile token")
		return rejected(http.StatusBadRequest, utils.ErrCodeBotCheckFailed,
			"Invalid turnstile token", name)
	default:
		log.WithField("error_codes", outcome.ErrorCodes).Info("Rejected: turnstile verification failed")
		return rejected(http.StatusBadRequest, utils.ErrCodeBotCheckFailed,
			"Invalid turnstile token", name)
	}
}
