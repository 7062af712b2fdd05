package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/dtos"
	"github.com/soof-golan/tix-q/internal/services"
	"github.com/soof-golan/tix-q/internal/utils"
)

var validate = validator.New()

type RegisterController struct {
	svc services.AdmissionService
}

func NewRegisterController(svc services.AdmissionService) *RegisterController {
	return &RegisterController{svc: svc}
}

// -----------------------------------------------------------------------------
// POST /api/v1/register
// -----------------------------------------------------------------------------
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Missing or malformed registration fields", nil, err,
		)
		return
	}

	utils.Logger.WithField("client_ip", utils.ClientIP(r)).Debug("Registration request")

	data, err := c.svc.Register(r.Context(), &req, turnstileToken(r))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewTrpcResponse(*data))
}

// turnstileToken reads the bot-check token from the X-Turnstile-Token header,
// falling back to the turnstile_token cookie (older frontend deployments).
// The token never appears in logs.
func turnstileToken(r *http.Request) string {
	if token := r.Header.Get(constants.TurnstileTokenHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(constants.TurnstileTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
