package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/dtos"
	"github.com/soof-golan/tix-q/internal/routes"
	"github.com/soof-golan/tix-q/internal/utils"
)

// fakeAdmission records the token the controller handed over and returns a
// scripted result.
type fakeAdmission struct {
	gotToken string
	gotReq   *dtos.RegisterRequest
	data     *dtos.RegisterResponseData
	err      error
}

func (f *fakeAdmission) Register(_ context.Context, req *dtos.RegisterRequest, token string) (*dtos.RegisterResponseData, error) {
	f.gotReq = req
	f.gotToken = token
	return f.data, f.err
}

func registerBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(dtos.RegisterRequest{
		LegalName:     "Ada Lovelace",
		Email:         "ada@example.com",
		PhoneNumber:   "+972501234567",
		IDNumber:      "123456789",
		IDType:        "PASSPORT",
		WaitingRoomID: "7b4ad0ce-44f1-4b30-8bd1-111111111111",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func registerRouter(svc *fakeAdmission) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(routes.Register, NewRegisterController(svc).Register).Methods(http.MethodPost)
	return r
}

func TestRegisterEnvelopeShape(t *testing.T) {
	svc := &fakeAdmission{data: &dtos.RegisterResponseData{
		ID:            "9d3c1a51-0000-4000-8000-222222222222",
		LegalName:     "Ada Lovelace",
		Email:         "ada@example.com",
		PhoneNumber:   "+972501234567",
		IDNumber:      "123456789",
		IDType:        "PASSPORT",
		WaitingRoomID: "7b4ad0ce-44f1-4b30-8bd1-111111111111",
	}}

	req := httptest.NewRequest(http.MethodPost, routes.Register, registerBody(t))
	req.Header.Set(constants.TurnstileTokenHeader, "tok-1")
	rec := httptest.NewRecorder()
	registerRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dtos.TrpcResponse[dtos.RegisterResponseData]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Ada Lovelace", resp.Result.Data.LegalName)
	require.Equal(t, "9d3c1a51-0000-4000-8000-222222222222", resp.Result.Data.ID)
	require.Equal(t, "tok-1", svc.gotToken)
}

func TestRegisterTokenFromCookie(t *testing.T) {
	svc := &fakeAdmission{data: &dtos.RegisterResponseData{}}

	req := httptest.NewRequest(http.MethodPost, routes.Register, registerBody(t))
	req.AddCookie(&http.Cookie{Name: constants.TurnstileTokenCookie, Value: "tok-cookie"})
	rec := httptest.NewRecorder()
	registerRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tok-cookie", svc.gotToken)
}

func TestRegisterHeaderWinsOverCookie(t *testing.T) {
	svc := &fakeAdmission{data: &dtos.RegisterResponseData{}}

	req := httptest.NewRequest(http.MethodPost, routes.Register, registerBody(t))
	req.Header.Set(constants.TurnstileTokenHeader, "tok-header")
	req.AddCookie(&http.Cookie{Name: constants.TurnstileTokenCookie, Value: "tok-cookie"})
	rec := httptest.NewRecorder()
	registerRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, "tok-header", svc.gotToken)
}

func TestRegisterMalformedJSON(t *testing.T) {
	svc := &fakeAdmission{}

	req := httptest.NewRequest(http.MethodPost, routes.Register, strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	registerRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, utils.ErrCodeInvalidPayload, errResp.Code)
	require.Nil(t, svc.gotReq, "service must not be reached on bad payloads")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dtos.RegisterRequest)
	}{
		{"empty legal name", func(r *dtos.RegisterRequest) { r.LegalName = "" }},
		{"bad email", func(r *dtos.RegisterRequest) { r.Email = "not-an-email" }},
		{"bad id type", func(r *dtos.RegisterRequest) { r.IDType = "DRIVERS_LICENSE" }},
		{"bad room id", func(r *dtos.RegisterRequest) { r.WaitingRoomID = "not-a-uuid" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAdmission{}
			payload := dtos.RegisterRequest{
				LegalName:     "Ada Lovelace",
				Email:         "ada@example.com",
				PhoneNumber:   "+972501234567",
				IDNumber:      "123456789",
				IDType:        "ID_CARD",
				WaitingRoomID: "7b4ad0ce-44f1-4b30-8bd1-111111111111",
			}
			tc.mutate(&payload)
			body, err := json.Marshal(payload)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, routes.Register, bytes.NewReader(body))
			rec := httptest.NewRecorder()
			registerRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var errResp utils.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			require.Equal(t, utils.ErrCodeValidation, errResp.Code)
			require.Nil(t, svc.gotReq)
		})
	}
}

func TestRegisterServiceRejection(t *testing.T) {
	svc := &fakeAdmission{err: &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeTooLate,
		Message:    "Too late to register",
	}}

	req := httptest.NewRequest(http.MethodPost, routes.Register, registerBody(t))
	req.Header.Set(constants.TurnstileTokenHeader, "tok-1")
	rec := httptest.NewRecorder()
	registerRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, utils.ErrCodeTooLate, errResp.Code)
	require.Equal(t, "Too late to register", errResp.Message)
}
