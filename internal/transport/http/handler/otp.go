package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Happy-Franck/Eventio-sub001/internal/application/emailauth"
	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/validate"
)

// OTPHandler handles the login-code flow endpoints.
type OTPHandler struct {
	svc emailauth.Service
}

func NewOTPHandler(svc emailauth.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

type otpSendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type otpVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SendOTPCode(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOTPResult(w, res)
}

func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	res, err := h.svc.ResendOTP(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOTPResult(w, res)
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusUnprocessableEntity, domain.CodeInvalidEmail, err.Error())
		return
	}
	res, err := h.svc.VerifyOTPCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeValidationResult(w, res)
}

// decodeEmail parses and validates the {email} request body shared by the
// send/resend endpoints.
func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req otpSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "invalid request body")
		return "", false
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusUnprocessableEntity, domain.CodeInvalidEmail, err.Error())
		return "", false
	}
	return req.Email, true
}
