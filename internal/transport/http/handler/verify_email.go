package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Happy-Franck/Eventio-sub001/internal/application/emailauth"
	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/validate"
	"github.com/Happy-Franck/Eventio-sub001/internal/transport/http/middleware"
)

// VerifyEmailHandler handles the email verification flow endpoints.
type VerifyEmailHandler struct {
	svc emailauth.Service
}

func NewVerifyEmailHandler(svc emailauth.Service) *VerifyEmailHandler {
	return &VerifyEmailHandler{svc: svc}
}

type verifyEmailRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

// Verify redeems a verification token for the given user.
func (h *VerifyEmailHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusUnprocessableEntity, domain.CodeInvalidToken, err.Error())
		return
	}
	res, err := h.svc.VerifyEmail(r.Context(), req.UserID, req.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeValidationResult(w, res)
}

// Resend issues a fresh verification email for the authenticated user.
func (h *VerifyEmailHandler) Resend(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	res, err := h.svc.ResendVerification(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeVerificationResult(w, res)
}
