package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Happy-Franck/Eventio-sub001/internal/application/emailauth"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/validate"
	"github.com/Happy-Franck/Eventio-sub001/internal/transport/http/middleware"
)

// PasswordResetHandler completes the magic-link flow: the reset-scoped grant
// from a redeemed link authorizes exactly one password change.
type PasswordResetHandler struct {
	svc emailauth.Service
}

func NewPasswordResetHandler(svc emailauth.Service) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusUnprocessableEntity, "", err.Error())
		return
	}
	if err := h.svc.ResetPassword(r.Context(), claims.UserID, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "password updated"})
}
