package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Happy-Franck/Eventio-sub001/internal/application/emailauth"
	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/validate"
)

// MagicLinkHandler handles the magic-link flow endpoints.
type MagicLinkHandler struct {
	svc emailauth.Service
}

func NewMagicLinkHandler(svc emailauth.Service) *MagicLinkHandler {
	return &MagicLinkHandler{svc: svc}
}

type magicLinkVerifyRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (h *MagicLinkHandler) Send(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SendMagicLink(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeVerificationResult(w, res)
}

func (h *MagicLinkHandler) Resend(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	res, err := h.svc.ResendMagicLink(r.Context(), email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeVerificationResult(w, res)
}

func (h *MagicLinkHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req magicLinkVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeFailure(w, http.StatusUnprocessableEntity, domain.CodeInvalidToken, err.Error())
		return
	}
	res, err := h.svc.VerifyMagicLink(r.Context(), req.Token, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeValidationResult(w, res)
}
