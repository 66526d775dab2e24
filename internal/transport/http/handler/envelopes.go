package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
)

// ErrorEnvelope is the generic failure wrapper for requests that never
// reached a flow-specific result.
type ErrorEnvelope struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	ErrorCode domain.ErrorCode `json:"error_code,omitempty"`
}

// MessageEnvelope is the generic success wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, code domain.ErrorCode, msg string) {
	writeJSON(w, status, ErrorEnvelope{Success: false, Message: msg, ErrorCode: code})
}

// statusForCode maps the stable error code to an HTTP status. Domain
// failures stay in the 4xx range except the delivery channel, which is a
// downstream fault.
func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case domain.CodeUserNotFound:
		return http.StatusNotFound
	case domain.CodeEmailSendFailed:
		return http.StatusBadGateway
	case domain.CodeConfigurationError:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeVerificationResult(w http.ResponseWriter, res domain.VerificationResult) {
	if res.Success {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, statusForCode(res.ErrorCode), res)
}

func writeOTPResult(w http.ResponseWriter, res domain.OTPResult) {
	if res.Success {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, statusForCode(res.ErrorCode), res)
}

func writeValidationResult(w http.ResponseWriter, res domain.ValidationResult) {
	if res.Valid {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, statusForCode(res.ErrorCode), res)
}

// writeServiceError maps infrastructure errors to 5xx responses. Anything
// that is not an InfraError is an unexpected fault and reported as one.
func writeServiceError(w http.ResponseWriter, err error) {
	var infra *domain.InfraError
	if errors.As(err, &infra) {
		writeFailure(w, http.StatusServiceUnavailable, infra.Code, "authentication backend unavailable")
		return
	}
	writeFailure(w, http.StatusInternalServerError, domain.CodeConfigurationError, "internal error")
}
