package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrEmailSendFailed replaces any transport error from the mail channel;
	// SMTP details are logged, never returned to callers.
	ErrEmailSendFailed = errors.New("email send failed")
)

// InfraError marks a failure of the cache backend or service configuration,
// as opposed to a domain outcome a client can trigger. Handlers map it to a
// 5xx response carrying the code.
type InfraError struct {
	Code ErrorCode
	Err  error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// NewInfraError wraps err as a CONFIGURATION_ERROR-class infrastructure failure.
func NewInfraError(err error) *InfraError {
	return &InfraError{Code: CodeConfigurationError, Err: err}
}
