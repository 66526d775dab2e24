package domain

// ErrorCode is the stable machine-readable failure code surfaced as
// "error_code" in every failure response. Messages may be reworded or
// localized; codes may not.
type ErrorCode string

const (
	CodeInvalidToken               ErrorCode = "INVALID_TOKEN"
	CodeExpiredToken               ErrorCode = "EXPIRED_TOKEN"
	CodeInvalidCode                ErrorCode = "INVALID_CODE"
	CodeExpiredCode                ErrorCode = "EXPIRED_CODE"
	CodeRateLimitExceeded          ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInvalidEmail               ErrorCode = "INVALID_EMAIL"
	CodeEmailSendFailed            ErrorCode = "EMAIL_SEND_FAILED"
	CodeUserNotFound               ErrorCode = "USER_NOT_FOUND"
	CodeValidationAttemptsExceeded ErrorCode = "VALIDATION_ATTEMPTS_EXCEEDED"
	CodeConfigurationError         ErrorCode = "CONFIGURATION_ERROR"
)

// VerificationResult is the outcome of an issue-style operation on the
// verification and magic-link flows.
type VerificationResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

func VerificationSuccess(message string) VerificationResult {
	return VerificationResult{Success: true, Message: message}
}

func VerificationFailure(code ErrorCode, message string) VerificationResult {
	return VerificationResult{Success: false, Message: message, ErrorCode: code}
}

// OTPResult is the outcome of sending or resending a login code.
type OTPResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

func OTPSuccess(message string) OTPResult {
	return OTPResult{Success: true, Message: message}
}

func OTPFailure(code ErrorCode, message string) OTPResult {
	return OTPResult{Success: false, Message: message, ErrorCode: code}
}

// ValidationResult is the outcome of redeeming a secret. AccessToken is set
// only on success and only for flows that grant one (OTP login bearer,
// magic-link password-reset grant).
type ValidationResult struct {
	Valid       bool      `json:"valid"`
	Email       string    `json:"email,omitempty"`
	Message     string    `json:"message,omitempty"`
	ErrorCode   ErrorCode `json:"error_code,omitempty"`
	AccessToken string    `json:"access_token,omitempty"`
}

func ValidationSuccess(email, message string) ValidationResult {
	return ValidationResult{Valid: true, Email: email, Message: message}
}

func ValidationFailure(code ErrorCode, message string) ValidationResult {
	return ValidationResult{Valid: false, Message: message, ErrorCode: code}
}
