package domain

// Purpose identifies which authentication flow a secret or rate-limit
// counter belongs to. It is part of every cache key, so the three flows
// never share state.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposeOTPLogin          Purpose = "otp_login"
	PurposeMagicLink         Purpose = "magic_link"
)

// AuthSecret is a single-use secret (opaque token or numeric code) stored in
// the key-value cache under its (purpose, subject) pair. At most one live
// record exists per pair — issuing a new secret overwrites the previous one.
// ExpiresAt is a Unix timestamp; expiry is checked lazily at validation time.
type AuthSecret struct {
	Purpose      Purpose `json:"purpose"`
	Subject      string  `json:"subject"`
	Secret       string  `json:"secret"`
	IssuedAt     int64   `json:"issued_at"`
	ExpiresAt    int64   `json:"expires_at"`
	AttemptCount int     `json:"attempt_count"`
	MaxAttempts  int     `json:"max_attempts"` // 0 = unlimited (opaque tokens)
}
