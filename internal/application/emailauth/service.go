package emailauth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Happy-Franck/Eventio-sub001/internal/application/ratelimit"
	"github.com/Happy-Franck/Eventio-sub001/internal/application/token"
	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the user-identity collaborator the auth flows consult
// and mutate. Lookups wrap domain.ErrNotFound for absent users.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// Sender delivers the authentication emails.
type Sender interface {
	SendVerification(u *domain.User, token string) error
	SendOTP(ctx context.Context, u *domain.User, code string) error
	SendMagicLink(email, token string) error
}

// TokenSigner issues the JWTs granted on successful redemption: a full login
// bearer after OTP verification, a reset-scoped grant after a magic link.
type TokenSigner interface {
	SignLogin(userID, role string) (string, error)
	SignResetGrant(userID string) (string, error)
}

// Service orchestrates the three email authentication flows. Outcomes a
// client can trigger (wrong code, expired token, quota hit) come back as
// Result values; a non-nil error always means an infrastructure fault.
type Service interface {
	ResendVerification(ctx context.Context, userID string) (domain.VerificationResult, error)
	VerifyEmail(ctx context.Context, userID, tok string) (domain.ValidationResult, error)

	SendOTPCode(ctx context.Context, email string) (domain.OTPResult, error)
	ResendOTP(ctx context.Context, email string) (domain.OTPResult, error)
	VerifyOTPCode(ctx context.Context, email, code string) (domain.ValidationResult, error)

	SendMagicLink(ctx context.Context, email string) (domain.VerificationResult, error)
	ResendMagicLink(ctx context.Context, email string) (domain.VerificationResult, error)
	VerifyMagicLink(ctx context.Context, tok, email string) (domain.ValidationResult, error)

	ResetPassword(ctx context.Context, userID, newPassword string) error
}

// ServiceDeps bundles the collaborators for NewService.
type ServiceDeps struct {
	Users   UserRepository
	Tokens  *token.Manager
	Limiter *ratelimit.Limiter
	Sender  Sender
	Signer  TokenSigner // optional; access tokens are omitted when absent
}

type service struct {
	users   UserRepository
	tokens  *token.Manager
	limiter *ratelimit.Limiter
	sender  Sender
	signer  TokenSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:   deps.Users,
		tokens:  deps.Tokens,
		limiter: deps.Limiter,
		sender:  deps.Sender,
		signer:  deps.Signer,
	}
}

// ResendVerification issues and emails a fresh verification token. Already
// verified users get an idempotent success without a new email and without
// spending rate-limit budget.
func (s *service) ResendVerification(ctx context.Context, userID string) (domain.VerificationResult, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.VerificationFailure(domain.CodeUserNotFound, "user not found"), nil
	}
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if u.EmailVerified() {
		return domain.VerificationSuccess("email already verified"), nil
	}

	limited, err := s.limiter.TooManyAttempts(ctx, domain.PurposeEmailVerification, u.Email)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if limited {
		return domain.VerificationFailure(domain.CodeRateLimitExceeded, "too many verification emails requested, try again later"), nil
	}
	if err := s.limiter.Hit(ctx, domain.PurposeEmailVerification, u.Email); err != nil {
		return domain.VerificationResult{}, err
	}

	tok, err := s.tokens.IssueToken(ctx, domain.PurposeEmailVerification, u.Email)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if err := s.sender.SendVerification(u, tok); err != nil {
		return domain.VerificationFailure(domain.CodeEmailSendFailed, "could not send verification email"), nil
	}
	return domain.VerificationSuccess("verification email sent"), nil
}

// VerifyEmail redeems a verification token and stamps the user's
// email_verified_at. The token is single-use.
func (s *service) VerifyEmail(ctx context.Context, userID, tok string) (domain.ValidationResult, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationFailure(domain.CodeUserNotFound, "user not found"), nil
	}
	if err != nil {
		return domain.ValidationResult{}, err
	}

	st, err := s.tokens.Validate(ctx, domain.PurposeEmailVerification, u.Email, tok)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	switch st {
	case token.StatusValid:
		if err := s.users.Update(ctx, u.UserID, map[string]interface{}{
			"email_verified_at": time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			return domain.ValidationResult{}, err
		}
		return domain.ValidationSuccess(u.Email, "email verified"), nil
	case token.StatusExpired:
		return domain.ValidationFailure(domain.CodeExpiredToken, "verification link expired, request a new one"), nil
	default:
		return domain.ValidationFailure(domain.CodeInvalidToken, "invalid verification token"), nil
	}
}

func (s *service) SendOTPCode(ctx context.Context, email string) (domain.OTPResult, error) {
	return s.sendOTP(ctx, email, "login code sent")
}

// ResendOTP re-applies the rate limit and issues a fresh code, invalidating
// the previous one.
func (s *service) ResendOTP(ctx context.Context, email string) (domain.OTPResult, error) {
	return s.sendOTP(ctx, email, "new login code sent")
}

func (s *service) sendOTP(ctx context.Context, email, successMsg string) (domain.OTPResult, error) {
	if !validate.Email(email) {
		return domain.OTPFailure(domain.CodeInvalidEmail, "invalid email address"), nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.OTPFailure(domain.CodeUserNotFound, "no account for this email"), nil
	}
	if err != nil {
		return domain.OTPResult{}, err
	}

	limited, err := s.limiter.TooManyAttempts(ctx, domain.PurposeOTPLogin, email)
	if err != nil {
		return domain.OTPResult{}, err
	}
	if limited {
		return domain.OTPFailure(domain.CodeRateLimitExceeded, "too many code requests, try again later"), nil
	}
	if err := s.limiter.Hit(ctx, domain.PurposeOTPLogin, email); err != nil {
		return domain.OTPResult{}, err
	}

	code, err := s.tokens.IssueCode(ctx, domain.PurposeOTPLogin, email)
	if err != nil {
		return domain.OTPResult{}, err
	}
	if err := s.sender.SendOTP(ctx, u, code); err != nil {
		return domain.OTPFailure(domain.CodeEmailSendFailed, "could not send login code"), nil
	}
	return domain.OTPSuccess(successMsg), nil
}

// VerifyOTPCode redeems a login code. A malformed candidate (wrong width,
// non-digits) is rejected before touching storage so it never burns an
// attempt. Success completes the login with a signed bearer.
func (s *service) VerifyOTPCode(ctx context.Context, email, code string) (domain.ValidationResult, error) {
	if !digitsOnly(code, s.tokens.CodeDigits(domain.PurposeOTPLogin)) {
		return domain.ValidationFailure(domain.CodeInvalidCode, "malformed login code"), nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationFailure(domain.CodeUserNotFound, "no account for this email"), nil
	}
	if err != nil {
		return domain.ValidationResult{}, err
	}

	st, err := s.tokens.Validate(ctx, domain.PurposeOTPLogin, email, code)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	switch st {
	case token.StatusValid:
		res := domain.ValidationSuccess(u.Email, "login code accepted")
		if s.signer != nil {
			bearer, err := s.signer.SignLogin(u.UserID, u.Role)
			if err != nil {
				return domain.ValidationResult{}, err
			}
			res.AccessToken = bearer
		}
		return res, nil
	case token.StatusExpired:
		return domain.ValidationFailure(domain.CodeExpiredCode, "login code expired, request a new one"), nil
	case token.StatusAttemptsExceeded:
		return domain.ValidationFailure(domain.CodeValidationAttemptsExceeded, "too many wrong attempts, request a new code"), nil
	default:
		return domain.ValidationFailure(domain.CodeInvalidCode, "wrong login code"), nil
	}
}

func (s *service) SendMagicLink(ctx context.Context, email string) (domain.VerificationResult, error) {
	return s.sendMagicLink(ctx, email, "sign-in link sent")
}

func (s *service) ResendMagicLink(ctx context.Context, email string) (domain.VerificationResult, error) {
	return s.sendMagicLink(ctx, email, "new sign-in link sent")
}

func (s *service) sendMagicLink(ctx context.Context, email, successMsg string) (domain.VerificationResult, error) {
	if !validate.Email(email) {
		return domain.VerificationFailure(domain.CodeInvalidEmail, "invalid email address"), nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.VerificationFailure(domain.CodeUserNotFound, "no account for this email"), nil
		}
		return domain.VerificationResult{}, err
	}

	limited, err := s.limiter.TooManyAttempts(ctx, domain.PurposeMagicLink, email)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if limited {
		return domain.VerificationFailure(domain.CodeRateLimitExceeded, "too many link requests, try again later"), nil
	}
	if err := s.limiter.Hit(ctx, domain.PurposeMagicLink, email); err != nil {
		return domain.VerificationResult{}, err
	}

	tok, err := s.tokens.IssueToken(ctx, domain.PurposeMagicLink, email)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	if err := s.sender.SendMagicLink(email, tok); err != nil {
		return domain.VerificationFailure(domain.CodeEmailSendFailed, "could not send sign-in link"), nil
	}
	return domain.VerificationSuccess(successMsg), nil
}

// VerifyMagicLink redeems a magic-link token. Success is proof of email
// ownership, not a session: it yields only a short-lived reset-scoped grant
// for the follow-on password change.
func (s *service) VerifyMagicLink(ctx context.Context, tok, email string) (domain.ValidationResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationFailure(domain.CodeUserNotFound, "no account for this email"), nil
	}
	if err != nil {
		return domain.ValidationResult{}, err
	}

	st, err := s.tokens.Validate(ctx, domain.PurposeMagicLink, email, tok)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	switch st {
	case token.StatusValid:
		res := domain.ValidationSuccess(u.Email, "link accepted")
		if s.signer != nil {
			grant, err := s.signer.SignResetGrant(u.UserID)
			if err != nil {
				return domain.ValidationResult{}, err
			}
			res.AccessToken = grant
		}
		return res, nil
	case token.StatusExpired:
		return domain.ValidationFailure(domain.CodeExpiredToken, "link expired, request a new one"), nil
	default:
		return domain.ValidationFailure(domain.CodeInvalidToken, "invalid or already used link"), nil
	}
}

// ResetPassword stores a new bcrypt hash for the user. Callers gate it
// behind a reset-scoped grant obtained from VerifyMagicLink.
func (s *service) ResetPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	slog.Info("password reset completed", "user_id", userID)
	return nil
}

func digitsOnly(code string, width int) bool {
	if len(code) != width {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
