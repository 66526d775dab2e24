package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/smtp"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/sns"
)

// EmailSender builds and dispatches the authentication emails. Every
// outgoing mail embeds either a frontend deep link or the raw code. Delivery
// failures are logged and re-signaled as domain.ErrEmailSendFailed so
// transport details never reach callers.
type EmailSender struct {
	mailer      smtp.Mailer
	sms         sns.SMSSender // optional second channel for OTP codes
	frontendURL string
	smsEnabled  bool
}

func NewEmailSender(mailer smtp.Mailer, sms sns.SMSSender, frontendURL string, smsEnabled bool) *EmailSender {
	return &EmailSender{
		mailer:      mailer,
		sms:         sms,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		smsEnabled:  smsEnabled,
	}
}

func (s *EmailSender) SendVerification(u *domain.User, token string) error {
	link := s.deepLink("/verify-email", token, u.Email)
	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s\n\nThe link is valid for 24 hours. If you did not create an Eventio account, ignore this email.",
		u.Name, link,
	)
	return s.send(u.Email, "Confirm your Eventio email", body)
}

// SendOTP delivers the login code by email and, when enabled and the user
// has a confirmed phone, by SMS as well. The SMS leg is best effort.
func (s *EmailSender) SendOTP(ctx context.Context, u *domain.User, code string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour Eventio login code is: %s\n\nIt expires in a few minutes. Never share this code with anyone.",
		u.Name, code,
	)
	if err := s.send(u.Email, "Your Eventio login code", body); err != nil {
		return err
	}
	if s.smsEnabled && s.sms != nil && u.Phone != nil && u.PhoneConfirmed {
		if err := s.sms.SendSMS(ctx, *u.Phone, "Your Eventio login code: "+code); err != nil {
			slog.Warn("OTP SMS delivery failed", "user_id", u.UserID, "err", err)
		}
	}
	return nil
}

func (s *EmailSender) SendMagicLink(email, token string) error {
	link := s.deepLink("/reset-password", token, email)
	body := fmt.Sprintf(
		"Hello,\n\nUse the link below to continue resetting your password:\n\n%s\n\nThe link is valid for one hour and can be used once. If you did not request it, ignore this email.",
		link,
	)
	return s.send(email, "Your Eventio sign-in link", body)
}

func (s *EmailSender) send(to, subject, body string) error {
	if err := s.mailer.SendEmail(to, subject, body); err != nil {
		slog.Error("email dispatch failed", "to", to, "subject", subject, "err", err)
		return fmt.Errorf("dispatch %q: %w", subject, domain.ErrEmailSendFailed)
	}
	return nil
}

func (s *EmailSender) deepLink(path, token, email string) string {
	return fmt.Sprintf("%s%s?token=%s&email=%s",
		s.frontendURL, path, url.QueryEscape(token), url.QueryEscape(email))
}
