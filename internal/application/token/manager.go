package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/kv"
	"github.com/Happy-Franck/Eventio-sub001/internal/pkg/secret"
)

// Status is the outcome of validating a candidate against the stored secret.
type Status int

const (
	StatusValid Status = iota
	StatusNotFound
	StatusMismatch
	StatusExpired
	StatusAttemptsExceeded
)

// Settings holds the per-purpose secret parameters.
type Settings struct {
	Length      int           // opaque token length (IssueToken)
	Digits      int           // code digit width (IssueCode)
	TTL         time.Duration
	MaxAttempts int           // failed validations before a code is exhausted; 0 = unlimited
}

// expiredGrace is how long an expired record stays in the cache past its
// logical expiry. Without it the backend would evict the record at the same
// moment it expires and a late redemption could not be told apart from an
// unknown secret.
const expiredGrace = 24 * time.Hour

// Manager generates, stores, validates and invalidates single-use secrets in
// the key-value cache. At most one live secret exists per (purpose, subject):
// issuing overwrites, redeeming deletes. Expiry is observed lazily at
// validation time; the cache backend's TTL eviction handles the rest.
type Manager struct {
	store     kv.Store
	keyPrefix string
	settings  map[domain.Purpose]Settings
	now       func() time.Time
}

func NewManager(store kv.Store, keyPrefix string, settings map[domain.Purpose]Settings) *Manager {
	return &Manager{store: store, keyPrefix: keyPrefix, settings: settings, now: time.Now}
}

// NewManagerWithClock allows tests to control expiry by injecting a clock.
func NewManagerWithClock(store kv.Store, keyPrefix string, settings map[domain.Purpose]Settings, now func() time.Time) *Manager {
	return &Manager{store: store, keyPrefix: keyPrefix, settings: settings, now: now}
}

// CodeDigits returns the configured code width for the purpose (0 for
// purposes issuing opaque tokens).
func (m *Manager) CodeDigits(purpose domain.Purpose) int {
	return m.settings[purpose].Digits
}

// IssueToken generates and stores an opaque random secret for the
// (purpose, subject) pair, replacing any previous one, and returns the
// plaintext for delivery.
func (m *Manager) IssueToken(ctx context.Context, purpose domain.Purpose, subject string) (string, error) {
	s, err := m.lookup(purpose)
	if err != nil {
		return "", err
	}
	plain, err := secret.RandomToken(s.Length)
	if err != nil {
		return "", domain.NewInfraError(err)
	}
	if err := m.put(ctx, purpose, subject, plain, s, 0); err != nil {
		return "", err
	}
	return plain, nil
}

// IssueCode is IssueToken for fixed-width numeric codes; the stored record
// additionally carries the attempt budget.
func (m *Manager) IssueCode(ctx context.Context, purpose domain.Purpose, subject string) (string, error) {
	s, err := m.lookup(purpose)
	if err != nil {
		return "", err
	}
	code, err := secret.RandomCode(s.Digits)
	if err != nil {
		return "", domain.NewInfraError(err)
	}
	if err := m.put(ctx, purpose, subject, code, s, s.MaxAttempts); err != nil {
		return "", err
	}
	return code, nil
}

// Validate checks candidate against the stored secret for (purpose, subject).
// It fails closed: an absent or expired record never validates. A matching
// unexpired secret is consumed (deleted) so it validates exactly once. For
// codes, a mismatch counts against the attempt budget; once exhausted, every
// further attempt reports StatusAttemptsExceeded even with the right code.
// A non-nil error means the storage backend failed, not that the candidate
// was wrong.
func (m *Manager) Validate(ctx context.Context, purpose domain.Purpose, subject, candidate string) (Status, error) {
	key := m.key(purpose, subject)
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return StatusNotFound, nil
	}
	if err != nil {
		return StatusNotFound, domain.NewInfraError(err)
	}

	var rec domain.AuthSecret
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return StatusNotFound, domain.NewInfraError(fmt.Errorf("decode secret record: %w", err))
	}

	now := m.now()
	if now.Unix() >= rec.ExpiresAt {
		m.discard(ctx, key)
		return StatusExpired, nil
	}

	if rec.MaxAttempts > 0 && rec.AttemptCount >= rec.MaxAttempts {
		return StatusAttemptsExceeded, nil
	}

	if rec.Secret != candidate {
		if rec.MaxAttempts > 0 {
			rec.AttemptCount++
			remaining := time.Unix(rec.ExpiresAt, 0).Add(expiredGrace).Sub(now)
			if err := m.setRecord(ctx, key, &rec, remaining); err != nil {
				return StatusMismatch, err
			}
		}
		return StatusMismatch, nil
	}

	if err := m.store.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete redeemed secret", "purpose", purpose, "subject", subject, "err", err)
	}
	return StatusValid, nil
}

// Invalidate explicitly deletes the secret for (purpose, subject).
func (m *Manager) Invalidate(ctx context.Context, purpose domain.Purpose, subject string) error {
	if err := m.store.Delete(ctx, m.key(purpose, subject)); err != nil {
		return domain.NewInfraError(err)
	}
	return nil
}

func (m *Manager) put(ctx context.Context, purpose domain.Purpose, subject, plain string, s Settings, maxAttempts int) error {
	now := m.now()
	rec := &domain.AuthSecret{
		Purpose:     purpose,
		Subject:     subject,
		Secret:      plain,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(s.TTL).Unix(),
		MaxAttempts: maxAttempts,
	}
	return m.setRecord(ctx, m.key(purpose, subject), rec, s.TTL+expiredGrace)
}

func (m *Manager) setRecord(ctx context.Context, key string, rec *domain.AuthSecret, ttl time.Duration) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return domain.NewInfraError(err)
	}
	if err := m.store.Set(ctx, key, string(raw), ttl); err != nil {
		return domain.NewInfraError(err)
	}
	return nil
}

func (m *Manager) lookup(purpose domain.Purpose) (Settings, error) {
	s, ok := m.settings[purpose]
	if !ok {
		return Settings{}, domain.NewInfraError(fmt.Errorf("no settings for purpose %q", purpose))
	}
	return s, nil
}

func (m *Manager) discard(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete expired secret", "key", key, "err", err)
	}
}

func (m *Manager) key(purpose domain.Purpose, subject string) string {
	return fmt.Sprintf("%ssecret:%s:%s", m.keyPrefix, purpose, subject)
}
