package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/kv"
)

// Quota is a fixed-window request budget for one purpose.
type Quota struct {
	MaxRequests int
	Decay       time.Duration
}

// Limiter is a fixed-window per-(purpose, subject) counter over the shared
// cache. The window starts at the first hit and resets when the counter's
// TTL lapses. TooManyAttempts followed by Hit is deliberately not atomic:
// under concurrency the quota can be exceeded by at most a handful of
// requests, which is acceptable for these low-frequency operations.
type Limiter struct {
	store     kv.Store
	keyPrefix string
	quotas    map[domain.Purpose]Quota
}

func NewLimiter(store kv.Store, keyPrefix string, quotas map[domain.Purpose]Quota) *Limiter {
	return &Limiter{store: store, keyPrefix: keyPrefix, quotas: quotas}
}

// TooManyAttempts reports whether the current window's count has reached the
// purpose's quota.
func (l *Limiter) TooManyAttempts(ctx context.Context, purpose domain.Purpose, subject string) (bool, error) {
	q, err := l.quota(purpose)
	if err != nil {
		return false, err
	}
	raw, err := l.store.Get(ctx, l.key(purpose, subject))
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewInfraError(err)
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return false, domain.NewInfraError(fmt.Errorf("decode rate-limit counter: %w", err))
	}
	return count >= q.MaxRequests, nil
}

// Hit counts one request against the window, starting a new window if none
// is active. The increment is atomic in the backend.
func (l *Limiter) Hit(ctx context.Context, purpose domain.Purpose, subject string) error {
	q, err := l.quota(purpose)
	if err != nil {
		return err
	}
	if _, err := l.store.Increment(ctx, l.key(purpose, subject), q.Decay); err != nil {
		return domain.NewInfraError(err)
	}
	return nil
}

func (l *Limiter) quota(purpose domain.Purpose) (Quota, error) {
	q, ok := l.quotas[purpose]
	if !ok {
		return Quota{}, domain.NewInfraError(fmt.Errorf("no quota for purpose %q", purpose))
	}
	return q, nil
}

func (l *Limiter) key(purpose domain.Purpose, subject string) string {
	return fmt.Sprintf("%sratelimit:%s:%s", l.keyPrefix, purpose, subject)
}
