package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	"github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(now *time.Time) *Limiter {
	store := kv.NewMemoryWithClock(func() time.Time { return *now })
	return NewLimiter(store, "test:", map[domain.Purpose]Quota{
		domain.PurposeOTPLogin:  {MaxRequests: 3, Decay: 5 * time.Minute},
		domain.PurposeMagicLink: {MaxRequests: 3, Decay: 15 * time.Minute},
	})
}

func TestLimiter_UnderQuota(t *testing.T) {
	now := time.Now()
	l := newLimiter(&now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		limited, err := l.TooManyAttempts(ctx, domain.PurposeOTPLogin, "a@b.com")
		require.NoError(t, err)
		assert.False(t, limited, "hit %d should be allowed", i+1)
		require.NoError(t, l.Hit(ctx, domain.PurposeOTPLogin, "a@b.com"))
	}

	limited, err := l.TooManyAttempts(ctx, domain.PurposeOTPLogin, "a@b.com")
	require.NoError(t, err)
	assert.True(t, limited, "quota of 3 must be spent")
}

func TestLimiter_WindowResetsAfterDecay(t *testing.T) {
	now := time.Now()
	l := newLimiter(&now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Hit(ctx, domain.PurposeOTPLogin, "a@b.com"))
	}
	limited, err := l.TooManyAttempts(ctx, domain.PurposeOTPLogin, "a@b.com")
	require.NoError(t, err)
	require.True(t, limited)

	now = now.Add(5*time.Minute + time.Second)

	limited, err = l.TooManyAttempts(ctx, domain.PurposeOTPLogin, "a@b.com")
	require.NoError(t, err)
	assert.False(t, limited, "window must reset once the decay lapses")
}

func TestLimiter_SubjectsAreIndependent(t *testing.T) {
	now := time.Now()
	l := newLimiter(&now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Hit(ctx, domain.PurposeOTPLogin, "a@b.com"))
	}

	limited, err := l.TooManyAttempts(ctx, domain.PurposeOTPLogin, "other@b.com")
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestLimiter_PurposesAreIndependent(t *testing.T) {
	now := time.Now()
	l := newLimiter(&now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Hit(ctx, domain.PurposeOTPLogin, "a@b.com"))
	}

	limited, err := l.TooManyAttempts(ctx, domain.PurposeMagicLink, "a@b.com")
	require.NoError(t, err)
	assert.False(t, limited)
}

func TestLimiter_UnknownPurposeIsInfraError(t *testing.T) {
	now := time.Now()
	l := newLimiter(&now)

	_, err := l.TooManyAttempts(context.Background(), domain.Purpose("bogus"), "a@b.com")
	var infra *domain.InfraError
	assert.ErrorAs(t, err, &infra)
}
