package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewProviderFromKeys(key, &key.PublicKey, expiry, 15*time.Minute)
}

func TestSignLogin_RoundTrip(t *testing.T) {
	p := newProvider(t, time.Hour)

	bearer, err := p.SignLogin("u1", "client")
	require.NoError(t, err)

	claims, err := p.Verify(bearer)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "client", claims.Role)
	assert.Equal(t, ScopeAccess, claims.Scope)
}

func TestSignResetGrant_ScopeAndNoRole(t *testing.T) {
	p := newProvider(t, time.Hour)

	grant, err := p.SignResetGrant("u1")
	require.NoError(t, err)

	claims, err := p.Verify(grant)
	require.NoError(t, err)
	assert.Equal(t, ScopePasswordReset, claims.Scope)
	assert.Empty(t, claims.Role)
}

func TestVerify_ExpiredToken(t *testing.T) {
	p := newProvider(t, -time.Minute)

	bearer, err := p.SignLogin("u1", "client")
	require.NoError(t, err)

	_, err = p.Verify(bearer)
	assert.Error(t, err)
}

func TestVerify_TamperedToken(t *testing.T) {
	p := newProvider(t, time.Hour)

	bearer, err := p.SignLogin("u1", "client")
	require.NoError(t, err)

	_, err = p.Verify(bearer + "x")
	assert.Error(t, err)
}

func TestVerify_WrongKey(t *testing.T) {
	signer := newProvider(t, time.Hour)
	verifier := newProvider(t, time.Hour)

	bearer, err := signer.SignLogin("u1", "client")
	require.NoError(t, err)

	_, err = verifier.Verify(bearer)
	assert.Error(t, err)
}
