package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Happy-Franck/Eventio-sub001/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. A login bearer carries ScopeAccess; a magic-link redemption
// yields a short-lived ScopePasswordReset grant valid only for the follow-on
// password change.
const (
	ScopeAccess        = "access"
	ScopePasswordReset = "password_reset"
)

// Claims holds the JWT payload fields.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// Provider signs and verifies RS256 JWTs.
type Provider struct {
	privateKey    *rsa.PrivateKey
	publicKey     *rsa.PublicKey
	expiry        time.Duration
	resetGrantTTL time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	privBytes, err := os.ReadFile(cfg.JWTPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	privKey, err := jwt.ParseRSAPrivateKeyFromPEM(privBytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	pubBytes, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubBytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return NewProviderFromKeys(privKey, pubKey, cfg.JWTExpiry, cfg.ResetGrantTTL), nil
}

// NewProviderFromKeys builds a Provider from in-memory keys; used by tests.
func NewProviderFromKeys(priv *rsa.PrivateKey, pub *rsa.PublicKey, expiry, resetGrantTTL time.Duration) *Provider {
	return &Provider{privateKey: priv, publicKey: pub, expiry: expiry, resetGrantTTL: resetGrantTTL}
}

// SignLogin issues a full access bearer, as granted after a successful OTP login.
func (p *Provider) SignLogin(userID, role string) (string, error) {
	return p.sign(userID, role, ScopeAccess, p.expiry)
}

// SignResetGrant issues the short-lived grant a redeemed magic link yields.
// It authorizes exactly one follow-on action: changing the password.
func (p *Provider) SignResetGrant(userID string) (string, error) {
	return p.sign(userID, "", ScopePasswordReset, p.resetGrantTTL)
}

func (p *Provider) sign(userID, role, scope string, expiry time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(p.privateKey)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.publicKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
