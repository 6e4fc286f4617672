package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"storefilter/pkg/types"
)

// TokenHeader carries the request token on filter submissions.
const TokenHeader = "X-Filter-Token"

// TokenIssuer hands out short-lived HS256 request tokens and verifies them
// on incoming filter submissions. It replaces the storefront's nonce check:
// a page load fetches a token, every async filter request must present it.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer takes the ttl as given; config.Load guarantees a
// positive value for the wired issuer.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Enabled reports whether token checks are active. An empty secret turns
// them off, which is only meant for local development.
func (t *TokenIssuer) Enabled() bool {
	return len(t.secret) > 0
}

func (t *TokenIssuer) Issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and expiry. Any failure is an authorization
// failure, fatal to the single request.
func (t *TokenIssuer) Verify(tokenString string) error {
	if !t.Enabled() {
		return nil
	}
	if tokenString == "" {
		return fmt.Errorf("%w: missing token", types.ErrUnauthorized)
	}
	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUnauthorized, err)
	}
	return nil
}
