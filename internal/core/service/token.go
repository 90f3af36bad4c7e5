package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// TokenCodec signs and verifies compact tokens for one kind (access or
// refresh). The kind is carried by which secret signs the token, not by a
// payload field: a token presented to the wrong codec fails signature
// verification.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime applied to tokens signed by this codec.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Sign issues a token binding subjectID to an absolute expiry. Every token
// carries a random ID, so two tokens for the same subject are never equal;
// rotation depends on the replacement differing from the token it replaces.
func (c *TokenCodec) Sign(subjectID string) (string, time.Time, error) {
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(c.ttl)

	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return "", time.Time{}, fmt.Errorf("token id: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:        hex.EncodeToString(id),
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature before trusting any claim and returns the
// verified claim set. Failures map to domain.ErrTokenExpired,
// domain.ErrTokenInvalid or domain.ErrTokenMalformed.
func (c *TokenCodec) Verify(token string) (*domain.TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil && parsed.Valid:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, domain.ErrTokenMalformed
	default:
		// Signature mismatch, wrong algorithm, or anything else untrusted.
		return nil, domain.ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}

	out := &domain.TokenClaims{
		SubjectID: claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
