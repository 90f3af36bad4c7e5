package domain

import (
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token signature invalid")
var ErrTokenMalformed = errors.New("token malformed")

// TokenPair is the transient result of issuance or rotation. It is never
// persisted as a whole; only the refresh token is recorded on the user, and
// only one refresh token per user is valid at a time.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenClaims are the verified contents of a signed token. Claims must never
// be read from a token whose signature has not been checked.
type TokenClaims struct {
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
