package ports

import (
	"context"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// UserRepository is the credential store: user identity records plus the
// single currently-valid refresh token per user. Every method is one bounded
// read or write; no locks are held across calls.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)

	// UpdateRefreshToken unconditionally replaces the stored refresh token.
	// An empty token clears it (logout).
	UpdateRefreshToken(ctx context.Context, id, token string) error

	// ReplaceRefreshToken swaps the stored refresh token only if it still
	// equals current. Returns domain.ErrInvalidCredentials when the stored
	// value no longer matches, which is how single-use rotation stays
	// single-use under concurrent rotations of the same token.
	ReplaceRefreshToken(ctx context.Context, id, current, next string) error

	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateProfile(ctx context.Context, id string, fields ProfileUpdate) (*domain.User, error)
	AppendWatchHistory(ctx context.Context, id, videoID string) error
}

// ProfileUpdate carries the mutable account fields. Nil means "leave as is".
type ProfileUpdate struct {
	FullName   *string
	Email      *string
	Avatar     *string
	CoverImage *string
}
