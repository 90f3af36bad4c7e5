package ports

import (
	"context"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// RegisterInput carries everything needed to create an account. Media
// references are URLs produced by the upload collaborator, not file payloads.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     string
	CoverImage string
}

// AuthService covers the session lifecycle: issuance on register/login,
// rotation, revocation on logout, and the account mutations that require a
// verified identity.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error)

	// Rotate exchanges a refresh token for a new pair. A token that has
	// already been rotated away is rejected even if not yet expired.
	Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// Logout clears the stored refresh token so no further rotation is
	// possible with any previously issued refresh token.
	Logout(ctx context.Context, userID string) error

	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, fields ProfileUpdate) (*domain.User, error)
}

// Authenticator resolves a presented access token into a sanitized identity.
// It is what the request middleware depends on; it must hold no per-request
// state so every request is verified independently.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}
