package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

// AuthService implements the session lifecycle: registration, credential
// verification, token pair issuance, access-token authentication, refresh
// rotation and revocation. Access tokens are trusted until expiry; the
// stored refresh token is the only revocation point, so issuing a new pair
// silently invalidates every earlier refresh token for that user.
type AuthService struct {
	users   ports.UserRepository
	access  *TokenCodec
	refresh *TokenCodec
	hasher  PasswordHasher
	logger  zerolog.Logger
}

func NewAuthService(users ports.UserRepository, access, refresh *TokenCodec, hasher PasswordHasher, logger zerolog.Logger) *AuthService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &AuthService{
		users:   users,
		access:  access,
		refresh: refresh,
		hasher:  hasher,
		logger:  logger,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.FullName == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     domain.NormalizeUsername(input.Username),
		Email:        input.Email,
		FullName:     input.FullName,
		Avatar:       input.Avatar,
		CoverImage:   input.CoverImage,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	sanitized := created.Sanitize()
	return &sanitized, nil
}

// Login verifies credentials and issues a token pair. Unknown identifier and
// wrong password are distinguished here for logging only; both surface as
// ErrInvalidCredentials so login responses do not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error) {
	if identifier == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug().Str("identifier", identifier).Msg("login: unknown identifier")
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if s.hasher.Compare(user.PasswordHash, password) != nil {
		s.logger.Debug().Str("user_id", user.ID).Msg("login: password mismatch")
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	sanitized := user.Sanitize()
	return &sanitized, pair, nil
}

// issuePair signs a fresh access/refresh pair and records the refresh token
// as the user's sole current one, overwriting any prior value.
func (s *AuthService) issuePair(ctx context.Context, userID string) (*domain.TokenPair, error) {
	accessToken, accessExp, err := s.access.Sign(userID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, refreshExp, err := s.refresh.Sign(userID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Authenticate resolves a presented access token into a sanitized user. Any
// verification failure, and a subject that no longer resolves, yield
// ErrUnauthorized. No state is kept between calls.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.access.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

// Rotate exchanges a refresh token for a new pair. The stored token is
// replaced with a compare-and-swap keyed on the presented value, after all
// verification, so a token rotates successfully at most once even when two
// rotations race, and a failed rotation never mutates state.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if user.RefreshToken != refreshToken {
		// Valid signature but not the current token: either rotated away
		// already (replay) or superseded by a newer login.
		s.logger.Warn().Str("user_id", user.ID).Msg("refresh token reuse rejected")
		return nil, domain.ErrUnauthorized
	}

	accessToken, accessExp, err := s.access.Sign(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	newRefresh, refreshExp, err := s.refresh.Sign(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.ReplaceRefreshToken(ctx, user.ID, refreshToken, newRefresh); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// Lost the race to a concurrent rotation of the same token.
			s.logger.Warn().Str("user_id", user.ID).Msg("concurrent refresh rotation rejected")
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("replace refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     newRefresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Logout clears the stored refresh token. Outstanding access tokens stay
// valid until they expire, which is why their TTL is kept short.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if s.hasher.Compare(user.PasswordHash, oldPassword) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, fields ports.ProfileUpdate) (*domain.User, error) {
	updated, err := s.users.UpdateProfile(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	sanitized := updated.Sanitize()
	return &sanitized, nil
}
