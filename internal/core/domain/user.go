package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// User models a registered account. PasswordHash and RefreshToken exist only
// for the auth core; Sanitize strips them before the user crosses into
// request handling.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullname"`
	Avatar       string    `json:"avatar,omitempty"`
	CoverImage   string    `json:"cover_image,omitempty"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	WatchHistory []string  `json:"watch_history,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitize returns a copy safe to expose outside the auth core: no password
// hash, no refresh token.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

// NormalizeUsername is the canonical form used for uniqueness and lookups.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// RequireOwner gates every mutation of an owned resource: the authenticated
// actor must be the recorded owner. Empty IDs never match.
func RequireOwner(actorID, ownerID string) error {
	if actorID == "" || actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
