package handler

import (
	"time"

	"github.com/tubeworks/media-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type registerRequest struct {
	FullName   string `json:"fullname"    validate:"required"`
	Email      string `json:"email"       validate:"required,email"`
	Username   string `json:"username"    validate:"required,min=3,max=30"`
	Password   string `json:"password"    validate:"required,min=8"`
	Avatar     string `json:"avatar"      validate:"omitempty,url"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email"    validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	FullName   *string `json:"fullname"`
	Email      *string `json:"email"       validate:"omitempty,email"`
	Avatar     *string `json:"avatar"      validate:"omitempty,url"`
	CoverImage *string `json:"cover_image" validate:"omitempty,url"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// --- Response types ---

// userResponse is the transport view of an account. It never carries the
// password hash or refresh token; the service already strips them, this type
// makes the JSON contract explicit.
type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullname"`
	Avatar     string    `json:"avatar,omitempty"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type sessionResponse struct {
	User         *userResponse `json:"user,omitempty"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
	}
}
