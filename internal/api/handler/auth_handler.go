package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/api/metrics"
	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

const refreshTokenCookie = "refreshToken"
const accessTokenCookie = "accessToken"

// AuthHandler handles registration, login, logout, token refresh and the
// authenticated account mutations.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Avatar:     req.Avatar,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and issues a token pair, delivered both as
// HttpOnly cookies and in the response body.
//
// @Summary      Login with username or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, pair, err := h.authService.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	setTokenCookies(c, pair)

	return c.JSON(http.StatusOK, sessionResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh exchanges a refresh token for a new pair. The token is read from
// the refreshToken cookie, falling back to the request body for clients
// without cookie support. Each refresh token rotates exactly once.
//
// @Summary      Rotate the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token (cookie fallback)"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		token = cookie.Value
	} else {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	pair, err := h.authService.Rotate(c.Request().Context(), token)
	if err != nil {
		metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.TokenRotationsTotal.WithLabelValues("success").Inc()
	setTokenCookies(c, pair)

	return c.JSON(http.StatusOK, sessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout clears the stored refresh token and both cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	clearTokenCookies(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me returns the authenticated account.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile patches the mutable account fields.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/me [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.authService.UpdateProfile(c.Request().Context(), user.ID, ports.ProfileUpdate{
		FullName:   req.FullName,
		Email:      req.Email,
		Avatar:     req.Avatar,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// ChangePassword replaces the password after verifying the old one.
//
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/users/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// setTokenCookies delivers a pair as HttpOnly, Secure cookies. Expiry
// matches each token's own lifetime.
func setTokenCookies(c echo.Context, pair *domain.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearTokenCookies expires both cookies with the same attributes they were
// set with.
func clearTokenCookies(c echo.Context) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
