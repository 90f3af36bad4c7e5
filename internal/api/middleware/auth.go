package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/api/metrics"
	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

// UserContextKey is the echo context key the authenticated user is stored
// under. Handlers read it through handler.CurrentUser.
const UserContextKey = "auth_user"

const accessTokenCookie = "accessToken"

// Auth verifies the access token on every request and injects the resolved
// user into the context. The token is taken from the accessToken cookie
// first, falling back to a Bearer Authorization header. Verification runs
// independently per request; nothing is cached between requests.
func Auth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractAccessToken(c)
			if token == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// OptionalAuth resolves the user when a valid token is presented but lets
// anonymous requests through. Used on read paths that personalize output
// (watch history, like state) without requiring login.
func OptionalAuth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractAccessToken(c)
			if token == "" {
				return next(c)
			}
			if user, err := auth.Authenticate(c.Request().Context(), token); err == nil {
				c.Set(UserContextKey, user)
			}
			return next(c)
		}
	}
}

// extractAccessToken applies the transport precedence: same-origin cookie
// first, Authorization header as fallback.
func extractAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenMalformed):
		return "invalid"
	default:
		return "unknown_subject"
	}
}
