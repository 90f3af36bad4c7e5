package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/api/middleware"
	"github.com/tubeworks/media-api/internal/core/domain"
)

// CurrentUser extracts the authenticated user injected by the Auth
// middleware. Its presence proves the middleware ran; a handler reached
// without it is a routing mistake, answered with 401 rather than a panic.
func CurrentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil || user.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// OptionalUser returns the authenticated user if one was resolved, or nil
// for anonymous requests. Used behind OptionalAuth.
func OptionalUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	return user
}
