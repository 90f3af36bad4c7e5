package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/core/domain"
)

type stubAuthenticator struct {
	validToken string
	user       *domain.User
	err        error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token == s.validToken {
		clone := *s.user
		return &clone, nil
	}
	return nil, domain.ErrTokenInvalid
}

func newAuthTestContext(t *testing.T, setup func(*http.Request)) (echo.Context, *httptest.ResponseRecorder, *echo.Echo) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, e
}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, c echo.Context, e *echo.Echo) (called bool) {
	t.Helper()
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return called
}

func TestAuth_CookieToken(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1", Username: "alice"}}

	c, rec, e := newAuthTestContext(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "good"})
	})

	called := runAuth(t, Auth(auth), c, e)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	user, _ := c.Get(UserContextKey).(*domain.User)
	if user == nil || user.ID != "u1" {
		t.Fatalf("user not bound to context: %+v", user)
	}
}

func TestAuth_BearerFallback(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1"}}

	c, rec, e := newAuthTestContext(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer good")
	})

	if !runAuth(t, Auth(auth), c, e) {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_CookieTakesPriority(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1"}}

	// A present cookie is authoritative: a valid header cannot rescue a
	// bad cookie.
	c, rec, e := newAuthTestContext(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "stale"})
		req.Header.Set("Authorization", "Bearer good")
	})

	if runAuth(t, Auth(auth), c, e) {
		t.Fatalf("next called with invalid cookie token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1"}}

	c, rec, e := newAuthTestContext(t, nil)
	if runAuth(t, Auth(auth), c, e) {
		t.Fatalf("next called without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1"}}

	c, rec, e := newAuthTestContext(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Token good")
	})
	if runAuth(t, Auth(auth), c, e) {
		t.Fatalf("next called with a non-bearer scheme")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	auth := &stubAuthenticator{err: domain.ErrTokenExpired}

	c, rec, e := newAuthTestContext(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "expired"})
	})
	if runAuth(t, Auth(auth), c, e) {
		t.Fatalf("next called with expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1"}}

	c, rec, e := newAuthTestContext(t, nil)
	if !runAuth(t, OptionalAuth(auth), c, e) {
		t.Fatalf("anonymous request blocked")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if user, _ := c.Get(UserContextKey).(*domain.User); user != nil {
		t.Fatalf("unexpected user bound for anonymous request")
	}
}

func TestOptionalAuth_WithToken(t *testing.T) {
	auth := &stubAuthenticator{validToken: "good", user: &domain.User{ID: "u1"}}

	c, _, e := newAuthTestContext(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "good"})
	})
	if !runAuth(t, OptionalAuth(auth), c, e) {
		t.Fatalf("next not called")
	}
	user, _ := c.Get(UserContextKey).(*domain.User)
	if user == nil || user.ID != "u1" {
		t.Fatalf("user not bound: %+v", user)
	}
}
