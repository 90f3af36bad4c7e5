package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tubeworks/media-api/internal/api/middleware"
	"github.com/tubeworks/media-api/internal/core/domain"
	"github.com/tubeworks/media-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error)
	rotateFn func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	logoutFn func(ctx context.Context, userID string) error
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "u1", Username: input.Username, Email: input.Email, FullName: input.FullName}, nil
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (*domain.User, *domain.TokenPair, error) {
	return s.loginFn(ctx, identifier, password)
}

func (s *stubAuthService) Rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return s.rotateFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, userID)
	}
	return nil
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error {
	return nil
}

func (s *stubAuthService) UpdateProfile(_ context.Context, userID string, _ ports.ProfileUpdate) (*domain.User, error) {
	return &domain.User{ID: userID}, nil
}

func testTokenPair() *domain.TokenPair {
	now := time.Now()
	return &domain.TokenPair{
		AccessToken:      "access-1",
		RefreshToken:     "refresh-1",
		AccessExpiresAt:  now.Add(time.Hour),
		RefreshExpiresAt: now.Add(10 * time.Hour),
	}
}

func newHandlerContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newHandlerContext(t, http.MethodPost, "/api/users/register",
		`{"fullname":"Alice A","email":"alice@example.com","username":"alice","password":"secret-pass"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("unexpected username %q", got.Username)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	// Password below the minimum length.
	c, _ := newHandlerContext(t, http.MethodPost, "/api/users/register",
		`{"fullname":"Alice A","email":"alice@example.com","username":"alice","password":"short"}`)

	err := h.Register(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookies(t *testing.T) {
	var gotIdentifier string
	svc := &stubAuthService{
		loginFn: func(_ context.Context, identifier, _ string) (*domain.User, *domain.TokenPair, error) {
			gotIdentifier = identifier
			return &domain.User{ID: "u1", Username: "alice"}, testTokenPair(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newHandlerContext(t, http.MethodPost, "/api/users/login",
		`{"username":"alice","password":"secret-pass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotIdentifier != "alice" {
		t.Fatalf("identifier = %q, want alice", gotIdentifier)
	}

	for _, name := range []string{"accessToken", "refreshToken"} {
		cookie := findCookie(t, rec, name)
		if cookie == nil {
			t.Fatalf("%s cookie not set", name)
		}
		if !cookie.HttpOnly || !cookie.Secure {
			t.Fatalf("%s cookie must be HttpOnly and Secure: %+v", name, cookie)
		}
		if cookie.Value == "" {
			t.Fatalf("%s cookie is empty", name)
		}
	}

	var got sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.AccessToken != "access-1" || got.RefreshToken != "refresh-1" {
		t.Fatalf("tokens missing from body: %+v", got)
	}
	if got.User == nil || got.User.Username != "alice" {
		t.Fatalf("user missing from body: %+v", got.User)
	}
}

func TestAuthHandler_Login_EmailIdentifier(t *testing.T) {
	var gotIdentifier string
	svc := &stubAuthService{
		loginFn: func(_ context.Context, identifier, _ string) (*domain.User, *domain.TokenPair, error) {
			gotIdentifier = identifier
			return &domain.User{ID: "u1"}, testTokenPair(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, _ := newHandlerContext(t, http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"secret-pass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotIdentifier != "alice@example.com" {
		t.Fatalf("identifier = %q, want the email", gotIdentifier)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.User, *domain.TokenPair, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newHandlerContext(t, http.MethodPost, "/api/users/login",
		`{"username":"alice","password":"wrong-pass"}`)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if cookie := findCookie(t, rec, "accessToken"); cookie != nil {
		t.Fatalf("cookie set on failed login")
	}
}

func TestAuthHandler_Refresh_FromCookie(t *testing.T) {
	var gotToken string
	svc := &stubAuthService{
		rotateFn: func(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
			gotToken = refreshToken
			return testTokenPair(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newHandlerContext(t, http.MethodPost, "/api/users/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: "stored-token"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if gotToken != "stored-token" {
		t.Fatalf("rotated %q, want cookie token", gotToken)
	}
	if cookie := findCookie(t, rec, "refreshToken"); cookie == nil || cookie.Value != "refresh-1" {
		t.Fatalf("refreshToken cookie not replaced: %+v", cookie)
	}
}

func TestAuthHandler_Refresh_FromBody(t *testing.T) {
	var gotToken string
	svc := &stubAuthService{
		rotateFn: func(_ context.Context, refreshToken string) (*domain.TokenPair, error) {
			gotToken = refreshToken
			return testTokenPair(), nil
		},
	}
	h := NewAuthHandler(svc)

	c, _ := newHandlerContext(t, http.MethodPost, "/api/users/refresh",
		`{"refreshToken":"body-token"}`)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if gotToken != "body-token" {
		t.Fatalf("rotated %q, want body token", gotToken)
	}
}

func TestAuthHandler_Refresh_Missing(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newHandlerContext(t, http.MethodPost, "/api/users/refresh", "")

	err := h.Refresh(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Refresh_Rejected(t *testing.T) {
	svc := &stubAuthService{
		rotateFn: func(context.Context, string) (*domain.TokenPair, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newHandlerContext(t, http.MethodPost, "/api/users/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: "already-used"})

	if err := h.Refresh(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if cookie := findCookie(t, rec, "accessToken"); cookie != nil {
		t.Fatalf("cookie set on rejected rotation")
	}
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	var loggedOut string
	svc := &stubAuthService{
		logoutFn: func(_ context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	h := NewAuthHandler(svc)

	c, rec := newHandlerContext(t, http.MethodPost, "/api/users/logout", "")
	c.Set(middleware.UserContextKey, &domain.User{ID: "u1"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if loggedOut != "u1" {
		t.Fatalf("logged out %q, want u1", loggedOut)
	}

	for _, name := range []string{"accessToken", "refreshToken"} {
		cookie := findCookie(t, rec, name)
		if cookie == nil {
			t.Fatalf("%s cookie not cleared", name)
		}
		if cookie.Value != "" || cookie.MaxAge != -1 {
			t.Fatalf("%s cookie not expired: %+v", name, cookie)
		}
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newHandlerContext(t, http.MethodPost, "/api/users/logout", "")

	err := h.Logout(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
