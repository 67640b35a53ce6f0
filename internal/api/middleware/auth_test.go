package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wastewise/wastewise/internal/core/domain"
)

type stubAuthenticator struct {
	users map[string]*domain.User
	err   error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

func runAuth(t *testing.T, authn Authenticator, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, Auth(authn)(next)(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	alice := &domain.User{ID: "u1", Email: "alice@example.com", Role: domain.RoleCitizen}
	authn := &stubAuthenticator{users: map[string]*domain.User{"tok": alice}}

	called := false
	rec, err := runAuth(t, authn, "Bearer tok", func(c echo.Context) error {
		called = true
		u, ok := CurrentUser(c)
		if !ok || u.ID != "u1" {
			t.Fatalf("user not set: %+v", u)
		}
		if c.Get(ContextKeyRole) != "user" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, err := runAuth(t, &stubAuthenticator{}, "", func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	_, err := runAuth(t, &stubAuthenticator{}, "Token abc", func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthMiddleware_PropagatesTokenErrors(t *testing.T) {
	_, err := runAuth(t, &stubAuthenticator{err: domain.ErrTokenExpired}, "Bearer old", func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := CurrentUser(c); ok {
		t.Fatalf("expected no user on a fresh context")
	}
}
