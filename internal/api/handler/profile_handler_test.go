package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/wastewise/wastewise/internal/api/middleware"
	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

type stubProfileService struct {
	updateFn   func(ctx context.Context, actor *domain.User, fields ports.ProfileFields) (*domain.User, string, error)
	passwordFn func(ctx context.Context, actor *domain.User, current, next string) error
}

func (s *stubProfileService) Profile(_ context.Context, userID string) (*domain.User, error) {
	if userID != testCitizen.ID {
		return nil, domain.ErrUserNotFound
	}
	return testCitizen, nil
}

func (s *stubProfileService) UpdateProfile(ctx context.Context, actor *domain.User, fields ports.ProfileFields) (*domain.User, string, error) {
	return s.updateFn(ctx, actor, fields)
}

func (s *stubProfileService) UpdatePassword(ctx context.Context, actor *domain.User, current, next string) error {
	return s.passwordFn(ctx, actor, current, next)
}

func TestProfileHandler_Get(t *testing.T) {
	h := NewProfileHandler(&stubProfileService{})

	c, rec := jsonContext(newEcho(), http.MethodGet, "/user/profile", "")
	c.Set(middleware.ContextKeyUser, testCitizen)
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.Email != "alice@example.com" || resp.Role != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProfileHandler_Update_ReturnsToken(t *testing.T) {
	stub := &stubProfileService{
		updateFn: func(_ context.Context, actor *domain.User, fields ports.ProfileFields) (*domain.User, string, error) {
			if fields.Name != nil {
				t.Fatalf("name should not be set")
			}
			if fields.Email == nil || *fields.Email != "new@example.com" {
				t.Fatalf("email not forwarded: %+v", fields.Email)
			}
			u := *actor
			u.Email = *fields.Email
			return &u, "fresh-token", nil
		},
	}
	h := NewProfileHandler(stub)

	c, rec := jsonContext(newEcho(), http.MethodPut, "/user/profile", `{"email":"new@example.com"}`)
	c.Set(middleware.ContextKeyUser, testCitizen)
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp updateProfileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "fresh-token" || resp.User.Email != "new@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.Message != "Profile updated successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestProfileHandler_Update_InvalidEmail(t *testing.T) {
	stub := &stubProfileService{
		updateFn: func(context.Context, *domain.User, ports.ProfileFields) (*domain.User, string, error) {
			t.Fatalf("service should not be called")
			return nil, "", nil
		},
	}
	h := NewProfileHandler(stub)

	c, _ := jsonContext(newEcho(), http.MethodPut, "/user/profile", `{"email":"nope"}`)
	c.Set(middleware.ContextKeyUser, testCitizen)

	var verr *ValidationError
	if err := h.Update(c); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProfileHandler_UpdatePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		stub := &stubProfileService{
			passwordFn: func(_ context.Context, _ *domain.User, current, next string) error {
				if current != "secret1" || next != "secret2" {
					t.Fatalf("unexpected passwords %q %q", current, next)
				}
				return nil
			},
		}
		h := NewProfileHandler(stub)

		c, rec := jsonContext(newEcho(), http.MethodPut, "/user/password",
			`{"current_password":"secret1","new_password":"secret2"}`)
		c.Set(middleware.ContextKeyUser, testCitizen)
		if err := h.UpdatePassword(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("short new password", func(t *testing.T) {
		h := NewProfileHandler(&stubProfileService{})
		c, _ := jsonContext(newEcho(), http.MethodPut, "/user/password",
			`{"current_password":"secret1","new_password":"123"}`)
		c.Set(middleware.ContextKeyUser, testCitizen)
		if err := h.UpdatePassword(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		stub := &stubProfileService{
			passwordFn: func(context.Context, *domain.User, string, string) error {
				return domain.ErrWrongPassword
			},
		}
		h := NewProfileHandler(stub)
		c, _ := jsonContext(newEcho(), http.MethodPut, "/user/password",
			`{"current_password":"bad","new_password":"secret2"}`)
		c.Set(middleware.ContextKeyUser, testCitizen)
		if err := h.UpdatePassword(c); !errors.Is(err, domain.ErrWrongPassword) {
			t.Fatalf("expected ErrWrongPassword, got %v", err)
		}
	})
}
