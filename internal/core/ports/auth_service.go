package ports

import (
	"context"

	"github.com/wastewise/wastewise/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService issues and verifies bearer tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string, role domain.Role) (string, *domain.User, error)
	// Authenticate resolves a bearer token to the user it was issued for.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// ProfileService manages the authenticated user's own account.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile returns a refreshed token when the change invalidates the
	// old one (the token subject is the email), otherwise an empty string.
	UpdateProfile(ctx context.Context, actor *domain.User, fields ProfileFields) (*domain.User, string, error)
	UpdatePassword(ctx context.Context, actor *domain.User, current, next string) error
}
