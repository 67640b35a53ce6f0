package ports

import (
	"context"

	"github.com/wastewise/wastewise/internal/core/domain"
)

// ProfileFields carries the optional fields of a profile update. Nil means
// leave the stored value untouched.
type ProfileFields struct {
	Name  *string
	Email *string
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, fields ProfileFields) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
