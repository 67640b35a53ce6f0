package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	IssueToken(user *domain.User) (string, error)
}

type ProfileService struct {
	repo   ports.UserRepository
	tokens TokenIssuer
	log    zerolog.Logger
}

func NewProfileService(repo ports.UserRepository, tokens TokenIssuer, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, tokens: tokens, log: log}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, actor *domain.User, fields ports.ProfileFields) (*domain.User, string, error) {
	var update ports.ProfileFields
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		name := strings.TrimSpace(*fields.Name)
		update.Name = &name
	}

	emailChanged := false
	if fields.Email != nil && strings.TrimSpace(*fields.Email) != "" {
		email := strings.TrimSpace(*fields.Email)
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != actor.ID:
			return nil, "", domain.ErrEmailInUse
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, "", err
		}
		update.Email = &email
		emailChanged = email != actor.Email
	}

	if update.Name == nil && update.Email == nil {
		return nil, "", domain.ErrNoFieldsToUpdate
	}

	updated, err := s.repo.UpdateProfile(ctx, actor.ID, update)
	if err != nil {
		return nil, "", err
	}

	var token string
	if emailChanged {
		if token, err = s.tokens.IssueToken(updated); err != nil {
			return nil, "", err
		}
	}

	s.log.Info().Str("user_id", actor.ID).Bool("email_changed", emailChanged).Msg("profile updated")
	return updated, token, nil
}

func (s *ProfileService) UpdatePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", domain.ErrValidation)
	}

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, actor.ID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", actor.ID).Msg("password updated")
	return nil
}
