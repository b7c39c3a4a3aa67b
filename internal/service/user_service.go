package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/paykash-service/internal/domain"
	"github.com/spec-kit/paykash-service/internal/repository"
)

// UserService exposes directory reads. Both operations are passthroughs to
// the repository; the service exists so handlers never hold a store handle.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every user record.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Get returns the record for the given id, or nil when no record exists.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
