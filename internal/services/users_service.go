package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"goodsflow/internal/models"
	"goodsflow/internal/repositories"
)

// UserService exposes the picker directory. Accounts are provisioned out of
// band; this service only reads them.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	uow repositories.UnitOfWork
}

func NewUserService(uow repositories.UnitOfWork) UserService {
	return &userService{uow: uow}
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		user, err = r.Users.GetByID(ctx, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := s.uow.Do(ctx, func(r *repositories.Repos) error {
		var err error
		users, err = r.Users.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
