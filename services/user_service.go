package services

import (
	"context"
	"errors"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/models"
	"gin-marketplace/repositories"

	"github.com/google/uuid"
)

type Profile struct {
	User  *models.User  `json:"user"`
	Items []models.Item `json:"items"`
}

type IUserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type UserService struct {
	users repositories.IUserRepository
	items repositories.IItemRepository
}

func NewUserService(users repositories.IUserRepository, items repositories.IItemRepository) IUserService {
	return &UserService{users: users, items: items}
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFound(constants.ErrUserNotFound)
		}
		return nil, err
	}

	items, err := s.items.FindBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Items: items}, nil
}
