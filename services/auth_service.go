package services

import (
	"context"
	"errors"
	"gin-marketplace/apperrors"
	"gin-marketplace/constants"
	"gin-marketplace/dto"
	"gin-marketplace/models"
	"gin-marketplace/repositories"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Signup(ctx context.Context, input dto.SignupFields) error
	Login(ctx context.Context, email string, password string) (string, error)
	GetSessionFromToken(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

type AuthService struct {
	repository repositories.IUserRepository
	sessions   ISessionService
}

func NewAuthService(repository repositories.IUserRepository, sessions ISessionService) IAuthService {
	return &AuthService{
		repository: repository,
		sessions:   sessions,
	}
}

// NormalizeEmail trims and lowercases an address so that lookups and the unique index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, input dto.SignupFields) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     NormalizeEmail(input.Email),
		Password:  string(hashedPassword),
	}
	if err := s.repository.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return apperrors.Conflict(constants.ErrEmailInUse, err)
		}
		return err
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (string, error) {
	foundUser, err := s.repository.FindUser(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.Unauthorized(constants.ErrIncorrectEmail)
		}
		return "", err
	}

	err = bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", apperrors.Unauthorized(constants.ErrIncorrectPass)
		}
		return "", err
	}

	return s.sessions.Start(ctx, foundUser.ID)
}

func (s *AuthService) GetSessionFromToken(ctx context.Context, token string) (*models.Session, error) {
	return s.sessions.Resolve(ctx, token)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.End(ctx, token)
}
