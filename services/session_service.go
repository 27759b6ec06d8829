package services

import (
	"context"
	"errors"
	"fmt"
	"gin-marketplace/models"
	"gin-marketplace/repositories"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session")

type ISessionService interface {
	// Start creates a session for userID and returns the token the client should carry.
	Start(ctx context.Context, userID uuid.UUID) (string, error)
	// Resolve returns the session a token names, or ErrInvalidSession.
	Resolve(ctx context.Context, token string) (*models.Session, error)
	End(ctx context.Context, token string) error
	Purge(ctx context.Context) error
}

type SessionService struct {
	repository repositories.ISessionRepository
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewSessionService(repository repositories.ISessionRepository, secret string, ttl time.Duration) ISessionService {
	return &SessionService{
		repository: repository,
		secret:     []byte(secret),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *SessionService) Start(ctx context.Context, userID uuid.UUID) (string, error) {
	now := s.now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repository.Create(ctx, &session); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        session.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionService) parse(token string, validateExpiry bool) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if !validateExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return "", ErrInvalidSession
	}
	return claims.ID, nil
}

func (s *SessionService) Resolve(ctx context.Context, token string) (*models.Session, error) {
	sessionID, err := s.parse(token, true)
	if err != nil {
		return nil, err
	}

	session, err := s.repository.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, ErrInvalidSession
	}
	return session, nil
}

// End destroys the session named by token. Expired tokens are still accepted so that their
// server side record is removed.
func (s *SessionService) End(ctx context.Context, token string) error {
	sessionID, err := s.parse(token, false)
	if err != nil {
		return err
	}
	return s.repository.Delete(ctx, sessionID)
}

func (s *SessionService) Purge(ctx context.Context) error {
	return s.repository.DeleteExpired(ctx)
}
