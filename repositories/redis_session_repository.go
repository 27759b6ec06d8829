package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gin-marketplace/models"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository stores each session as a JSON value that expires with the session.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) ISessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) key(sessionID string) string {
	return "session:" + sessionID
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("create session: already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Find(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired has nothing to do: redis expires the keys itself.
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context) error {
	return nil
}
