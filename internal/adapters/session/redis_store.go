package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

// RedisClient is the part of *redis.Client the store needs.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const keyPrefix = "session:"

type RedisStore struct {
	client  RedisClient
	breaker *gobreaker.CircuitBreaker
}

var _ ports.SessionStore = (*RedisStore)(nil)

// NewRedisStore creates the store; breaker may be nil.
func NewRedisStore(client RedisClient, breaker *gobreaker.CircuitBreaker) *RedisStore {
	return &RedisStore{client: client, breaker: breaker}
}

func (s *RedisStore) Save(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	if sess.ID == "" {
		return fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	payload, err := json.Marshal(record{
		PrincipalID: sess.PrincipalID,
		Kind:        sess.Kind,
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
		IssuedAt:    sess.IssuedAt,
	})
	if err != nil {
		return err
	}

	_, err = s.execute(func() (any, error) {
		return nil, s.client.Set(ctx, keyPrefix+sess.ID, string(payload), ttl).Err()
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	out, err := s.execute(func() (any, error) {
		val, err := s.client.Get(ctx, keyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			// A missing key is an answer, not a Redis failure.
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return nil, err
	}
	val, _ := out.(string)
	if val == "" {
		return nil, domain.ErrNotFound
	}

	var rec record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &domain.Session{
		ID:          id,
		PrincipalID: rec.PrincipalID,
		Kind:        rec.Kind,
		DisplayName: rec.DisplayName,
		Role:        rec.Role,
		IssuedAt:    rec.IssuedAt,
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.client.Del(ctx, keyPrefix+id).Err()
	})
	return err
}

func (s *RedisStore) execute(fn func() (any, error)) (any, error) {
	if s.breaker == nil {
		return fn()
	}
	out, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("session store unavailable: %w", err)
	}
	return out, err
}

// record is the stored form; Session hides its id from JSON.
type record struct {
	PrincipalID int64                `json:"principal_id"`
	Kind        domain.PrincipalKind `json:"kind"`
	DisplayName string               `json:"display_name"`
	Role        domain.Role          `json:"role"`
	IssuedAt    time.Time            `json:"issued_at"`
}
