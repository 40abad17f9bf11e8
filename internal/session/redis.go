package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Create(ctx context.Context, userID uint) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, userID, s.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("s.client.Set -> %w", err)
	}

	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, ErrNotFound
	}

	pipe := s.client.Pipeline()
	val := pipe.Get(ctx, keyPrefix+id)
	ttl := pipe.TTL(ctx, keyPrefix+id)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("pipe.Exec -> %w", err)
	}

	userID, err := strconv.ParseUint(val.Val(), 10, 64)
	if err != nil {
		return Session{}, ErrNotFound
	}

	return Session{
		ID:        id,
		UserID:    uint(userID),
		ExpiresAt: time.Now().Add(ttl.Val()),
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("s.client.Del -> %w", err)
	}

	return nil
}
