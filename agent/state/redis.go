package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in a plain Redis server.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects using a redis:// URL.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return &RedisStore{client: redis.NewClient(opts), ttl: ttl}, nil
}

func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	key, err := sessionKey(sessionID)
	if err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeSession(raw)
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if err := prepareForSave(sess); err != nil {
		return err
	}
	key, err := sessionKey(sess.SessionID)
	if err != nil {
		return err
	}
	payload, err := encodeSession(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(sessionID)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
