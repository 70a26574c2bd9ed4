package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/example/blog/internal/config"
)

// ErrNotFound means the token is unknown or its session expired.
var ErrNotFound = errors.New("session not found")

// Session is what a login cookie resolves to.
type Session struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(cfg *config.Config) *RedisStore {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisStoreWithClient(c, cfg.SessionTTL())
}

func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *RedisStore) Close() error { return s.client.Close() }

func key(token string) string { return "session:" + token }

// Create stores a new session and returns its opaque token.
func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()
	if err := s.setJSON(ctx, key(token), sess); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	var sess Session
	if token == "" {
		return sess, ErrNotFound
	}
	found, err := s.getJSON(ctx, key(token), &sess)
	if err != nil {
		return sess, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return sess, ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, key(token)).Err()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

func (s *RedisStore) setJSON(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}
