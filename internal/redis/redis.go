// Package redis caches text-chat answers keyed by the effective prompt.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "medlens:response:"

var ErrCacheMiss = errors.New("cache miss")

type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func New(redisURL string, ttl time.Duration) (*Service, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, ttl), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Service {
	return &Service{client: client, ttl: ttl}
}

func (s *Service) Close() error {
	return s.client.Close()
}

func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ResponseKey scopes a prompt to the model that answered it.
func ResponseKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (s *Service) GetResponse(ctx context.Context, model, prompt string) (string, error) {
	text, err := s.client.Get(ctx, ResponseKey(model, prompt)).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cached response: %w", err)
	}
	return text, nil
}

func (s *Service) StoreResponse(ctx context.Context, model, prompt, text string) error {
	return s.client.Set(ctx, ResponseKey(model, prompt), text, s.ttl).Err()
}
