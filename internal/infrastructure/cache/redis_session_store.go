package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adisyon/backend/internal/application/chat"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements chat.SessionStore using Redis. Suitable for
// distributed deployments where any instance may serve the next turn of a
// conversation. Expiry is delegated to the Redis TTL.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSessionStore creates a new Redis-based session store
func NewRedisSessionStore(cfg RedisConfig, ttl time.Duration) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSessionStore{
		client:    client,
		keyPrefix: "chat:session:",
		ttl:       ttl,
	}, nil
}

// NewRedisSessionStoreWithClient creates a store with an existing Redis
// client, useful for testing or sharing a client across components.
func NewRedisSessionStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = "chat:session:"
	}
	return &RedisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the conversation state, or (nil, nil) when absent or expired
func (s *RedisSessionStore) Get(ctx context.Context, conversationID string) (*chat.SessionState, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+conversationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var state chat.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &state, nil
}

// Put stores the conversation state, refreshing the TTL
func (s *RedisSessionStore) Put(ctx context.Context, conversationID string, state *chat.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+conversationID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes the conversation state
func (s *RedisSessionStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+conversationID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Ensure RedisSessionStore implements chat.SessionStore
var _ chat.SessionStore = (*RedisSessionStore)(nil)
