package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lshigami/feedback-survey/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TokenDenylist remembers revoked token ids until the token would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedPrefix = "revoked_token:"

type redisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) TokenDenylist {
	return &redisDenylist{client: client}
}

func (d *redisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

func (d *redisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.client.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// memoryDenylist serves single-instance deployments without redis, and tests.
type memoryDenylist struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

func NewMemoryDenylist() TokenDenylist {
	return &memoryDenylist{now: time.Now, revoked: map[string]time.Time{}}
}

func (d *memoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = d.now().Add(ttl)
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !d.now().Before(until) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// NewRedisClient returns nil when REDIS_ADDR is unset.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// NewTokenDenylist picks the redis-backed list when a client is configured.
func NewTokenDenylist(client *redis.Client) TokenDenylist {
	if client == nil {
		log.Warn().Msg("REDIS_ADDR is not set. Revoked tokens are kept in process memory only.")
		return NewMemoryDenylist()
	}
	return NewRedisDenylist(client)
}
