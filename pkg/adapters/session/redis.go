package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

// KeyPrefixRevoked is the prefix for revoked session keys
const KeyPrefixRevoked = "bookmarks:revoked:"

// RevokedKey returns the Redis key for a revoked session id
func RevokedKey(sessionID string) string {
	return KeyPrefixRevoked + sessionID
}

// ConnectOptions configures the Redis client.
type ConnectOptions struct {
	Addr        string
	Password    string
	DB          int
	PingTimeout time.Duration
}

// Connect opens a Redis client and fails fast when the server is unreachable.
func Connect(ctx context.Context, opts ConnectOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// RedisStore keeps revoked session ids until the token would have expired anyway
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil // already expired, nothing to remember
	}
	if err := s.client.Set(ctx, RevokedKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, RevokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// NopStore is used when no Redis is configured: sign-out only clears the cookie.
type NopStore struct{}

func (NopStore) Revoke(context.Context, string, time.Time) error { return nil }
func (NopStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }

var (
	_ ports.RevocationStore = (*RedisStore)(nil)
	_ ports.RevocationStore = NopStore{}
)
