package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skovert/folio/pkg/errors"
)

// RedisStore is a Redis-backed session store for multi-instance deployments.
// Expiry is delegated to Redis key TTLs, so Cleanup is a no-op.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures the Redis session backend.
type RedisConfig struct {
	// Addr is the Redis address ("localhost:6379").
	Addr string

	// Password is optional.
	Password string

	// DB selects the Redis logical database.
	DB int

	// Prefix namespaces session keys. Defaults to "session:".
	Prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "session:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

// Get retrieves a session by ID.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read session")
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse session")
	}
	if sess.IsExpired() {
		// The Redis TTL normally evicts this first; clock skew can leave a stale entry.
		_ = s.client.Del(ctx, s.prefix+sessionID).Err()
		return nil, errors.New(errors.ErrCodeSessionExpired, "session expired")
	}
	return &sess, nil
}

// Set stores a session with a TTL matching its expiry.
func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode session")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New(errors.ErrCodeSessionExpired, "session already expired")
	}
	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "write session")
	}
	return nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete session")
	}
	return nil
}

// Cleanup is a no-op; Redis evicts expired keys itself.
func (s *RedisStore) Cleanup(ctx context.Context) error {
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
