package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces auth records in the shared cache. The full key for a
// session is "auth:<sessionId>".
const keyPrefix = "auth:"

// Default timeouts for Redis operations.
const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
)

// RedisStore implements Store against a shared Redis instance. The shared
// cache is required because the login completion page and the polling or
// tool-call reader may be served by different process instances.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to Redis using the given connection string and
// verifies reachability with a ping.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	opts.DialTimeout = DefaultDialTimeout
	opts.ReadTimeout = DefaultReadTimeout
	opts.WriteTimeout = DefaultWriteTimeout

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient creates a RedisStore with a pre-configured client.
// This is useful for testing with miniredis.
func NewRedisStoreWithClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

func recordKey(sessionID string) string {
	return keyPrefix + sessionID
}

// Put stores the JSON-encoded record under auth:<sessionId> with the given
// expiry, overwriting any previous record for the same session.
func (s *RedisStore) Put(ctx context.Context, sessionID string, record Record, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal auth record: %w", err)
	}

	if err := s.client.Set(ctx, recordKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store auth record: %w", err)
	}
	return nil
}

// Get returns the record for sessionID without deleting it.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (Record, error) {
	data, err := s.client.Get(ctx, recordKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to get auth record: %w", err)
	}
	return decodeRecord(data)
}

// Consume atomically returns and deletes the record for sessionID. GETDEL
// keeps the read-and-invalidate step a single round trip, so two concurrent
// consumers can never both observe the record.
func (s *RedisStore) Consume(ctx context.Context, sessionID string) (Record, error) {
	data, err := s.client.GetDel(ctx, recordKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to consume auth record: %w", err)
	}
	return decodeRecord(data)
}

// Delete removes the record for sessionID. Deleting an absent record is a
// no-op.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, recordKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete auth record: %w", err)
	}
	return nil
}

func decodeRecord(data []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal auth record: %w", err)
	}
	return record, nil
}

// Compile-time interface compliance check
var _ Store = (*RedisStore)(nil)
