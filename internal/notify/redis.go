package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// hashClient is the subset of the redis client used by RedisStore.
type hashClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.StringStringMapCmd
	Close() error
}

// RedisStore keeps pending requests in a single Redis hash keyed by
// identifier, so overwrite and cancel are single-field operations.
type RedisStore struct {
	client hashClient
	key    string
}

// NewRedisStore connects to redisURL and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, key: key}, nil
}

func (r *RedisStore) Cancel(ctx context.Context, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, identifiers...).Err(); err != nil {
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}
	return nil
}

func (r *RedisStore) Add(ctx context.Context, req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := r.client.HSet(ctx, r.key, req.Identifier, data).Err(); err != nil {
		return fmt.Errorf("failed to add notification %s: %w", req.Identifier, err)
	}
	return nil
}

func (r *RedisStore) Pending(ctx context.Context) ([]Request, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	reqs := make([]Request, 0, len(fields))
	for id, raw := range fields {
		var req Request
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("failed to decode notification %s: %w", id, err)
		}
		reqs = append(reqs, req)
	}
	SortRequests(reqs)
	return reqs, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
