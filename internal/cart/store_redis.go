package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blissbyuddy/storefront-client/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisStore keeps the guest cart under a namespaced redis key, for kiosk or
// shared-device deployments where the client has no stable filesystem.
type RedisStore struct {
	kv  redisKV
	key string
}

func NewRedisStore(kv redisKV, key string) (*RedisStore, error) {
	if kv == nil {
		return nil, errors.New("redis client required")
	}
	if key == "" {
		return nil, errors.New("guest cart key required")
	}
	return &RedisStore{kv: kv, key: key}, nil
}

func (r *RedisStore) Load(ctx context.Context) ([]Line, error) {
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading guest cart: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decoding guest cart: %w", err)
	}
	return lines, nil
}

func (r *RedisStore) Save(ctx context.Context, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding guest cart: %w", err)
	}
	return r.kv.Set(ctx, r.key, string(data), 0)
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.kv.Del(ctx, r.key)
}
