package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding the kiosk settings.
const DefaultRedisKey = "kiosk:settings"

// RedisStore keeps settings in a Redis hash so several kiosks of one camp can
// share them.
type RedisStore struct {
	Rdb *redis.Client
	Key string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return &RedisStore{Rdb: rdb, Key: DefaultRedisKey}, nil
}

func (s *RedisStore) Load(ctx context.Context) (map[string]string, error) {
	return s.Rdb.HGetAll(ctx, s.Key).Result()
}

func (s *RedisStore) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return s.Rdb.HSet(ctx, s.Key, values).Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.Rdb.Close()
}
