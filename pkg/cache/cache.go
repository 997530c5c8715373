// Package cache is a thin JSON layer over Redis, used to memoize expensive
// dashboard and ranking aggregates. All helpers degrade to no-ops when Redis
// is not connected, so the app works without it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"chungtay/config"
)

var RDB *redis.Client

// Connect initialises the Redis client. Call once at startup.
func Connect() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
}

// Get unmarshals the cached value at key into dest. Returns false on miss,
// unmarshal failure, or when Redis is unavailable.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores value at key as JSON with the given TTL.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget removes a cached key.
func Forget(ctx context.Context, key string) {
	if RDB == nil {
		return
	}
	RDB.Del(ctx, key)
}
