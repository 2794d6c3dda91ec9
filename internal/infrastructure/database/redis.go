package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds short-lived coordination state, such as the password
// reset throttle. Nothing is dialed until the first command.
type RedisClient struct{ *redis.Client }

func NewRedis(addr, password string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})}
}

// Ping reports whether the server answers within timeout
func (c *RedisClient) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Client.Ping(ctx).Err()
}
