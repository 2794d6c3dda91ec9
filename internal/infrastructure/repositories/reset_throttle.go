package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/allospace/domain"
)

// ResetThrottleImpl implements domain.ResetThrottle using Redis.
// One key per account lives for the resend window.
type ResetThrottleImpl struct {
	client *redis.Client
	prefix string
	window time.Duration
}

// NewResetThrottle creates a throttle allowing one reset request per window
func NewResetThrottle(client *redis.Client, window time.Duration) domain.ResetThrottle {
	return &ResetThrottleImpl{
		client: client,
		prefix: "pwreset:throttle:",
		window: window,
	}
}

// Acquire implements domain.ResetThrottle
func (r *ResetThrottleImpl) Acquire(ctx context.Context, accountID string) (bool, time.Duration, error) {
	if r.window <= 0 {
		return true, 0, nil
	}
	key := r.prefix + accountID

	ok, err := r.client.SetNX(ctx, key, time.Now().Unix(), r.window).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		ttl = r.window
	}
	return false, ttl, nil
}

// Release implements domain.ResetThrottle
func (r *ResetThrottleImpl) Release(ctx context.Context, accountID string) error {
	return r.client.Del(ctx, r.prefix+accountID).Err()
}
