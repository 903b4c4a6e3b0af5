package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	consumeRatePrefix = "binding:consume:rate:"

	defaultMaxAttempts = 5
	defaultLockoutTTL  = 15 * time.Minute
)

// ErrConsumeRateLimited is returned when an external identity has accumulated
// too many failed code-consume attempts
var ErrConsumeRateLimited = errors.New("too many failed binding attempts, please try again later")

// ConsumeLimiter provides Redis-based brute-force protection for binding code
// consumption. Failed attempts are counted per external identity; after
// maxAttempts the identity is locked out until the counter expires.
type ConsumeLimiter struct {
	client      *redis.Client
	maxAttempts int
	lockoutTTL  time.Duration
}

// NewConsumeLimiter creates a new ConsumeLimiter instance. Non-positive
// maxAttempts or lockoutTTL fall back to the defaults.
func NewConsumeLimiter(client *redis.Client, maxAttempts int, lockoutTTL time.Duration) *ConsumeLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockoutTTL <= 0 {
		lockoutTTL = defaultLockoutTTL
	}
	return &ConsumeLimiter{client: client, maxAttempts: maxAttempts, lockoutTTL: lockoutTTL}
}

// Check returns ErrConsumeRateLimited when the identity is locked out.
func (l *ConsumeLimiter) Check(ctx context.Context, externalID string) error {
	attempts, err := l.client.Get(ctx, consumeRatePrefix+externalID).Int()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if attempts >= l.maxAttempts {
		return ErrConsumeRateLimited
	}
	return nil
}

// RecordFailure increments the failed attempt counter and refreshes its TTL.
// Best-effort; a Redis error never blocks the binding flow.
func (l *ConsumeLimiter) RecordFailure(ctx context.Context, externalID string) {
	rateKey := consumeRatePrefix + externalID
	pipe := l.client.Pipeline()
	pipe.Incr(ctx, rateKey)
	pipe.Expire(ctx, rateKey, l.lockoutTTL)
	_, _ = pipe.Exec(ctx)
}

// Clear resets the counter after a successful consume.
func (l *ConsumeLimiter) Clear(ctx context.Context, externalID string) error {
	return l.client.Del(ctx, consumeRatePrefix+externalID).Err()
}
