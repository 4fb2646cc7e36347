package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey holds the /analyze token count
const DefaultKey = "matchup:ratelimit:analyze"

// takeToken initializes the bucket, takes a token and restores it on denial
// in one step. A key left without a TTL gets the period re-applied so the
// bucket always refills.
var takeToken = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2], 'NX')
local tokens = redis.call('DECR', KEYS[1])
if redis.call('PTTL', KEYS[1]) == -1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
if tokens < 0 then
	redis.call('INCR', KEYS[1])
	return 0
end
return 1
`)

// TokenBucket limits narrative generations using a Redis counter that
// refills to maxTokens every refillPeriod
type TokenBucket struct {
	client       *redis.Client
	key          string
	maxTokens    int
	refillPeriod time.Duration
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(client *redis.Client, maxTokens int, refillPeriod time.Duration) *TokenBucket {
	if refillPeriod <= 0 {
		refillPeriod = time.Minute
	}
	return &TokenBucket{
		client:       client,
		key:          DefaultKey,
		maxTokens:    maxTokens,
		refillPeriod: refillPeriod,
	}
}

// Allow returns true if a token was available and consumed
func (tb *TokenBucket) Allow(ctx context.Context) (bool, error) {
	allowed, err := takeToken.Run(ctx, tb.client, []string{tb.key}, tb.maxTokens, tb.refillPeriod.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to take token: %w", err)
	}
	return allowed == 1, nil
}

// GetTokens returns the current token count (for monitoring)
func (tb *TokenBucket) GetTokens(ctx context.Context) (int, error) {
	tokens, err := tb.client.Get(ctx, tb.key).Int()
	if err != nil {
		if err == redis.Nil {
			return tb.maxTokens, nil
		}
		return 0, fmt.Errorf("failed to get tokens: %w", err)
	}

	return tokens, nil
}

// Reset refills the bucket immediately
func (tb *TokenBucket) Reset(ctx context.Context) error {
	return tb.client.Del(ctx, tb.key).Err()
}
