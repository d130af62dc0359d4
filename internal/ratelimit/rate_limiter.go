// rate_limiter.go - Rate limiting to prevent hitting provider API limits

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewRateLimiter creates a new rate limiter
// maxTokens: burst capacity
// refillRate: time between token refills
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled. A ctx error is
// returned unchanged so callers can distinguish a skipped call from a failure.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refill()
		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// refill adds tokens for the time elapsed; caller must hold the lock
func (rl *RateLimiter) refill() {
	now := time.Now()
	tokensToAdd := int(now.Sub(rl.lastRefillTime) / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefillTime = now
	}
}

// Global rate limiter shared by every provider call. An ensemble of 3 models
// fires 3 requests per recognition, so a burst of 12 with a 1s refill keeps a
// busy service under typical free-tier RPM limits while never delaying a
// single interactive request.
var globalRateLimiter = NewRateLimiter(12, time.Second)

// Wait applies the global rate limit
func Wait(ctx context.Context) error {
	return globalRateLimiter.Wait(ctx)
}
