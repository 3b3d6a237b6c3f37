package sources

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket refilled one token per refillRate.
type RateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.TryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.pollInterval()):
		}
	}
}

func (r *RateLimiter) pollInterval() time.Duration {
	if r.refillRate < 100*time.Millisecond {
		return r.refillRate
	}
	return 100 * time.Millisecond
}

func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill)

	if elapsed >= r.refillRate {
		r.tokens += int(elapsed / r.refillRate)
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now
	}
}

// TryAcquire takes a token if one is available.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

// Per-platform budgets, as a burst size refilled over one minute.
// Modrinth documents 300 requests per minute.
func newModrinthLimiter() *RateLimiter   { return NewRateLimiter(300, time.Minute/300) }
func newCurseForgeLimiter() *RateLimiter { return NewRateLimiter(100, time.Minute/100) }
func newGitHubLimiter() *RateLimiter     { return NewRateLimiter(60, time.Minute/60) }
