// Package security provides rate limiting for the login and mutation
// endpoints.
package security

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket per client identifier (IP address).
// Safe for concurrent use.
type RateLimiter struct {
	limiters map[string]*bucketState
	mu       sync.Mutex

	maxTokens  int           // bucket capacity
	refillRate time.Duration // time between token refills

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

type bucketState struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing maxTokens requests per
// refill window.
//
// Example:
//
//	// Allow 5 requests per minute
//	limiter := NewRateLimiter(5, 12*time.Second)
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters:    make(map[string]*bucketState),
		maxTokens:   maxTokens,
		refillRate:  refillRate,
		stopCleanup: make(chan struct{}),
	}

	rl.cleanupTicker = time.NewTicker(10 * time.Minute)
	go rl.cleanup()

	return rl
}

// Allow reports whether a request from the given identifier is within the
// limit, consuming one token when it is.
func (rl *RateLimiter) Allow(identifier string) bool {
	rl.mu.Lock()
	bucket, exists := rl.limiters[identifier]
	if !exists {
		rl.limiters[identifier] = &bucketState{
			tokens:     rl.maxTokens - 1,
			lastRefill: time.Now(),
		}
		rl.mu.Unlock()
		return true
	}
	rl.mu.Unlock()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	elapsed := time.Since(bucket.lastRefill)
	tokensToAdd := int(elapsed / rl.refillRate)

	if tokensToAdd > 0 {
		bucket.tokens += tokensToAdd
		if bucket.tokens > rl.maxTokens {
			bucket.tokens = rl.maxTokens
		}
		bucket.lastRefill = bucket.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}

	if bucket.tokens <= 0 {
		return false
	}

	bucket.tokens--
	return true
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.cleanupTicker.Stop()
	close(rl.stopCleanup)
}

// cleanup periodically drops buckets that have been idle long enough to be
// fully refilled, bounding memory under churning client IPs.
func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			cutoff := time.Duration(rl.maxTokens) * rl.refillRate
			rl.mu.Lock()
			for id, bucket := range rl.limiters {
				bucket.mu.Lock()
				idle := time.Since(bucket.lastRefill)
				bucket.mu.Unlock()
				if idle > cutoff {
					delete(rl.limiters, id)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCleanup:
			return
		}
	}
}
