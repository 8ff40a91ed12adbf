package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing outbound feed requests
type Limiter interface {
	Wait(ctx context.Context) error
}

// TokenBucket is an implementation of Limiter backed by a token bucket
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a new rate limiter
// Example: NewTokenBucket(1, 2*time.Second, 3) -> allows 1 request every 2 seconds, burst of 3 requests
func NewTokenBucket(requests int, per time.Duration, burst int) Limiter {
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Every(per/time.Duration(requests)), burst),
	}
}

// Wait blocks until a request is allowed or the context is cancelled
func (l *TokenBucket) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
