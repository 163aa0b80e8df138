package gotdir

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter controls the rate of backend requests with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a new rate limiter. The bucket starts full.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60 // Default: 60 RPM
	}

	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
	}
}

// Wait blocks until a token is available or ctx is done. It fails at once
// when ctx's deadline would pass before a token frees up.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// TryAcquire attempts to acquire a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	return r.limiter.Allow()
}

// Available returns the current number of available tokens.
func (r *RateLimiter) Available() float64 {
	return r.limiter.Tokens()
}

// RateLimitedHost wraps a Host with rate limiting. Typing produces a request
// per keystroke-sized change, so backends usually need one.
type RateLimitedHost struct {
	host    Host
	limiter *RateLimiter
}

// NewRateLimitedHost creates a new rate-limited host.
func NewRateLimitedHost(host Host, cfg RateLimitConfig) *RateLimitedHost {
	return &RateLimitedHost{
		host:    host,
		limiter: NewRateLimiter(cfg),
	}
}

// Translate implements Host with rate limiting.
func (h *RateLimitedHost) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return h.host.Translate(ctx, req)
}

// Limiter returns the underlying rate limiter for inspection.
func (h *RateLimitedHost) Limiter() *RateLimiter {
	return h.limiter
}

var _ Host = (*RateLimitedHost)(nil)
