package gotdir

import "go.uber.org/zap"

// StackConfig selects the decorators Compose wraps around a backend.
type StackConfig struct {
	// TKK enables the token workaround when non-zero.
	TKK TKK

	// RateLimit enables rate limiting when RequestsPerMinute > 0.
	RateLimit RateLimitConfig

	// Retry enables retries when MaxRetries > 0.
	Retry RetryConfig

	// Cache enables result caching when non-nil.
	Cache TranslationCache
	Model string // Cache key namespace

	// Suggestions enables suggestion following when non-nil.
	Suggestions SuggestionExtractor

	Logger *zap.Logger
}

// Compose wraps backend in the configured decorators. From the inside out:
// token stamping, rate limiting, retries, caching, suggestion following.
// Suggestion following sits outermost so the re-translation of a suggestion
// goes through the whole stack, cache included.
func Compose(backend Host, cfg StackConfig) Host {
	h := backend

	if cfg.TKK != (TKK{}) {
		h = NewTokenStamper(h, cfg.TKK)
	}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		h = NewRateLimitedHost(h, cfg.RateLimit)
	}
	if cfg.Retry.MaxRetries > 0 {
		h = NewRetryingHost(h, cfg.Retry, cfg.Logger)
	}
	if cfg.Cache != nil {
		h = NewCachingHost(h, cfg.Cache, cfg.Model, cfg.Logger)
	}
	if cfg.Suggestions != nil {
		h = NewSuggestionFollower(h, cfg.Suggestions, cfg.Logger)
	}

	return h
}
