package gotdir

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryConfig configures RetryingHost. Delays grow exponentially from
// BaseDelay and are capped at MaxDelay.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns the retry settings used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// IsRetryable reports whether a backend failure is worth another attempt.
// Only a ProviderError marked Retryable is; cancellation never is.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}

// retryHint returns the wait the backend asked for, or 0.
func retryHint(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}

// hintedBackOff waits at least as long as the last failure asked for, up to
// limit.
type hintedBackOff struct {
	backoff.BackOff
	limit time.Duration
	hint  time.Duration
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	hint := b.hint
	b.hint = 0
	if hint > b.limit {
		hint = b.limit
	}
	if hint > d {
		return hint
	}
	return d
}

// RetryingHost retries retryable backend failures with exponential backoff.
// The re-translation of a suggestion gets a single attempt, since the
// suggestion follower falls back to the first translation anyway.
type RetryingHost struct {
	host   Host
	config RetryConfig
	logger *zap.Logger
}

// NewRetryingHost wraps host. A nil logger disables logging.
func NewRetryingHost(host Host, cfg RetryConfig, logger *zap.Logger) *RetryingHost {
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = backoff.DefaultMaxInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingHost{host: host, config: cfg, logger: logger}
}

func (h *RetryingHost) policy() *hintedBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = h.config.BaseDelay
	exp.MaxInterval = h.config.MaxDelay
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0

	retries := uint64(0)
	if h.config.MaxRetries > 0 {
		retries = uint64(h.config.MaxRetries)
	}
	return &hintedBackOff{
		BackOff: backoff.WithMaxRetries(exp, retries),
		limit:   h.config.MaxDelay,
	}
}

// Translate implements Host.
func (h *RetryingHost) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	if req.Suggested {
		return h.host.Translate(ctx, req)
	}

	policy := h.policy()
	attempt := 0
	res, err := backoff.RetryNotifyWithData[*Result](func() (*Result, error) {
		attempt++
		res, err := h.host.Translate(ctx, req)
		if err == nil {
			return res, nil
		}
		if !IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		policy.hint = retryHint(err)
		return nil, err
	}, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		h.logger.Debug("retrying translation",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.String("direction", req.SourceLang+"→"+req.TargetLang),
			zap.Error(err))
	})
	if err != nil && ctx.Err() != nil && IsRetryable(err) {
		return nil, ctx.Err()
	}
	return res, err
}

var _ Host = (*RetryingHost)(nil)
