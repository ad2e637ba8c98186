package ratelimit

import (
	"context"
	"time"

	"karnex/internal/shared/constants"
	"karnex/internal/shared/logger"
)

const (
	DefaultLimit  = 30
	DefaultWindow = 60 * time.Second
)

// FixedWindowLimiter admits up to limit hits per key per window.
type FixedWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
	now    func() time.Time
	logger logger.Interface
}

type Option func(*FixedWindowLimiter)

// WithClock replaces time.Now, for simulated-time tests.
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindowLimiter) {
		l.now = now
	}
}

func NewFixedWindowLimiter(store Store, limit int, window time.Duration, log logger.Interface, opts ...Option) *FixedWindowLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &FixedWindowLimiter{
		store:  store,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts the request and reports whether it fits in the window.
// It never fails: a store error admits the request with a full allowance.
func (l *FixedWindowLimiter) Check(ctx context.Context, key string) Result {
	if key == "" {
		key = constants.AnonymousClientKey
	}
	now := l.now()

	count, resetAt, err := l.store.Hit(ctx, key, now, l.window)
	if err != nil {
		l.logger.Warnw("rate limit store unavailable, allowing request",
			"client_key", key,
			"error", err,
		)
		return Result{
			Allowed:   true,
			Remaining: l.limit,
			Limit:     l.limit,
			ResetAt:   now.Add(l.window),
			Degraded:  true,
		}
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.limit,
		Remaining: remaining,
		Limit:     l.limit,
		ResetAt:   resetAt,
	}
}

func (l *FixedWindowLimiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

func (l *FixedWindowLimiter) Limit() int64 {
	return l.limit
}

func (l *FixedWindowLimiter) Window() time.Duration {
	return l.window
}
