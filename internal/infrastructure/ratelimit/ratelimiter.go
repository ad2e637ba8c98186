// Package ratelimit implements per-client fixed-window admission.
//
// A window opens on the first hit from a key and lasts W; every hit in the
// window is counted, admitted or not. Up to 2N requests can pass across a
// window boundary (N just before the reset, N just after). The memory
// backend is per process, so N scales with the number of instances unless
// the redis backend is selected.
package ratelimit

import (
	"context"
	"strings"
	"time"

	"karnex/internal/shared/constants"
)

// WindowEntry is the state of one client's current window.
type WindowEntry struct {
	Key     string
	Count   int64
	ResetAt time.Time
}

// Stale reports whether the window has expired at now.
func (e WindowEntry) Stale(now time.Time) bool {
	return !now.Before(e.ResetAt)
}

// Store keeps window counters. Hit opens a fresh window when none exists or
// the current one has expired, then counts the hit.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (count int64, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Result is the outcome of one limiter check.
type Result struct {
	Allowed   bool
	Remaining int64
	Limit     int64
	ResetAt   time.Time
	// Degraded is set when the store failed and the request was let through.
	Degraded bool
}

// RateLimiter is the contract consumed by admission.
type RateLimiter interface {
	Check(ctx context.Context, key string) Result
	Reset(ctx context.Context, key string) error
}

// ClientKey derives the limiter key from forwarding headers: the first
// X-Forwarded-For hop, then X-Real-IP, then the shared anonymous bucket.
func ClientKey(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP = strings.TrimSpace(realIP); realIP != "" {
		return realIP
	}
	return constants.AnonymousClientKey
}
