package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Time, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errStoreDown
}

func (failingStore) Reset(context.Context, string) error { return errStoreDown }
