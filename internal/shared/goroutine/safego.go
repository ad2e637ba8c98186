// Package goroutine launches background work that must not crash the process.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"karnex/internal/shared/logger"
)

// SafeGo launches fn in a goroutine. A panic is logged with its stack
// instead of taking the server down.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer recoverPanic(log, name)
		fn()
	}()
}

// Detached runs fn in the background with a context that keeps the values
// of parent but is not cancelled with it, bounded by timeout. Used for side
// effects that outlive the request that triggered them.
func Detached(parent context.Context, log logger.Interface, name string, timeout time.Duration, fn func(ctx context.Context)) {
	ctx := context.WithoutCancel(parent)
	go func() {
		defer recoverPanic(log, name)
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		fn(ctx)
	}()
}

func recoverPanic(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}
