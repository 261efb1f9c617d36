// Package limiter defines interfaces and implementations for throttling
// write operations per acting user.
package limiter

import (
	"context"
	"time"
)

// Limiter controls the write rate of a single actor.
type Limiter interface {
	// Allow records one write attempt and reports whether it is admitted,
	// with an optional retry-after when it is not.
	Allow(ctx context.Context, actor string) (bool, time.Duration, error)
}
