package usecase

import (
	"errors"
	"time"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultGridCacheTTL is how long a rendered year grid stays cached
	DefaultGridCacheTTL = time.Hour
)

// IdempotencyPendingMarker is stored under a claimed key until the first
// request finishes.
const IdempotencyPendingMarker = "processing"

// IsIdempotencyPending reports whether a stored value is the in-flight marker.
func IsIdempotencyPending(stored []byte) bool {
	return string(stored) == IdempotencyPendingMarker
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")
