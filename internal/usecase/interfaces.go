package usecase

import (
	"context"
	"time"

	"github.com/iho/profitshare/internal/domain"
)

// PeriodRepository defines data access for periods and their child records.
type PeriodRepository interface {
	Create(ctx context.Context, tx Transaction, period *domain.Period) error
	// Update replaces the period's inputs, shares and charges. It fails with
	// domain.ErrVersionConflict when the stored version differs from expectedVersion.
	Update(ctx context.Context, tx Transaction, period *domain.Period, expectedVersion int64) error
	GetByKey(ctx context.Context, key domain.YearMonth) (*domain.Period, error)
	GetByKeyForUpdate(ctx context.Context, tx Transaction, key domain.YearMonth) (*domain.Period, error)
	// ListAll returns every period ordered by year, then month.
	ListAll(ctx context.Context) ([]*domain.Period, error)
	Delete(ctx context.Context, tx Transaction, key domain.YearMonth) error
}

// HolderRepository defines data access for holders.
type HolderRepository interface {
	Create(ctx context.Context, holder *domain.Holder) error
	GetByID(ctx context.Context, id string) (*domain.Holder, error)
	GetByName(ctx context.Context, name string) (*domain.Holder, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Holder, error)
	Update(ctx context.Context, holder *domain.Holder) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations. Get returns ErrCacheMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// CalculationObserver receives measurements from history replays.
type CalculationObserver interface {
	ObserveReplay(periods, recomputed int, duration time.Duration)
	ObserveRoundingAdjustments(count int)
	SetOutstandingCarryForward(holders int, total float64)
}

// Invalidator is notified when periods at or after from have changed.
type Invalidator interface {
	Invalidate(ctx context.Context, from domain.YearMonth) error
}

// HistoryProvider replays the full stored history.
type HistoryProvider interface {
	History(ctx context.Context) ([]domain.PeriodResult, error)
}
