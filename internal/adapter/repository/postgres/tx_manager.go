package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/profitshare/internal/usecase"
)

// DefaultLockTimeout bounds how long a period write waits on another
// writer's row lock before failing with 55P03, which the Retrier retries.
const DefaultLockTimeout = 2 * time.Second

var periodTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager opens the transactions period writes run in.
// It implements usecase.TransactionManager.
type TxManager struct {
	pool        txBeginner
	lockTimeout time.Duration
}

// NewTxManager returns a TxManager using DefaultLockTimeout.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManager(pool, DefaultLockTimeout)
}

func newTxManager(pool txBeginner, lockTimeout time.Duration) *TxManager {
	return &TxManager{pool: pool, lockTimeout: lockTimeout}
}

// Begin starts a read-committed transaction with a local lock timeout.
// A zero timeout leaves the server default in place.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, periodTxOptions)
	if err != nil {
		return nil, fmt.Errorf("begin period tx: %w", err)
	}

	if m.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return nil, errors.Join(fmt.Errorf("set lock timeout: %w", err), tx.Rollback(ctx))
		}
	}

	return &PeriodTx{tx: tx}, nil
}

// PeriodTx is the usecase.Transaction handed to PeriodRepository writes.
type PeriodTx struct {
	tx pgx.Tx
}

func (t *PeriodTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback is a no-op once the transaction has been committed.
func (t *PeriodTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}
