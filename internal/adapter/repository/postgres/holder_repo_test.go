package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/profitshare/internal/domain"
)

var holderColumns = []string{"id", "name", "default_shares", "active", "created_at", "updated_at"}

func TestHolderRepository_Create(t *testing.T) {
	pool := newMockPool(t)
	repo := newHolderRepositoryWithDB(pool)
	shares := decimal.NewFromInt(10)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO holders")).
		WithArgs("h1", "Alice", pgxmock.AnyArg(), true, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &domain.Holder{
		ID: "h1", Name: "Alice", DefaultShares: &shares, Active: true,
	})
	require.NoError(t, err)

	assertExpectations(t, pool)
}

func TestHolderRepository_CreateDuplicateName(t *testing.T) {
	pool := newMockPool(t)
	repo := newHolderRepositoryWithDB(pool)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO holders")).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := repo.Create(context.Background(), &domain.Holder{ID: "h2", Name: "alice"})
	assert.ErrorIs(t, err, domain.ErrHolderExists)
}

func TestHolderRepository_GetByID(t *testing.T) {
	pool := newMockPool(t)
	repo := newHolderRepositoryWithDB(pool)
	now := time.Now().UTC()

	pool.ExpectQuery(regexp.QuoteMeta("FROM holders WHERE id = $1")).
		WithArgs("h1").
		WillReturnRows(pgxmock.NewRows(holderColumns).AddRow("h1", "Alice", "2.5", true, now, now))
	pool.ExpectQuery(regexp.QuoteMeta("FROM holders WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	holder, err := repo.GetByID(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", holder.Name)
	require.NotNil(t, holder.DefaultShares)
	assert.True(t, holder.DefaultShares.Equal(decimal.RequireFromString("2.5")))

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrHolderNotFound)

	assertExpectations(t, pool)
}

func TestHolderRepository_ListWithoutDefaultShares(t *testing.T) {
	pool := newMockPool(t)
	repo := newHolderRepositoryWithDB(pool)
	now := time.Now().UTC()

	pool.ExpectQuery(regexp.QuoteMeta("FROM holders")).
		WithArgs(true).
		WillReturnRows(pgxmock.NewRows(holderColumns).AddRow("h1", "Alice", nil, true, now, now))

	holders, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Nil(t, holders[0].DefaultShares)

	assertExpectations(t, pool)
}

func TestHolderRepository_UpdateMissing(t *testing.T) {
	pool := newMockPool(t)
	repo := newHolderRepositoryWithDB(pool)

	pool.ExpectExec(regexp.QuoteMeta("UPDATE holders")).
		WithArgs("ghost", "Ghost", pgxmock.AnyArg(), false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &domain.Holder{ID: "ghost", Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrHolderNotFound)

	assertExpectations(t, pool)
}
