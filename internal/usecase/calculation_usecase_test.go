package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
	"github.com/iho/profitshare/internal/usecase/mocks"
)

func share(id, n string) domain.ShareEntry {
	return domain.ShareEntry{HolderID: id, Shares: dec(n)}
}

// deficitPeriods: A overdraws in January, repays in February.
func deficitPeriods() []*domain.Period {
	return []*domain.Period{
		{
			ID:      "p-1",
			Key:     ym(2024, time.January),
			Inputs:  domain.PeriodInputs{NetIncome: dec("1000")},
			Shares:  []domain.ShareEntry{share("A", "50"), share("B", "50")},
			Charges: []domain.PersonalCharge{{HolderID: "A", Amount: dec("2000")}},
			Version: 1,
		},
		{
			ID:      "p-2",
			Key:     ym(2024, time.February),
			Inputs:  domain.PeriodInputs{NetIncome: dec("10000")},
			Shares:  []domain.ShareEntry{share("A", "50"), share("B", "50")},
			Version: 1,
		},
		{
			ID:      "p-3",
			Key:     ym(2024, time.March),
			Inputs:  domain.PeriodInputs{NetIncome: dec("300")},
			Shares:  []domain.ShareEntry{share("A", "50"), share("B", "50")},
			Version: 1,
		},
	}
}

func newCalculationUseCase(periods *mocks.PeriodStore, cache usecase.Cache, observer usecase.CalculationObserver) *usecase.CalculationUseCase {
	return usecase.NewCalculationUseCase(usecase.CalculationUseCaseConfig{
		PeriodRepo: periods,
		Cache:      cache,
		Observer:   observer,
	})
}

func TestCalculationUseCase_History(t *testing.T) {
	observer := &mocks.RecordingObserver{}
	uc := newCalculationUseCase(mocks.NewPeriodStore(deficitPeriods()...), nil, observer)

	results, err := uc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	jan, _ := results[0].Row("A")
	assert.True(t, jan.CarryForwardOut.Equal(dec("500")))

	feb, _ := results[1].Row("A")
	assert.True(t, feb.CarryForwardIn.Equal(dec("500")))
	assert.True(t, feb.PayoutRounded.Equal(dec("4500")))

	assert.Equal(t, 3, observer.LastPeriods)
	assert.Equal(t, 3, observer.LastRecomputed)
	assert.Equal(t, 0, observer.OutstandingCount)

	_, err = uc.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, observer.LastRecomputed)
	assert.Equal(t, 2, observer.Replays)
}

func TestCalculationUseCase_History_OutOfOrder(t *testing.T) {
	periods := deficitPeriods()
	store := mocks.NewPeriodStore()
	store.ListAllFunc = func(ctx context.Context) ([]*domain.Period, error) {
		return []*domain.Period{periods[1], periods[0]}, nil
	}
	uc := newCalculationUseCase(store, nil, nil)

	_, err := uc.History(context.Background())
	assert.ErrorIs(t, err, domain.ErrPeriodsOutOfOrder)
}

func TestCalculationUseCase_InvalidateReflowsEdits(t *testing.T) {
	store := mocks.NewPeriodStore(deficitPeriods()...)
	observer := &mocks.RecordingObserver{}
	uc := newCalculationUseCase(store, nil, observer)
	ctx := context.Background()

	_, err := uc.History(ctx)
	require.NoError(t, err)

	jan, err := store.GetByKey(ctx, ym(2024, time.January))
	require.NoError(t, err)
	jan.Charges = nil
	require.NoError(t, store.Update(ctx, nil, jan, 1))
	require.NoError(t, uc.Invalidate(ctx, ym(2024, time.January)))

	results, err := uc.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, observer.LastRecomputed)

	feb, _ := results[1].Row("A")
	assert.True(t, feb.CarryForwardIn.IsZero())
	assert.True(t, feb.PayoutRounded.Equal(dec("5000")))
}

func TestCalculationUseCase_CalculatePeriod(t *testing.T) {
	uc := newCalculationUseCase(mocks.NewPeriodStore(deficitPeriods()...), nil, nil)

	res, err := uc.CalculatePeriod(context.Background(), ym(2024, time.March))
	require.NoError(t, err)
	assert.Equal(t, ym(2024, time.March), res.Key)
	assert.True(t, res.ActualRoundedTotal.Equal(dec("300")))

	_, err = uc.CalculatePeriod(context.Background(), ym(2024, time.April))
	assert.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestCalculationUseCase_Summary(t *testing.T) {
	uc := newCalculationUseCase(mocks.NewPeriodStore(deficitPeriods()...), nil, nil)

	summary, err := uc.Summary(context.Background(), ym(2024, time.January))
	require.NoError(t, err)
	assert.Equal(t, "p-1", summary.Period.ID)
	assert.True(t, summary.Result.AdjustedPool.Equal(dec("3000")))
	assert.True(t, summary.Result.PersonalAddBackTotal.Equal(dec("2000")))
}

func TestCalculationUseCase_Preview(t *testing.T) {
	store := mocks.NewPeriodStore(deficitPeriods()[0])
	uc := newCalculationUseCase(store, nil, nil)

	res, err := uc.Preview(context.Background(), usecase.PreviewInput{
		Key:    ym(2024, time.February),
		Inputs: domain.PeriodInputs{NetIncome: dec("600")},
		Shares: []domain.ShareEntry{share("A", "1"), share("B", "1")},
	})
	require.NoError(t, err)

	a, _ := res.Row("A")
	assert.True(t, a.CarryForwardIn.Equal(dec("500")))
	assert.True(t, a.PayoutRounded.IsZero())
	assert.True(t, a.CarryForwardOut.Equal(dec("200")))

	periods, _ := store.ListAll(context.Background())
	assert.Len(t, periods, 1, "preview must not store anything")

	_, err = uc.Preview(context.Background(), usecase.PreviewInput{Key: ym(1990, time.January)})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriodKey)
}

func TestCalculationUseCase_PreviewIgnoresLaterPeriods(t *testing.T) {
	uc := newCalculationUseCase(mocks.NewPeriodStore(deficitPeriods()...), nil, nil)

	res, err := uc.Preview(context.Background(), usecase.PreviewInput{
		Key:    ym(2024, time.January),
		Inputs: domain.PeriodInputs{NetIncome: dec("100")},
		Shares: []domain.ShareEntry{share("A", "1")},
	})
	require.NoError(t, err)

	a, _ := res.Row("A")
	assert.True(t, a.CarryForwardIn.IsZero())
	assert.True(t, a.PayoutRounded.Equal(dec("100")))
}

func TestCalculationUseCase_CarryForwardAsOf(t *testing.T) {
	uc := newCalculationUseCase(mocks.NewPeriodStore(deficitPeriods()...), nil, nil)
	ctx := context.Background()

	carry, err := uc.CarryForwardAsOf(ctx, ym(2024, time.January))
	require.NoError(t, err)
	assert.True(t, carry.Get("A").Equal(dec("500")))

	carry, err = uc.CarryForwardAsOf(ctx, ym(2024, time.February))
	require.NoError(t, err)
	assert.Empty(t, carry)

	carry, err = uc.CarryForwardAsOf(ctx, ym(2023, time.December))
	require.NoError(t, err)
	assert.Empty(t, carry)

	outstanding, err := uc.OutstandingCarryForward(ctx)
	require.NoError(t, err)
	assert.Empty(t, outstanding)
}

func TestCalculationUseCase_YearGrid(t *testing.T) {
	periods := append(deficitPeriods(), &domain.Period{
		ID:     "p-4",
		Key:    ym(2025, time.January),
		Inputs: domain.PeriodInputs{NetIncome: dec("10")},
		Shares: []domain.ShareEntry{share("C", "1")},
	})
	cache := mocks.NewMemoryCache()
	uc := newCalculationUseCase(mocks.NewPeriodStore(periods...), cache, nil)
	ctx := context.Background()

	grid, err := uc.YearGrid(ctx, 2024)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, grid.Months)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, "A", grid.Rows[0].HolderID)
	assert.True(t, grid.Rows[0].Payouts[0].IsZero())
	assert.True(t, grid.Rows[0].Payouts[1].Equal(dec("4500")))
	assert.True(t, grid.Rows[0].Total.Equal(dec("4650")))
	assert.True(t, grid.MonthTotals[0].Equal(dec("1500")))
	assert.True(t, grid.Total.Equal(dec("11300")))
	assert.True(t, grid.MonthTotals[11].IsZero())

	assert.True(t, cache.Has("grid:2024"))

	var cached usecase.YearGrid
	raw, err := cache.Get(ctx, "grid:2024")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.True(t, cached.Total.Equal(grid.Total))

	require.NoError(t, uc.Invalidate(ctx, ym(2024, time.June)))
	assert.False(t, cache.Has("grid:2024"))

	_, err = uc.YearGrid(ctx, 1800)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriodKey)
}

func TestCalculationUseCase_YearGrid_EditDuringBuildIsNotCached(t *testing.T) {
	store := mocks.NewPeriodStore()
	cache := mocks.NewMemoryCache()
	uc := newCalculationUseCase(store, cache, nil)
	ctx := context.Background()

	current := deficitPeriods()
	edited := false
	store.ListAllFunc = func(ctx context.Context) ([]*domain.Period, error) {
		if edited {
			return current, nil
		}
		// An update commits and invalidates after this read has taken its snapshot.
		edited = true
		snapshot := current
		current = deficitPeriods()
		current[1].Inputs.NetIncome = dec("99999")
		require.NoError(t, uc.Invalidate(ctx, ym(2024, time.February)))
		return snapshot, nil
	}

	stale, err := uc.YearGrid(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, stale.MonthTotals[1].Equal(dec("9500")))
	assert.False(t, cache.Has("grid:2024"))

	fresh, err := uc.YearGrid(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, fresh.MonthTotals[1].Equal(dec("99499")), "february total %s", fresh.MonthTotals[1])
	assert.True(t, cache.Has("grid:2024"))
}

func TestCalculationUseCase_YearGrid_ServedFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	repo := mocks.NewMockPeriodRepository(ctrl)

	payload, err := json.Marshal(usecase.YearGrid{Year: 2024, Months: []int{5}})
	require.NoError(t, err)
	cache.EXPECT().Get(gomock.Any(), "grid:2024").Return(payload, nil)

	uc := usecase.NewCalculationUseCase(usecase.CalculationUseCaseConfig{PeriodRepo: repo, Cache: cache})
	grid, err := uc.YearGrid(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, grid.Months)
}

func TestCalculationUseCase_YearGrid_CacheErrorsFallBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), "grid:2024").Return(nil, errors.New("timeout"))
	cache.EXPECT().Set(gomock.Any(), "grid:2024", gomock.Any(), usecase.DefaultGridCacheTTL).Return(errors.New("timeout"))

	uc := newCalculationUseCase(mocks.NewPeriodStore(deficitPeriods()...), cache, nil)
	grid, err := uc.YearGrid(context.Background(), 2024)
	require.NoError(t, err)
	assert.Len(t, grid.Months, 3)
}

func TestCalculationUseCase_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPeriodRepository(ctrl)
	dbErr := errors.New("db down")
	repo.EXPECT().ListAll(gomock.Any()).Return(nil, dbErr)

	uc := usecase.NewCalculationUseCase(usecase.CalculationUseCaseConfig{PeriodRepo: repo})
	_, err := uc.History(context.Background())
	assert.ErrorIs(t, err, dbErr)
}
