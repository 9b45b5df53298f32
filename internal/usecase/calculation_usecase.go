package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
)

const gridCacheKeyPrefix = "grid:"

// CalculationUseCase replays stored periods through the engine.
type CalculationUseCase struct {
	periodRepo PeriodRepository
	cache      Cache
	replay     *domain.ReplayCache
	observer   CalculationObserver
	logger     zerolog.Logger
	cacheTTL   time.Duration

	// generation counts invalidations; grids built across one are not cached.
	generation atomic.Uint64
}

// CalculationUseCaseConfig holds CalculationUseCase dependencies.
// Cache and Observer are optional.
type CalculationUseCaseConfig struct {
	PeriodRepo PeriodRepository
	Cache      Cache
	Observer   CalculationObserver
	Logger     *zerolog.Logger
	CacheTTL   time.Duration
}

// NewCalculationUseCase creates a new CalculationUseCase.
func NewCalculationUseCase(cfg CalculationUseCaseConfig) *CalculationUseCase {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultGridCacheTTL
	}

	return &CalculationUseCase{
		periodRepo: cfg.PeriodRepo,
		cache:      cfg.Cache,
		replay:     domain.NewReplayCache(),
		observer:   cfg.Observer,
		logger:     logger,
		cacheTTL:   ttl,
	}
}

// History returns the calculated result of every stored period, oldest first.
func (uc *CalculationUseCase) History(ctx context.Context) ([]domain.PeriodResult, error) {
	periods, err := uc.periodRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	records := domain.Records(periods)
	if err := domain.CheckChronological(records); err != nil {
		return nil, err
	}

	start := time.Now()
	results, recomputed := uc.replay.Run(records)
	elapsed := time.Since(start)

	uc.logger.Debug().
		Int("periods", len(results)).
		Int("recomputed", recomputed).
		Dur("duration", elapsed).
		Msg("history replayed")

	if uc.observer != nil {
		uc.observer.ObserveReplay(len(results), recomputed, elapsed)

		adjusted := 0
		for _, r := range results[len(results)-recomputed:] {
			if r.AdjustedHolderID != "" {
				adjusted++
			}
		}
		uc.observer.ObserveRoundingAdjustments(adjusted)

		outstanding := domain.CarryForward{}
		if len(results) > 0 {
			outstanding = results[len(results)-1].CarryForwardOut()
		}
		total, _ := outstanding.Total().Float64()
		uc.observer.SetOutstandingCarryForward(len(outstanding), total)
	}

	return results, nil
}

// CalculatePeriod returns the result for one stored period.
func (uc *CalculationUseCase) CalculatePeriod(ctx context.Context, key domain.YearMonth) (*domain.PeriodResult, error) {
	results, err := uc.History(ctx)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Key == key {
			return &results[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, key)
}

// PeriodSummary pairs a stored period with its calculation.
type PeriodSummary struct {
	Period *domain.Period
	Result domain.PeriodResult
}

// Summary returns a period's stored inputs together with its result.
func (uc *CalculationUseCase) Summary(ctx context.Context, key domain.YearMonth) (*PeriodSummary, error) {
	period, err := uc.periodRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	result, err := uc.CalculatePeriod(ctx, key)
	if err != nil {
		return nil, err
	}

	return &PeriodSummary{Period: period, Result: *result}, nil
}

// PreviewInput describes an unsaved period.
type PreviewInput struct {
	Key     domain.YearMonth
	Inputs  domain.PeriodInputs
	Shares  []domain.ShareEntry
	Charges []domain.PersonalCharge
}

// Preview calculates an unsaved period against the carry-forward that stored
// history leaves entering its month. Stored periods at or after Key are ignored.
func (uc *CalculationUseCase) Preview(ctx context.Context, input PreviewInput) (*domain.PeriodResult, error) {
	candidate := &domain.Period{
		Key:     input.Key,
		Inputs:  input.Inputs,
		Shares:  input.Shares,
		Charges: input.Charges,
	}
	if err := domain.ValidatePeriod(candidate); err != nil {
		return nil, err
	}

	results, err := uc.History(ctx)
	if err != nil {
		return nil, err
	}

	result := domain.Calculate(domain.CalculationInput{
		Key:            input.Key,
		Inputs:         input.Inputs,
		Shares:         input.Shares,
		Charges:        input.Charges,
		CarryForwardIn: carryBefore(results, input.Key),
	})

	return &result, nil
}

// CarryForwardAsOf returns the deficits outstanding after the last stored
// period at or before key.
func (uc *CalculationUseCase) CarryForwardAsOf(ctx context.Context, key domain.YearMonth) (domain.CarryForward, error) {
	results, err := uc.History(ctx)
	if err != nil {
		return nil, err
	}

	return carryBefore(results, key.Next()), nil
}

// OutstandingCarryForward returns the deficits left after the latest period.
func (uc *CalculationUseCase) OutstandingCarryForward(ctx context.Context) (domain.CarryForward, error) {
	results, err := uc.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return domain.CarryForward{}, nil
	}

	return results[len(results)-1].CarryForwardOut(), nil
}

// GridRow holds one holder's rounded payouts for each month of a year.
type GridRow struct {
	HolderID string              `json:"holder_id"`
	Payouts  [12]decimal.Decimal `json:"payouts"`
	Total    decimal.Decimal     `json:"total"`
}

// YearGrid is the holder by month payout table for one year.
type YearGrid struct {
	Year            int                 `json:"year"`
	Months          []int               `json:"months"`
	Rows            []GridRow           `json:"rows"`
	MonthTotals     [12]decimal.Decimal `json:"month_totals"`
	Total           decimal.Decimal     `json:"total"`
	CarryForwardOut domain.CarryForward `json:"carry_forward_out"`
}

// YearGrid builds the payout grid for a year, serving it from cache when possible.
func (uc *CalculationUseCase) YearGrid(ctx context.Context, year int) (*YearGrid, error) {
	if err := domain.ValidateYearMonth(domain.NewYearMonth(year, time.January)); err != nil {
		return nil, err
	}

	key := gridCacheKey(year)
	if grid, ok := uc.cachedGrid(ctx, key); ok {
		return grid, nil
	}

	gen := uc.generation.Load()

	results, err := uc.History(ctx)
	if err != nil {
		return nil, err
	}

	grid := buildYearGrid(year, results)

	if uc.generation.Load() != gen {
		uc.logger.Debug().Int("year", year).Msg("history changed while building grid, not caching")
		return grid, nil
	}

	if uc.cache != nil {
		if data, err := json.Marshal(grid); err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
				uc.logger.Warn().Err(err).Int("year", year).Msg("failed to cache year grid")
			}
		}
	}

	return grid, nil
}

// Invalidate drops cached calculations for every period at or after from.
func (uc *CalculationUseCase) Invalidate(ctx context.Context, from domain.YearMonth) error {
	uc.generation.Add(1)
	uc.replay.MarkDirty(from)

	if uc.cache == nil {
		return nil
	}

	keys := make([]string, 0, domain.MaxPeriodYear-from.Year+1)
	for year := from.Year; year <= domain.MaxPeriodYear; year++ {
		keys = append(keys, gridCacheKey(year))
	}

	return uc.cache.Delete(ctx, keys...)
}

func (uc *CalculationUseCase) cachedGrid(ctx context.Context, key string) (*YearGrid, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}

	var grid YearGrid
	if err := json.Unmarshal(data, &grid); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return nil, false
	}

	return &grid, true
}

func gridCacheKey(year int) string {
	return fmt.Sprintf("%s%d", gridCacheKeyPrefix, year)
}

func buildYearGrid(year int, results []domain.PeriodResult) *YearGrid {
	grid := &YearGrid{
		Year:            year,
		Months:          []int{},
		Rows:            []GridRow{},
		Total:           decimal.Zero,
		CarryForwardOut: domain.CarryForward{},
	}
	for i := range grid.MonthTotals {
		grid.MonthTotals[i] = decimal.Zero
	}

	index := make(map[string]int)
	for _, res := range results {
		if res.Key.Year != year {
			continue
		}
		m := int(res.Key.Month) - 1
		grid.Months = append(grid.Months, int(res.Key.Month))

		for _, row := range res.Rows {
			i, ok := index[row.HolderID]
			if !ok {
				i = len(grid.Rows)
				index[row.HolderID] = i
				gr := GridRow{HolderID: row.HolderID, Total: decimal.Zero}
				for j := range gr.Payouts {
					gr.Payouts[j] = decimal.Zero
				}
				grid.Rows = append(grid.Rows, gr)
			}
			grid.Rows[i].Payouts[m] = grid.Rows[i].Payouts[m].Add(row.PayoutRounded)
			grid.Rows[i].Total = grid.Rows[i].Total.Add(row.PayoutRounded)
		}

		grid.MonthTotals[m] = grid.MonthTotals[m].Add(res.ActualRoundedTotal)
		grid.Total = grid.Total.Add(res.ActualRoundedTotal)
		grid.CarryForwardOut = res.CarryForwardOut()
	}

	return grid
}

// carryBefore returns the carry state entering key.
func carryBefore(results []domain.PeriodResult, key domain.YearMonth) domain.CarryForward {
	carry := domain.CarryForward{}
	for _, res := range results {
		if !res.Key.Before(key) {
			break
		}
		carry = res.CarryForwardOut()
	}
	return carry
}
