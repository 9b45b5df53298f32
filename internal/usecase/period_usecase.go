package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/profitshare/internal/domain"
)

// PeriodUseCase handles period creation and editing.
type PeriodUseCase struct {
	txManager   TransactionManager
	periodRepo  PeriodRepository
	holderRepo  HolderRepository
	retrier     Retrier
	idGen       IDGenerator
	invalidator Invalidator
	logger      zerolog.Logger
}

// PeriodUseCaseConfig holds PeriodUseCase dependencies.
type PeriodUseCaseConfig struct {
	TxManager   TransactionManager
	PeriodRepo  PeriodRepository
	HolderRepo  HolderRepository
	Retrier     Retrier
	IDGen       IDGenerator
	Invalidator Invalidator
	Logger      *zerolog.Logger
}

// NewPeriodUseCase creates a new PeriodUseCase.
func NewPeriodUseCase(cfg PeriodUseCaseConfig) *PeriodUseCase {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &PeriodUseCase{
		txManager:   cfg.TxManager,
		periodRepo:  cfg.PeriodRepo,
		holderRepo:  cfg.HolderRepo,
		retrier:     cfg.Retrier,
		idGen:       cfg.IDGen,
		invalidator: cfg.Invalidator,
		logger:      logger,
	}
}

// SeedMode selects where a new period's shares come from when none are given.
type SeedMode string

const (
	SeedNone          SeedMode = ""
	SeedPriorPeriod   SeedMode = "prior_period"
	SeedDefaultShares SeedMode = "default_shares"
)

// CreatePeriodInput represents input for creating a period.
type CreatePeriodInput struct {
	Key     domain.YearMonth
	Inputs  domain.PeriodInputs
	Shares  []domain.ShareEntry
	Charges []domain.PersonalCharge
	Seed    SeedMode
}

// CreatePeriod stores a new period. Calculations from its month onward are invalidated.
func (uc *PeriodUseCase) CreatePeriod(ctx context.Context, input CreatePeriodInput) (*domain.Period, error) {
	if err := domain.ValidateYearMonth(input.Key); err != nil {
		return nil, err
	}

	shares := input.Shares
	if len(shares) == 0 && input.Seed != SeedNone {
		seeded, err := uc.seedShares(ctx, input.Key, input.Seed)
		if err != nil {
			return nil, err
		}
		shares = seeded
	}

	now := time.Now().UTC()
	period := &domain.Period{
		ID:        uc.idGen.Generate(),
		Key:       input.Key,
		Inputs:    input.Inputs,
		Shares:    shares,
		Charges:   input.Charges,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}
	if err := uc.ensureHoldersExist(ctx, period, true); err != nil {
		return nil, err
	}

	err := uc.inTx(ctx, func(tx Transaction) error {
		return uc.periodRepo.Create(ctx, tx, period)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, period.Key)

	return period, nil
}

// GetPeriod retrieves a period by key.
func (uc *PeriodUseCase) GetPeriod(ctx context.Context, key domain.YearMonth) (*domain.Period, error) {
	return uc.periodRepo.GetByKey(ctx, key)
}

// ListPeriodsInput filters listed periods. Year zero lists every year.
type ListPeriodsInput struct {
	Year int
}

// ListPeriods lists periods oldest first.
func (uc *PeriodUseCase) ListPeriods(ctx context.Context, input ListPeriodsInput) ([]*domain.Period, error) {
	periods, err := uc.periodRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if input.Year == 0 {
		return periods, nil
	}

	return slices.DeleteFunc(periods, func(p *domain.Period) bool {
		return p.Key.Year != input.Year
	}), nil
}

// UpdatePeriodInput represents a full replacement of a period's records.
type UpdatePeriodInput struct {
	Key             domain.YearMonth
	Inputs          domain.PeriodInputs
	Shares          []domain.ShareEntry
	Charges         []domain.PersonalCharge
	ExpectedVersion int64
}

// UpdatePeriod replaces a period if nobody changed it since ExpectedVersion was read.
func (uc *PeriodUseCase) UpdatePeriod(ctx context.Context, input UpdatePeriodInput) (*domain.Period, error) {
	candidate := &domain.Period{
		Key:     input.Key,
		Inputs:  input.Inputs,
		Shares:  input.Shares,
		Charges: input.Charges,
	}
	if err := domain.ValidatePeriod(candidate); err != nil {
		return nil, err
	}
	if err := uc.ensureHoldersExist(ctx, candidate, false); err != nil {
		return nil, err
	}

	var updated *domain.Period
	err := uc.inTx(ctx, func(tx Transaction) error {
		existing, err := uc.periodRepo.GetByKeyForUpdate(ctx, tx, input.Key)
		if err != nil {
			return err
		}
		if existing.Version != input.ExpectedVersion {
			return fmt.Errorf("%w: expected version %d, found %d", domain.ErrVersionConflict, input.ExpectedVersion, existing.Version)
		}

		next := *existing
		next.Inputs = input.Inputs
		next.Shares = input.Shares
		next.Charges = input.Charges
		next.Version = existing.Version + 1
		next.UpdatedAt = time.Now().UTC()

		if err := uc.periodRepo.Update(ctx, tx, &next, existing.Version); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, updated.Key)

	return updated, nil
}

// DeletePeriod removes a period and reflows every later carry-forward.
func (uc *PeriodUseCase) DeletePeriod(ctx context.Context, key domain.YearMonth) error {
	err := uc.inTx(ctx, func(tx Transaction) error {
		return uc.periodRepo.Delete(ctx, tx, key)
	})
	if err != nil {
		return err
	}

	uc.invalidate(ctx, key)

	return nil
}

func (uc *PeriodUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	run := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if uc.retrier == nil {
		return run()
	}
	return uc.retrier.Retry(ctx, run)
}

func (uc *PeriodUseCase) invalidate(ctx context.Context, from domain.YearMonth) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx, from); err != nil {
		uc.logger.Warn().Err(err).Str("from", from.String()).Msg("failed to invalidate calculations")
	}
}

func (uc *PeriodUseCase) seedShares(ctx context.Context, key domain.YearMonth, mode SeedMode) ([]domain.ShareEntry, error) {
	switch mode {
	case SeedPriorPeriod:
		periods, err := uc.periodRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		var prior *domain.Period
		for _, p := range periods {
			if p.Key.Before(key) {
				prior = p
			}
		}
		if prior == nil {
			return nil, nil
		}
		entries := make([]domain.ShareEntry, 0, len(prior.Shares))
		for _, e := range prior.Shares {
			h, err := uc.holderRepo.GetByID(ctx, e.HolderID)
			if errors.Is(err, domain.ErrHolderNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if !h.Active {
				continue
			}
			entries = append(entries, e)
		}
		return entries, nil

	case SeedDefaultShares:
		holders, err := uc.holderRepo.List(ctx, true)
		if err != nil {
			return nil, err
		}
		var entries []domain.ShareEntry
		for _, h := range holders {
			if h.DefaultShares != nil {
				entries = append(entries, domain.ShareEntry{HolderID: h.ID, Shares: *h.DefaultShares})
			}
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("unknown seed mode %q", mode)
	}
}

// ensureHoldersExist checks that share and charge entries reference known
// holders. New periods may not assign shares to an inactive holder; updates
// may, since deactivation does not rewrite history.
func (uc *PeriodUseCase) ensureHoldersExist(ctx context.Context, period *domain.Period, rejectInactive bool) error {
	holders := make(map[string]*domain.Holder)
	lookup := func(id string) (*domain.Holder, error) {
		if h, ok := holders[id]; ok {
			return h, nil
		}
		h, err := uc.holderRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrHolderNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrHolderNotFound, id)
			}
			return nil, err
		}
		holders[id] = h
		return h, nil
	}

	for _, s := range period.Shares {
		h, err := lookup(s.HolderID)
		if err != nil {
			return err
		}
		if rejectInactive && !h.Active {
			return fmt.Errorf("%w: %s", domain.ErrHolderInactive, s.HolderID)
		}
	}
	for _, c := range period.Charges {
		if _, err := lookup(c.HolderID); err != nil {
			return err
		}
	}
	return nil
}
