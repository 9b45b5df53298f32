package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/infrastructure/postgres/generated"
	"github.com/iho/profitshare/internal/usecase"
)

// PeriodRepository implements usecase.PeriodRepository.
// Share and charge entries are stored in child tables keyed by position so
// their entry order survives a round trip.
type PeriodRepository struct {
	queries *generated.Queries
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return newPeriodRepositoryWithDB(pool)
}

func newPeriodRepositoryWithDB(db generated.DBTX) *PeriodRepository {
	return &PeriodRepository{queries: generated.New(db)}
}

// Create inserts a period together with its entries.
func (r *PeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	queries := txQueries(tx)

	err := queries.CreatePeriod(ctx, generated.CreatePeriodParams{
		ID:                 period.ID,
		Year:               int32(period.Key.Year),
		Month:              int32(period.Key.Month),
		NetIncome:          decimalToNumeric(period.Inputs.NetIncome),
		PoolAddback:        decimalToNumeric(period.Inputs.PoolAddBack),
		OwnerCompensation:  decimalToNumeric(period.Inputs.OwnerCompensation),
		TaxOptimizationAdj: decimalToNumeric(period.Inputs.TaxOptimizationAdj),
		UncollectibleAdj:   decimalToNumeric(period.Inputs.UncollectibleAdj),
		PayoutAddback:      decimalToNumeric(period.Inputs.PayoutAddBack),
		Version:            period.Version,
		CreatedAt:          timeToPgTimestamptz(period.CreatedAt),
		UpdatedAt:          timeToPgTimestamptz(period.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrPeriodExists, period.Key)
		}
		return err
	}

	return insertEntries(ctx, queries, period)
}

// Update replaces the period's inputs and entries if its version still matches.
func (r *PeriodRepository) Update(ctx context.Context, tx usecase.Transaction, period *domain.Period, expectedVersion int64) error {
	queries := txQueries(tx)

	affected, err := queries.UpdatePeriod(ctx, generated.UpdatePeriodParams{
		ID:                 period.ID,
		NetIncome:          decimalToNumeric(period.Inputs.NetIncome),
		PoolAddback:        decimalToNumeric(period.Inputs.PoolAddBack),
		OwnerCompensation:  decimalToNumeric(period.Inputs.OwnerCompensation),
		TaxOptimizationAdj: decimalToNumeric(period.Inputs.TaxOptimizationAdj),
		UncollectibleAdj:   decimalToNumeric(period.Inputs.UncollectibleAdj),
		PayoutAddback:      decimalToNumeric(period.Inputs.PayoutAddBack),
		Version:            period.Version,
		UpdatedAt:          timeToPgTimestamptz(period.UpdatedAt),
		Version_2:          expectedVersion,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}

	if err := queries.DeletePeriodShares(ctx, period.ID); err != nil {
		return err
	}
	if err := queries.DeletePeriodCharges(ctx, period.ID); err != nil {
		return err
	}

	return insertEntries(ctx, queries, period)
}

// GetByKey retrieves a period by year and month.
func (r *PeriodRepository) GetByKey(ctx context.Context, key domain.YearMonth) (*domain.Period, error) {
	row, err := r.queries.GetPeriodByKey(ctx, generated.GetPeriodByKeyParams{
		Year:  int32(key.Year),
		Month: int32(key.Month),
	})
	if err != nil {
		return nil, notFound(err, key)
	}

	return r.withEntries(ctx, r.queries, row)
}

// GetByKeyForUpdate retrieves a period with a FOR UPDATE lock.
func (r *PeriodRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, key domain.YearMonth) (*domain.Period, error) {
	queries := txQueries(tx)

	row, err := queries.GetPeriodByKeyForUpdate(ctx, generated.GetPeriodByKeyForUpdateParams{
		Year:  int32(key.Year),
		Month: int32(key.Month),
	})
	if err != nil {
		return nil, notFound(err, key)
	}

	return r.withEntries(ctx, queries, row)
}

// ListAll lists every period oldest first with its entries.
func (r *PeriodRepository) ListAll(ctx context.Context) ([]*domain.Period, error) {
	rows, err := r.queries.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*domain.Period{}, nil
	}

	periods := make([]*domain.Period, 0, len(rows))
	byID := make(map[string]*domain.Period, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		p := rowToPeriod(row)
		periods = append(periods, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	if err := loadEntries(ctx, r.queries, ids, byID); err != nil {
		return nil, err
	}

	return periods, nil
}

// Delete removes a period. Entries go with it through ON DELETE CASCADE.
func (r *PeriodRepository) Delete(ctx context.Context, tx usecase.Transaction, key domain.YearMonth) error {
	affected, err := txQueries(tx).DeletePeriod(ctx, generated.DeletePeriodParams{
		Year:  int32(key.Year),
		Month: int32(key.Month),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, key)
	}

	return nil
}

func (r *PeriodRepository) withEntries(ctx context.Context, queries *generated.Queries, row generated.Period) (*domain.Period, error) {
	p := rowToPeriod(row)
	if err := loadEntries(ctx, queries, []string{p.ID}, map[string]*domain.Period{p.ID: p}); err != nil {
		return nil, err
	}
	return p, nil
}

func loadEntries(ctx context.Context, queries *generated.Queries, ids []string, byID map[string]*domain.Period) error {
	shares, err := queries.ListPeriodShares(ctx, ids)
	if err != nil {
		return err
	}
	for _, s := range shares {
		if p, ok := byID[s.PeriodID]; ok {
			p.Shares = append(p.Shares, domain.ShareEntry{HolderID: s.HolderID, Shares: numericToDecimal(s.Shares)})
		}
	}

	charges, err := queries.ListPeriodCharges(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range charges {
		if p, ok := byID[c.PeriodID]; ok {
			p.Charges = append(p.Charges, domain.PersonalCharge{HolderID: c.HolderID, Amount: numericToDecimal(c.Amount)})
		}
	}

	return nil
}

func insertEntries(ctx context.Context, queries *generated.Queries, period *domain.Period) error {
	for i, s := range period.Shares {
		err := queries.InsertPeriodShare(ctx, generated.InsertPeriodShareParams{
			PeriodID: period.ID,
			Position: int32(i),
			HolderID: s.HolderID,
			Shares:   decimalToNumeric(s.Shares),
		})
		if err != nil {
			return fmt.Errorf("insert share entry %d: %w", i, err)
		}
	}

	for i, c := range period.Charges {
		err := queries.InsertPeriodCharge(ctx, generated.InsertPeriodChargeParams{
			PeriodID: period.ID,
			Position: int32(i),
			HolderID: c.HolderID,
			Amount:   decimalToNumeric(c.Amount),
		})
		if err != nil {
			return fmt.Errorf("insert charge entry %d: %w", i, err)
		}
	}

	return nil
}

func rowToPeriod(row generated.Period) *domain.Period {
	return &domain.Period{
		ID:  row.ID,
		Key: domain.NewYearMonth(int(row.Year), time.Month(row.Month)),
		Inputs: domain.PeriodInputs{
			NetIncome:          numericToDecimal(row.NetIncome),
			PoolAddBack:        numericToDecimal(row.PoolAddback),
			OwnerCompensation:  numericToDecimal(row.OwnerCompensation),
			TaxOptimizationAdj: numericToDecimal(row.TaxOptimizationAdj),
			UncollectibleAdj:   numericToDecimal(row.UncollectibleAdj),
			PayoutAddBack:      numericToDecimal(row.PayoutAddback),
		},
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func txQueries(tx usecase.Transaction) *generated.Queries {
	return generated.New(tx.(*PeriodTx).tx)
}

func notFound(err error, key domain.YearMonth) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrPeriodNotFound, key)
	}
	return err
}
