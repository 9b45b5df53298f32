package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/infrastructure/postgres/generated"
)

// HolderRepository implements usecase.HolderRepository.
type HolderRepository struct {
	queries *generated.Queries
}

// NewHolderRepository creates a new HolderRepository.
func NewHolderRepository(pool *pgxpool.Pool) *HolderRepository {
	return newHolderRepositoryWithDB(pool)
}

func newHolderRepositoryWithDB(db generated.DBTX) *HolderRepository {
	return &HolderRepository{queries: generated.New(db)}
}

// Create inserts a holder. Names are unique regardless of case.
func (r *HolderRepository) Create(ctx context.Context, holder *domain.Holder) error {
	err := r.queries.CreateHolder(ctx, generated.CreateHolderParams{
		ID:            holder.ID,
		Name:          holder.Name,
		DefaultShares: optionalDecimalToNumeric(holder.DefaultShares),
		Active:        holder.Active,
		CreatedAt:     timeToPgTimestamptz(holder.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(holder.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrHolderExists
	}

	return err
}

// GetByID retrieves a holder by ID.
func (r *HolderRepository) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	row, err := r.queries.GetHolderByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHolderNotFound
		}

		return nil, err
	}

	return rowToHolder(row), nil
}

// GetByName retrieves a holder by case-insensitive name.
func (r *HolderRepository) GetByName(ctx context.Context, name string) (*domain.Holder, error) {
	row, err := r.queries.GetHolderByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHolderNotFound
		}

		return nil, err
	}

	return rowToHolder(row), nil
}

// List lists holders ordered by name.
func (r *HolderRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Holder, error) {
	rows, err := r.queries.ListHolders(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	holders := make([]*domain.Holder, 0, len(rows))
	for _, row := range rows {
		holders = append(holders, rowToHolder(row))
	}

	return holders, nil
}

// Update stores a holder's mutable fields.
func (r *HolderRepository) Update(ctx context.Context, holder *domain.Holder) error {
	affected, err := r.queries.UpdateHolder(ctx, generated.UpdateHolderParams{
		ID:            holder.ID,
		Name:          holder.Name,
		DefaultShares: optionalDecimalToNumeric(holder.DefaultShares),
		Active:        holder.Active,
		UpdatedAt:     timeToPgTimestamptz(holder.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrHolderExists
		}
		return err
	}
	if affected == 0 {
		return domain.ErrHolderNotFound
	}

	return nil
}

func rowToHolder(row generated.Holder) *domain.Holder {
	return &domain.Holder{
		ID:            row.ID,
		Name:          row.Name,
		DefaultShares: numericToOptionalDecimal(row.DefaultShares),
		Active:        row.Active,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
