package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
)

// HolderUseCase handles holder management.
type HolderUseCase struct {
	holderRepo HolderRepository
	idGen      IDGenerator
}

// NewHolderUseCase creates a new HolderUseCase.
func NewHolderUseCase(holderRepo HolderRepository, idGen IDGenerator) *HolderUseCase {
	return &HolderUseCase{
		holderRepo: holderRepo,
		idGen:      idGen,
	}
}

// CreateHolderInput represents input for creating a holder.
type CreateHolderInput struct {
	Name          string
	DefaultShares *decimal.Decimal
}

// CreateHolder creates a new active holder with a unique name.
func (uc *HolderUseCase) CreateHolder(ctx context.Context, input CreateHolderInput) (*domain.Holder, error) {
	name, err := domain.ValidateHolderName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDefaultShares(input.DefaultShares); err != nil {
		return nil, err
	}

	if err := uc.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	holder := &domain.Holder{
		ID:            uc.idGen.Generate(),
		Name:          name,
		DefaultShares: input.DefaultShares,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.holderRepo.Create(ctx, holder); err != nil {
		return nil, err
	}

	return holder, nil
}

// GetHolder retrieves a holder by ID.
func (uc *HolderUseCase) GetHolder(ctx context.Context, id string) (*domain.Holder, error) {
	return uc.holderRepo.GetByID(ctx, id)
}

// ListHoldersInput represents input for listing holders.
type ListHoldersInput struct {
	ActiveOnly bool
}

// ListHolders lists holders ordered by name.
func (uc *HolderUseCase) ListHolders(ctx context.Context, input ListHoldersInput) ([]*domain.Holder, error) {
	return uc.holderRepo.List(ctx, input.ActiveOnly)
}

// UpdateHolderInput represents a partial holder update. Nil fields are left alone.
type UpdateHolderInput struct {
	ID            string
	Name          *string
	DefaultShares *decimal.Decimal
}

// UpdateHolder renames a holder or changes its default shares.
func (uc *HolderUseCase) UpdateHolder(ctx context.Context, input UpdateHolderInput) (*domain.Holder, error) {
	holder, err := uc.holderRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := domain.ValidateHolderName(*input.Name)
		if err != nil {
			return nil, err
		}
		if err := uc.ensureNameFree(ctx, name, holder.ID); err != nil {
			return nil, err
		}
		holder.Name = name
	}

	if input.DefaultShares != nil {
		if err := domain.ValidateDefaultShares(input.DefaultShares); err != nil {
			return nil, err
		}
		holder.DefaultShares = input.DefaultShares
	}

	holder.UpdatedAt = time.Now().UTC()
	if err := uc.holderRepo.Update(ctx, holder); err != nil {
		return nil, err
	}

	return holder, nil
}

// DeactivateHolder soft-deletes a holder. Existing periods keep their entries.
func (uc *HolderUseCase) DeactivateHolder(ctx context.Context, id string) (*domain.Holder, error) {
	holder, err := uc.holderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	holder.Deactivate(time.Now().UTC())
	if err := uc.holderRepo.Update(ctx, holder); err != nil {
		return nil, err
	}

	return holder, nil
}

func (uc *HolderUseCase) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := uc.holderRepo.GetByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrHolderNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.ErrHolderExists
	default:
		return nil
	}
}
