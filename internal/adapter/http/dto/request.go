package dto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// ErrUnknownSeed is returned for a seed mode other than prior_period or default_shares.
var ErrUnknownSeed = errors.New("unknown share seed")

// CreateHolderRequest represents a request to create a holder.
type CreateHolderRequest struct {
	Name          string           `json:"name"`
	DefaultShares *decimal.Decimal `json:"default_shares,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateHolderRequest) ToUseCaseInput() usecase.CreateHolderInput {
	return usecase.CreateHolderInput{
		Name:          r.Name,
		DefaultShares: r.DefaultShares,
	}
}

// UpdateHolderRequest represents a partial holder update.
type UpdateHolderRequest struct {
	Name          *string          `json:"name,omitempty"`
	DefaultShares *decimal.Decimal `json:"default_shares,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateHolderRequest) ToUseCaseInput(id string) usecase.UpdateHolderInput {
	return usecase.UpdateHolderInput{
		ID:            id,
		Name:          r.Name,
		DefaultShares: r.DefaultShares,
	}
}

// PeriodInputsRequest carries the monthly figures. Omitted fields are zero.
type PeriodInputsRequest struct {
	NetIncome          decimal.Decimal `json:"net_income"`
	PoolAddBack        decimal.Decimal `json:"pool_addback"`
	OwnerCompensation  decimal.Decimal `json:"owner_compensation"`
	TaxOptimizationAdj decimal.Decimal `json:"tax_optimization_adj"`
	UncollectibleAdj   decimal.Decimal `json:"uncollectible_adj"`
	PayoutAddBack      decimal.Decimal `json:"payout_addback"`
}

func (r PeriodInputsRequest) toDomain() domain.PeriodInputs {
	return domain.PeriodInputs{
		NetIncome:          r.NetIncome,
		PoolAddBack:        r.PoolAddBack,
		OwnerCompensation:  r.OwnerCompensation,
		TaxOptimizationAdj: r.TaxOptimizationAdj,
		UncollectibleAdj:   r.UncollectibleAdj,
		PayoutAddBack:      r.PayoutAddBack,
	}
}

// ShareEntryRequest assigns shares to a holder.
type ShareEntryRequest struct {
	HolderID string          `json:"holder_id"`
	Shares   decimal.Decimal `json:"shares"`
}

// ChargeRequest is a personal charge against a holder.
type ChargeRequest struct {
	HolderID string          `json:"holder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreatePeriodRequest represents a request to record a month.
type CreatePeriodRequest struct {
	Period  string              `json:"period"`
	Inputs  PeriodInputsRequest `json:"inputs"`
	Shares  []ShareEntryRequest `json:"shares,omitempty"`
	Charges []ChargeRequest     `json:"charges,omitempty"`
	// Seed is "prior_period" or "default_shares"; used only when Shares is empty.
	Seed string `json:"seed,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePeriodRequest) ToUseCaseInput() (usecase.CreatePeriodInput, error) {
	key, err := domain.ParseYearMonth(r.Period)
	if err != nil {
		return usecase.CreatePeriodInput{}, err
	}

	seed := usecase.SeedMode(r.Seed)
	switch seed {
	case usecase.SeedNone, usecase.SeedPriorPeriod, usecase.SeedDefaultShares:
	default:
		return usecase.CreatePeriodInput{}, fmt.Errorf("%w: %q", ErrUnknownSeed, r.Seed)
	}

	return usecase.CreatePeriodInput{
		Key:     key,
		Inputs:  r.Inputs.toDomain(),
		Shares:  shareEntries(r.Shares),
		Charges: charges(r.Charges),
		Seed:    seed,
	}, nil
}

// UpdatePeriodRequest replaces a stored month.
type UpdatePeriodRequest struct {
	Inputs          PeriodInputsRequest `json:"inputs"`
	Shares          []ShareEntryRequest `json:"shares"`
	Charges         []ChargeRequest     `json:"charges,omitempty"`
	ExpectedVersion int64               `json:"expected_version"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdatePeriodRequest) ToUseCaseInput(key domain.YearMonth) usecase.UpdatePeriodInput {
	return usecase.UpdatePeriodInput{
		Key:             key,
		Inputs:          r.Inputs.toDomain(),
		Shares:          shareEntries(r.Shares),
		Charges:         charges(r.Charges),
		ExpectedVersion: r.ExpectedVersion,
	}
}

// PreviewRequest calculates an unsaved month.
type PreviewRequest struct {
	Period  string              `json:"period"`
	Inputs  PeriodInputsRequest `json:"inputs"`
	Shares  []ShareEntryRequest `json:"shares"`
	Charges []ChargeRequest     `json:"charges,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PreviewRequest) ToUseCaseInput() (usecase.PreviewInput, error) {
	key, err := domain.ParseYearMonth(r.Period)
	if err != nil {
		return usecase.PreviewInput{}, err
	}

	return usecase.PreviewInput{
		Key:     key,
		Inputs:  r.Inputs.toDomain(),
		Shares:  shareEntries(r.Shares),
		Charges: charges(r.Charges),
	}, nil
}

func shareEntries(in []ShareEntryRequest) []domain.ShareEntry {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.ShareEntry, len(in))
	for i, s := range in {
		out[i] = domain.ShareEntry{HolderID: s.HolderID, Shares: s.Shares}
	}
	return out
}

func charges(in []ChargeRequest) []domain.PersonalCharge {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.PersonalCharge, len(in))
	for i, c := range in {
		out[i] = domain.PersonalCharge{HolderID: c.HolderID, Amount: c.Amount}
	}
	return out
}
