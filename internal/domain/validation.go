package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidPeriodKey     = errors.New("invalid period key")
	ErrInvalidHolderName    = errors.New("invalid holder name")
	ErrInvalidShares        = errors.New("shares must not be negative")
	ErrInvalidCharge        = errors.New("personal charge must not be negative")
	ErrInvalidHolderID      = errors.New("holder ID is required")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrInvalidDefaultShares = errors.New("default shares must be positive")
)

// Validation constants
const (
	MinPeriodYear       = 2000
	MaxPeriodYear       = 2100
	MaxHolderNameLength = 255
	MaxAbsAmount        = "10000000000" // 10 billion
)

var maxAbsAmount = decimal.RequireFromString(MaxAbsAmount)

// ValidateYearMonth validates a period key.
func ValidateYearMonth(ym YearMonth) error {
	if ym.Year < MinPeriodYear || ym.Year > MaxPeriodYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidPeriodKey, MinPeriodYear, MaxPeriodYear)
	}
	if ym.Month < 1 || ym.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidPeriodKey)
	}
	return nil
}

// ValidateHolderName validates and normalizes a holder name.
func ValidateHolderName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidHolderName)
	}

	if len(name) > MaxHolderNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidHolderName, MaxHolderNameLength)
	}

	return name, nil
}

// ValidateDefaultShares validates an optional default share count.
func ValidateDefaultShares(shares *decimal.Decimal) error {
	if shares != nil && !shares.IsPositive() {
		return ErrInvalidDefaultShares
	}
	return nil
}

// ValidateInputs bounds every period-level figure. Signs are free: the pool
// formula decides what each figure does.
func ValidateInputs(in PeriodInputs) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"net_income", in.NetIncome},
		{"pool_addback", in.PoolAddBack},
		{"owner_compensation", in.OwnerCompensation},
		{"tax_optimization_adj", in.TaxOptimizationAdj},
		{"uncollectible_adj", in.UncollectibleAdj},
		{"payout_addback", in.PayoutAddBack},
	}
	for _, f := range fields {
		if f.value.Abs().GreaterThan(maxAbsAmount) {
			return fmt.Errorf("%w: %s", ErrAmountTooLarge, f.name)
		}
	}
	return nil
}

// ValidateShareEntries checks the share entries of a period.
func ValidateShareEntries(entries []ShareEntry) error {
	for _, e := range entries {
		if strings.TrimSpace(e.HolderID) == "" {
			return ErrInvalidHolderID
		}
		if e.Shares.IsNegative() {
			return fmt.Errorf("%w: holder %s", ErrInvalidShares, e.HolderID)
		}
	}
	return nil
}

// ValidateCharges checks the personal charges of a period.
func ValidateCharges(charges []PersonalCharge) error {
	for _, c := range charges {
		if strings.TrimSpace(c.HolderID) == "" {
			return ErrInvalidHolderID
		}
		if c.Amount.IsNegative() {
			return fmt.Errorf("%w: holder %s", ErrInvalidCharge, c.HolderID)
		}
		if c.Amount.GreaterThan(maxAbsAmount) {
			return fmt.Errorf("%w: charge for holder %s", ErrAmountTooLarge, c.HolderID)
		}
	}
	return nil
}

// ValidatePeriod validates a period before it is stored.
func ValidatePeriod(p *Period) error {
	if err := ValidateYearMonth(p.Key); err != nil {
		return err
	}
	if err := ValidateInputs(p.Inputs); err != nil {
		return err
	}
	if err := ValidateShareEntries(p.Shares); err != nil {
		return err
	}
	return ValidateCharges(p.Charges)
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
