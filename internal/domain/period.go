package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// YearMonth identifies a calendar month. It orders by year, then month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth creates a YearMonth.
func NewYearMonth(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// ParseYearMonth parses a YYYY-MM key.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Compare returns -1, 0 or 1 when ym is before, equal to or after other.
func (ym YearMonth) Compare(other YearMonth) int {
	switch {
	case ym.Year < other.Year:
		return -1
	case ym.Year > other.Year:
		return 1
	case ym.Month < other.Month:
		return -1
	case ym.Month > other.Month:
		return 1
	default:
		return 0
	}
}

// Before reports whether ym is strictly earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Compare(other) < 0
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// String returns the zero-padded YYYY-MM form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// PeriodInputs are the period-level financial figures feeding the pool.
type PeriodInputs struct {
	NetIncome          decimal.Decimal
	PoolAddBack        decimal.Decimal
	OwnerCompensation  decimal.Decimal
	TaxOptimizationAdj decimal.Decimal
	UncollectibleAdj   decimal.Decimal
	PayoutAddBack      decimal.Decimal
}

// ShareEntry assigns shares to a holder for one period.
type ShareEntry struct {
	HolderID string
	Shares   decimal.Decimal
}

// PersonalCharge is an amount attributable to one holder for one period.
type PersonalCharge struct {
	HolderID string
	Amount   decimal.Decimal
}

// PeriodRecord is one period as consumed by the sequence runner.
type PeriodRecord struct {
	Key     YearMonth
	Inputs  PeriodInputs
	Shares  []ShareEntry
	Charges []PersonalCharge
}

// Period is the persisted form of a period.
type Period struct {
	ID        string
	Key       YearMonth
	Inputs    PeriodInputs
	Shares    []ShareEntry
	Charges   []PersonalCharge
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Record returns the calculation input view of the period.
func (p *Period) Record() PeriodRecord {
	return PeriodRecord{
		Key:     p.Key,
		Inputs:  p.Inputs,
		Shares:  p.Shares,
		Charges: p.Charges,
	}
}

// Records converts periods to runner input, keeping their order.
func Records(periods []*Period) []PeriodRecord {
	records := make([]PeriodRecord, len(periods))
	for i, p := range periods {
		records[i] = p.Record()
	}
	return records
}
