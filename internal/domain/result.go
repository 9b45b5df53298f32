package domain

import "github.com/shopspring/decimal"

// CarryForward maps holder IDs to a non-negative deficit owed back to the pool.
// It is derived by replaying history and is never persisted.
type CarryForward map[string]decimal.Decimal

// Clone returns an independent copy.
func (c CarryForward) Clone() CarryForward {
	out := make(CarryForward, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Get returns the amount for a holder, zero when absent.
func (c CarryForward) Get(holderID string) decimal.Decimal {
	if v, ok := c[holderID]; ok {
		return v
	}
	return decimal.Zero
}

// Total sums all outstanding amounts.
func (c CarryForward) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range c {
		total = total.Add(v)
	}
	return total
}

// HolderRow is one holder's line in a period calculation.
type HolderRow struct {
	HolderID       string
	Shares         decimal.Decimal
	ShareRatio     decimal.Decimal
	PreShare       decimal.Decimal
	PersonalCharge decimal.Decimal
	CarryForwardIn decimal.Decimal
	// PayoutRaw may be negative; Payout is PayoutRaw floored at zero, unrounded.
	PayoutRaw                  decimal.Decimal
	Payout                     decimal.Decimal
	PayoutRounded              decimal.Decimal
	CarryForwardOut            decimal.Decimal
	ReceivedRoundingAdjustment bool
}

// PeriodResult is the reconciled payout schedule for one period.
type PeriodResult struct {
	Key                  YearMonth
	AdjustedPool         decimal.Decimal
	PersonalAddBackTotal decimal.Decimal
	TotalShares          decimal.Decimal
	ExpectedRoundedTotal decimal.Decimal
	ActualRoundedTotal   decimal.Decimal
	RoundingDelta        decimal.Decimal
	// AdjustedHolderID is empty when no rounding adjustment was applied.
	AdjustedHolderID string
	Rows             []HolderRow
}

// Row returns the row for a holder.
func (r *PeriodResult) Row(holderID string) (HolderRow, bool) {
	for _, row := range r.Rows {
		if row.HolderID == holderID {
			return row, true
		}
	}
	return HolderRow{}, false
}

// CarryForwardOut collects the holders that leave the period with a deficit.
// Holders whose deficit is fully repaid are dropped, not kept at zero.
func (r *PeriodResult) CarryForwardOut() CarryForward {
	out := make(CarryForward)
	for _, row := range r.Rows {
		if row.CarryForwardOut.IsPositive() {
			out[row.HolderID] = row.CarryForwardOut
		}
	}
	return out
}
