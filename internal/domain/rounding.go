package domain

import "github.com/shopspring/decimal"

// CentPlaces is the number of decimal places payouts are rounded to.
const CentPlaces int32 = 2

// RoundHalfUp rounds to the given places, moving ties away from zero.
// decimal.Round already rounds half away from zero; it is never banker's rounding.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Reconciliation summarises the rounding step of a period.
type Reconciliation struct {
	ExpectedRoundedTotal decimal.Decimal
	ActualRoundedTotal   decimal.Decimal
	Delta                decimal.Decimal
	// AdjustedIndex is the row that absorbed Delta, or -1.
	AdjustedIndex int
}

// Reconcile rounds every row's Payout into PayoutRounded and pushes the
// cent-level difference against the rounded total onto a single row.
//
// The absorbing row is the one with the largest strictly positive rounded
// payout; ties go to the last such row. When no row is positive the first row
// absorbs the delta whatever its sign.
func Reconcile(rows []HolderRow) Reconciliation {
	unrounded := decimal.Zero
	actual := decimal.Zero
	for i := range rows {
		unrounded = unrounded.Add(rows[i].Payout)
		rows[i].PayoutRounded = RoundHalfUp(rows[i].Payout, CentPlaces)
		rows[i].ReceivedRoundingAdjustment = false
		actual = actual.Add(rows[i].PayoutRounded)
	}

	target := RoundHalfUp(unrounded, CentPlaces)
	delta := RoundHalfUp(target.Sub(actual), CentPlaces)

	rec := Reconciliation{
		ExpectedRoundedTotal: target,
		Delta:                delta,
		AdjustedIndex:        -1,
	}

	if !delta.IsZero() && len(rows) > 0 {
		idx := absorbingRow(rows)
		rows[idx].PayoutRounded = rows[idx].PayoutRounded.Add(delta)
		rows[idx].ReceivedRoundingAdjustment = true
		rec.AdjustedIndex = idx
	}

	for i := range rows {
		rec.ActualRoundedTotal = rec.ActualRoundedTotal.Add(rows[i].PayoutRounded)
	}

	return rec
}

func absorbingRow(rows []HolderRow) int {
	idx := -1
	var best decimal.Decimal
	for i := range rows {
		p := rows[i].PayoutRounded
		if !p.IsPositive() {
			continue
		}
		if idx == -1 || p.GreaterThanOrEqual(best) {
			idx = i
			best = p
		}
	}
	if idx == -1 {
		return 0
	}
	return idx
}
