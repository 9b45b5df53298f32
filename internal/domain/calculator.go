package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// divisionPrecision bounds the digits kept by share-ratio divisions.
const divisionPrecision int32 = 16

// CalculationInput is everything needed to calculate one period.
type CalculationInput struct {
	Key            YearMonth
	Inputs         PeriodInputs
	Shares         []ShareEntry
	Charges        []PersonalCharge
	CarryForwardIn CarryForward
}

// AdjustedPool applies add-backs and deductions to net income.
// The personal add-back total is the sum of every holder's personal charge.
func AdjustedPool(in PeriodInputs, personalAddBackTotal decimal.Decimal) decimal.Decimal {
	return in.NetIncome.
		Add(in.PoolAddBack).
		Add(personalAddBackTotal).
		Add(in.TaxOptimizationAdj).
		Add(in.PayoutAddBack).
		Sub(in.OwnerCompensation).
		Sub(in.UncollectibleAdj)
}

// Calculate produces the reconciled payout schedule of a single period.
//
// It never fails: zero total shares yields a zero share ratio for everyone,
// missing holder figures default to zero and negative carry-forward values are
// treated as zero. Negative shares or charges are not rejected here.
func Calculate(in CalculationInput) PeriodResult {
	holders, shares, charges := aggregate(in)

	personalAddBackTotal := decimal.Zero
	for _, id := range holders {
		personalAddBackTotal = personalAddBackTotal.Add(charges[id])
	}
	pool := AdjustedPool(in.Inputs, personalAddBackTotal)

	totalShares := decimal.Zero
	for _, id := range holders {
		totalShares = totalShares.Add(shares[id])
	}

	rows := make([]HolderRow, 0, len(holders))
	for _, id := range holders {
		carryIn := in.CarryForwardIn.Get(id)
		if carryIn.IsNegative() {
			carryIn = decimal.Zero
		}

		ratio, preShare := decimal.Zero, decimal.Zero
		if totalShares.IsPositive() {
			ratio = shares[id].DivRound(totalShares, divisionPrecision)
			preShare = pool.Mul(shares[id]).DivRound(totalShares, divisionPrecision)
		}

		raw := preShare.Sub(charges[id]).Sub(carryIn)
		row := HolderRow{
			HolderID:        id,
			Shares:          shares[id],
			ShareRatio:      ratio,
			PreShare:        preShare,
			PersonalCharge:  charges[id],
			CarryForwardIn:  carryIn,
			PayoutRaw:       raw,
			Payout:          decimal.Max(decimal.Zero, raw),
			CarryForwardOut: decimal.Max(decimal.Zero, raw.Neg()),
		}
		rows = append(rows, row)
	}

	rec := Reconcile(rows)

	result := PeriodResult{
		Key:                  in.Key,
		AdjustedPool:         pool,
		PersonalAddBackTotal: personalAddBackTotal,
		TotalShares:          totalShares,
		ExpectedRoundedTotal: rec.ExpectedRoundedTotal,
		ActualRoundedTotal:   rec.ActualRoundedTotal,
		RoundingDelta:        rec.Delta,
		Rows:                 rows,
	}
	if rec.AdjustedIndex >= 0 {
		result.AdjustedHolderID = rows[rec.AdjustedIndex].HolderID
	}

	return result
}

// aggregate sums entries per holder and fixes the iteration order: first
// appearance among share entries, then charge entries, then the remaining
// carry-forward holders by ID.
func aggregate(in CalculationInput) ([]string, map[string]decimal.Decimal, map[string]decimal.Decimal) {
	var order []string
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	shares := make(map[string]decimal.Decimal)
	for _, e := range in.Shares {
		add(e.HolderID)
		shares[e.HolderID] = shares[e.HolderID].Add(e.Shares)
	}

	charges := make(map[string]decimal.Decimal)
	for _, c := range in.Charges {
		add(c.HolderID)
		charges[c.HolderID] = charges[c.HolderID].Add(c.Amount)
	}

	carried := make([]string, 0, len(in.CarryForwardIn))
	for id := range in.CarryForwardIn {
		if !seen[id] {
			carried = append(carried, id)
		}
	}
	sort.Strings(carried)
	for _, id := range carried {
		add(id)
	}

	return order, shares, charges
}
