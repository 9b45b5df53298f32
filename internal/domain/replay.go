package domain

import (
	"slices"
	"sync"
)

// ReplayCache memoizes the last sequence run and replays only the suffix that
// may have changed. Output is always identical to RunSequence on the same input.
//
// A cached period is reused while it precedes the dirty-from watermark and its
// record matches the one given to Run at the same position.
type ReplayCache struct {
	mu        sync.Mutex
	records   []PeriodRecord
	results   []PeriodResult
	dirtyFrom *YearMonth
}

// NewReplayCache creates an empty ReplayCache.
func NewReplayCache() *ReplayCache {
	return &ReplayCache{}
}

// MarkDirty forces recalculation of every period at or after from.
func (c *ReplayCache) MarkDirty(from YearMonth) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dirtyFrom == nil || from.Before(*c.dirtyFrom) {
		f := from
		c.dirtyFrom = &f
	}
}

// Run returns results for periods and how many of them were recalculated.
func (c *ReplayCache) Run(periods []PeriodRecord) ([]PeriodResult, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := 0
	for start < len(periods) && start < len(c.records) {
		if c.dirtyFrom != nil && !periods[start].Key.Before(*c.dirtyFrom) {
			break
		}
		if !recordsEqual(periods[start], c.records[start]) {
			break
		}
		start++
	}

	carry := CarryForward{}
	if start > 0 {
		carry = c.results[start-1].CarryForwardOut()
	}

	results := make([]PeriodResult, 0, len(periods))
	results = append(results, c.results[:start]...)
	for _, p := range periods[start:] {
		res := Calculate(CalculationInput{
			Key:            p.Key,
			Inputs:         p.Inputs,
			Shares:         p.Shares,
			Charges:        p.Charges,
			CarryForwardIn: carry.Clone(),
		})
		results = append(results, res)
		carry = res.CarryForwardOut()
	}

	c.records = make([]PeriodRecord, len(periods))
	for i, p := range periods {
		c.records[i] = cloneRecord(p)
	}
	c.results = results
	c.dirtyFrom = nil

	out := make([]PeriodResult, len(results))
	for i, r := range results {
		r.Rows = slices.Clone(r.Rows)
		out[i] = r
	}

	return out, len(periods) - start
}

func cloneRecord(p PeriodRecord) PeriodRecord {
	p.Shares = slices.Clone(p.Shares)
	p.Charges = slices.Clone(p.Charges)
	return p
}

func recordsEqual(a, b PeriodRecord) bool {
	if a.Key != b.Key || !inputsEqual(a.Inputs, b.Inputs) {
		return false
	}
	if !slices.EqualFunc(a.Shares, b.Shares, func(x, y ShareEntry) bool {
		return x.HolderID == y.HolderID && x.Shares.Equal(y.Shares)
	}) {
		return false
	}
	return slices.EqualFunc(a.Charges, b.Charges, func(x, y PersonalCharge) bool {
		return x.HolderID == y.HolderID && x.Amount.Equal(y.Amount)
	})
}

func inputsEqual(a, b PeriodInputs) bool {
	return a.NetIncome.Equal(b.NetIncome) &&
		a.PoolAddBack.Equal(b.PoolAddBack) &&
		a.OwnerCompensation.Equal(b.OwnerCompensation) &&
		a.TaxOptimizationAdj.Equal(b.TaxOptimizationAdj) &&
		a.UncollectibleAdj.Equal(b.UncollectibleAdj) &&
		a.PayoutAddBack.Equal(b.PayoutAddBack)
}
