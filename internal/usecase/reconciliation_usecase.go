package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
)

// ReconciliationUseCase audits replayed history against the engine's invariants.
type ReconciliationUseCase struct {
	history HistoryProvider
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(history HistoryProvider) *ReconciliationUseCase {
	return &ReconciliationUseCase{history: history}
}

// Check names an invariant verified per period.
type Check string

const (
	CheckZeroFloor        Check = "zero_floor"
	CheckDebtConservation Check = "debt_conservation"
	CheckChaining         Check = "chaining"
	CheckRoundedTotal     Check = "rounded_total"
)

// Discrepancy is a single failed check.
type Discrepancy struct {
	Period   domain.YearMonth
	Check    Check
	HolderID string
	Detail   string
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	PeriodsChecked      int
	ReconciledPeriods   int
	Discrepancies       []Discrepancy
	OutstandingHolders  int
	OutstandingTotal    decimal.Decimal
	TotalPaid           decimal.Decimal
	RoundingAdjustments int
	CheckedAt           time.Time
}

// Consistent reports whether no check failed.
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}

// GenerateReconciliationReport replays history and verifies every period.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.history.History(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		PeriodsChecked:   len(results),
		Discrepancies:    make([]Discrepancy, 0),
		OutstandingTotal: decimal.Zero,
		TotalPaid:        decimal.Zero,
		CheckedAt:        time.Now().UTC(),
	}

	prev := domain.CarryForward{}
	for i := range results {
		res := &results[i]
		found := CheckPeriod(res, prev)
		if len(found) == 0 {
			report.ReconciledPeriods++
		}
		report.Discrepancies = append(report.Discrepancies, found...)

		report.TotalPaid = report.TotalPaid.Add(res.ActualRoundedTotal)
		if res.AdjustedHolderID != "" {
			report.RoundingAdjustments++
		}
		prev = res.CarryForwardOut()
	}

	report.OutstandingHolders = len(prev)
	report.OutstandingTotal = prev.Total()

	return report, nil
}

// CheckPeriod verifies one result given the carry state that entered it.
func CheckPeriod(res *domain.PeriodResult, carryIn domain.CarryForward) []Discrepancy {
	var out []Discrepancy
	fail := func(check Check, holderID, format string, args ...any) {
		out = append(out, Discrepancy{
			Period:   res.Key,
			Check:    check,
			HolderID: holderID,
			Detail:   fmt.Sprintf(format, args...),
		})
	}

	rounded := decimal.Zero
	for _, row := range res.Rows {
		if row.PayoutRounded.IsNegative() {
			fail(CheckZeroFloor, row.HolderID, "rounded payout %s is negative", row.PayoutRounded)
		}

		want := decimal.Max(decimal.Zero, row.PayoutRaw.Neg())
		if !row.CarryForwardOut.Equal(want) {
			fail(CheckDebtConservation, row.HolderID, "carry-forward out %s, want %s", row.CarryForwardOut, want)
		}

		if !row.CarryForwardIn.Equal(carryIn.Get(row.HolderID)) {
			fail(CheckChaining, row.HolderID, "carry-forward in %s, previous period left %s",
				row.CarryForwardIn, carryIn.Get(row.HolderID))
		}

		rounded = rounded.Add(row.PayoutRounded)
	}

	for holderID := range carryIn {
		if _, ok := res.Row(holderID); !ok {
			fail(CheckChaining, holderID, "outstanding carry-forward %s dropped", carryIn[holderID])
		}
	}

	if len(res.Rows) > 0 && !rounded.Equal(res.ExpectedRoundedTotal) {
		fail(CheckRoundedTotal, "", "rounded payouts sum to %s, want %s", rounded, res.ExpectedRoundedTotal)
	}

	return out
}
