package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMoneyFormatter(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   decimal.Decimal
		want     string
	}{
		{"usd with grouping", "USD", d("1234.56"), "$1,234.56"},
		{"usd rounds to cents", "USD", d("0.005"), "$0.01"},
		{"unknown currency falls back", "XXX-NOPE", d("12.3"), "12.30"},
		{"past int64 minor units falls back", "USD", d("100000000000000000000"), "100000000000000000000.00"},
		{"negative past int64 minor units falls back", "USD", d("-100000000000000000000.5"), "-100000000000000000000.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMoneyFormatter(tt.currency).Format(tt.amount); got != tt.want {
				t.Fatalf("Format(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}

	if got := NewMoneyFormatter("XXX-NOPE").Currency(); got != "" {
		t.Fatalf("expected empty currency for unknown code, got %q", got)
	}
}

func TestPeriodFromDomain(t *testing.T) {
	now := time.Now()
	period := &domain.Period{
		ID:        "p-1",
		Key:       domain.NewYearMonth(2024, time.January),
		Inputs:    domain.PeriodInputs{NetIncome: d("1000")},
		Shares:    []domain.ShareEntry{{HolderID: "A", Shares: d("1")}},
		Charges:   []domain.PersonalCharge{{HolderID: "A", Amount: d("5")}},
		Version:   3,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := PeriodFromDomain(period)
	if resp.Period != "2024-01" || resp.Version != 3 || len(resp.Shares) != 1 || len(resp.Charges) != 1 {
		t.Fatalf("unexpected period response: %+v", resp)
	}

	list := PeriodsFromDomain([]*domain.Period{period})
	if len(list) != 1 || list[0].ID != "p-1" {
		t.Fatalf("PeriodsFromDomain returned %+v", list)
	}
}

func TestResultFromDomain(t *testing.T) {
	res := domain.Calculate(domain.CalculationInput{
		Key:     domain.NewYearMonth(2024, time.January),
		Inputs:  domain.PeriodInputs{NetIncome: d("1000")},
		Shares:  []domain.ShareEntry{{HolderID: "A", Shares: d("1")}, {HolderID: "B", Shares: d("1")}},
		Charges: []domain.PersonalCharge{{HolderID: "A", Amount: d("2000")}},
	})

	resp := ResultFromDomain(&res, NewMoneyFormatter("USD"))

	if resp.Period != "2024-01" || resp.AdjustedPoolFormatted != "$3,000.00" {
		t.Fatalf("unexpected result header: %+v", resp)
	}

	if len(resp.Rows) != 2 || resp.Rows[1].PayoutFormatted != "$1,500.00" {
		t.Fatalf("unexpected rows: %+v", resp.Rows)
	}

	if len(resp.CarryForwardOut) != 1 || resp.CarryForwardOut[0].HolderID != "A" ||
		!resp.CarryForwardOutTotal.Equal(d("500")) {
		t.Fatalf("unexpected carry-forward: %+v", resp.CarryForwardOut)
	}
}

func TestCarryForwardEntriesSortedByHolder(t *testing.T) {
	cf := domain.CarryForward{"zed": d("1"), "amy": d("2.5")}

	resp := CarryForwardFromDomain("2024-02", cf, NewMoneyFormatter("USD"))
	if len(resp.Holders) != 2 || resp.Holders[0].HolderID != "amy" || resp.Holders[1].HolderID != "zed" {
		t.Fatalf("expected holders sorted by ID, got %+v", resp.Holders)
	}

	if resp.TotalFormatted != "$3.50" {
		t.Fatalf("expected total $3.50, got %s", resp.TotalFormatted)
	}
}

func TestGridFromUseCase(t *testing.T) {
	grid := &usecase.YearGrid{
		Year:   2024,
		Months: []int{1},
		Rows:   []usecase.GridRow{{HolderID: "A", Total: d("10")}},
		Total:  d("10"),
	}
	grid.Rows[0].Payouts[0] = d("10")
	grid.MonthTotals[0] = d("10")

	resp := GridFromUseCase(grid, NewMoneyFormatter("EUR"))
	if len(resp.Rows) != 1 || len(resp.Rows[0].Payouts) != 12 || len(resp.MonthTotals) != 12 {
		t.Fatalf("expected 12 monthly columns, got %+v", resp)
	}

	if resp.Currency != "EUR" || !resp.Rows[0].Payouts[0].Equal(d("10")) {
		t.Fatalf("unexpected grid response: %+v", resp)
	}
}

func TestReconciliationFromUseCase(t *testing.T) {
	report := &usecase.ReconciliationReport{
		PeriodsChecked:    2,
		ReconciledPeriods: 1,
		Discrepancies: []usecase.Discrepancy{{
			Period:   domain.NewYearMonth(2024, time.February),
			Check:    usecase.CheckChaining,
			HolderID: "A",
			Detail:   "carry-in 0 does not match prior carry-out 500",
		}},
		TotalPaid: d("100"),
	}

	resp := ReconciliationFromUseCase(report, NewMoneyFormatter("USD"))
	if resp.Consistent {
		t.Fatalf("expected inconsistent report")
	}

	if len(resp.Discrepancies) != 1 || resp.Discrepancies[0].Period != "2024-02" ||
		resp.Discrepancies[0].Check != string(usecase.CheckChaining) {
		t.Fatalf("unexpected discrepancies: %+v", resp.Discrepancies)
	}

	if resp.TotalPaidFormatted != "$100.00" {
		t.Fatalf("expected formatted total, got %s", resp.TotalPaidFormatted)
	}
}
