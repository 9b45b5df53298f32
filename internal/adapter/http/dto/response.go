package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HolderResponse represents a holder in API responses.
type HolderResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	DefaultShares *decimal.Decimal `json:"default_shares,omitempty"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// HolderFromDomain converts a domain holder to a response.
func HolderFromDomain(h *domain.Holder) *HolderResponse {
	return &HolderResponse{
		ID:            h.ID,
		Name:          h.Name,
		DefaultShares: h.DefaultShares,
		Active:        h.Active,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// HoldersFromDomain converts domain holders to responses.
func HoldersFromDomain(holders []*domain.Holder) []*HolderResponse {
	result := make([]*HolderResponse, len(holders))
	for i, h := range holders {
		result[i] = HolderFromDomain(h)
	}
	return result
}

// ListHoldersResponse wraps a holder list.
type ListHoldersResponse struct {
	Holders []*HolderResponse `json:"holders"`
	Total   int64             `json:"total"`
}

// PeriodInputsResponse mirrors the stored monthly figures.
type PeriodInputsResponse struct {
	NetIncome          decimal.Decimal `json:"net_income"`
	PoolAddBack        decimal.Decimal `json:"pool_addback"`
	OwnerCompensation  decimal.Decimal `json:"owner_compensation"`
	TaxOptimizationAdj decimal.Decimal `json:"tax_optimization_adj"`
	UncollectibleAdj   decimal.Decimal `json:"uncollectible_adj"`
	PayoutAddBack      decimal.Decimal `json:"payout_addback"`
}

// PeriodResponse represents a stored period.
type PeriodResponse struct {
	ID        string               `json:"id"`
	Period    string               `json:"period"`
	Inputs    PeriodInputsResponse `json:"inputs"`
	Shares    []ShareEntryRequest  `json:"shares"`
	Charges   []ChargeRequest      `json:"charges"`
	Version   int64                `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// PeriodFromDomain converts a domain period to a response.
func PeriodFromDomain(p *domain.Period) *PeriodResponse {
	resp := &PeriodResponse{
		ID:     p.ID,
		Period: p.Key.String(),
		Inputs: PeriodInputsResponse{
			NetIncome:          p.Inputs.NetIncome,
			PoolAddBack:        p.Inputs.PoolAddBack,
			OwnerCompensation:  p.Inputs.OwnerCompensation,
			TaxOptimizationAdj: p.Inputs.TaxOptimizationAdj,
			UncollectibleAdj:   p.Inputs.UncollectibleAdj,
			PayoutAddBack:      p.Inputs.PayoutAddBack,
		},
		Shares:    make([]ShareEntryRequest, len(p.Shares)),
		Charges:   make([]ChargeRequest, len(p.Charges)),
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for i, s := range p.Shares {
		resp.Shares[i] = ShareEntryRequest{HolderID: s.HolderID, Shares: s.Shares}
	}
	for i, c := range p.Charges {
		resp.Charges[i] = ChargeRequest{HolderID: c.HolderID, Amount: c.Amount}
	}
	return resp
}

// PeriodsFromDomain converts domain periods to responses.
func PeriodsFromDomain(periods []*domain.Period) []*PeriodResponse {
	result := make([]*PeriodResponse, len(periods))
	for i, p := range periods {
		result[i] = PeriodFromDomain(p)
	}
	return result
}

// ListPeriodsResponse wraps a period list.
type ListPeriodsResponse struct {
	Periods []*PeriodResponse `json:"periods"`
	Total   int64             `json:"total"`
}

// HolderRowResponse is one holder's line of a calculation.
type HolderRowResponse struct {
	HolderID                   string          `json:"holder_id"`
	Shares                     decimal.Decimal `json:"shares"`
	ShareRatio                 decimal.Decimal `json:"share_ratio"`
	PreShare                   decimal.Decimal `json:"pre_share"`
	PersonalCharge             decimal.Decimal `json:"personal_charge"`
	CarryForwardIn             decimal.Decimal `json:"carry_forward_in"`
	PayoutRaw                  decimal.Decimal `json:"payout_raw"`
	Payout                     decimal.Decimal `json:"payout"`
	PayoutRounded              decimal.Decimal `json:"payout_rounded"`
	PayoutFormatted            string          `json:"payout_formatted"`
	CarryForwardOut            decimal.Decimal `json:"carry_forward_out"`
	ReceivedRoundingAdjustment bool            `json:"received_rounding_adjustment"`
}

// PeriodResultResponse is the payout schedule of one period.
type PeriodResultResponse struct {
	Period                   string              `json:"period"`
	AdjustedPool             decimal.Decimal     `json:"adjusted_pool"`
	AdjustedPoolFormatted    string              `json:"adjusted_pool_formatted"`
	PersonalAddBackTotal     decimal.Decimal     `json:"personal_addback_total"`
	TotalShares              decimal.Decimal     `json:"total_shares"`
	ExpectedRoundedTotal     decimal.Decimal     `json:"expected_rounded_total"`
	ActualRoundedTotal       decimal.Decimal     `json:"actual_rounded_total"`
	ActualRoundedFormatted   string              `json:"actual_rounded_total_formatted"`
	RoundingDelta            decimal.Decimal     `json:"rounding_delta"`
	AdjustedHolderID         string              `json:"adjusted_holder_id,omitempty"`
	Rows                     []HolderRowResponse `json:"rows"`
	CarryForwardOut          []CarryForwardEntry `json:"carry_forward_out"`
	CarryForwardOutTotal     decimal.Decimal     `json:"carry_forward_out_total"`
	CarryForwardOutFormatted string              `json:"carry_forward_out_total_formatted"`
}

// ResultFromDomain converts a calculation result to a response.
func ResultFromDomain(res *domain.PeriodResult, f MoneyFormatter) *PeriodResultResponse {
	carry := res.CarryForwardOut()
	resp := &PeriodResultResponse{
		Period:                   res.Key.String(),
		AdjustedPool:             res.AdjustedPool,
		AdjustedPoolFormatted:    f.Format(res.AdjustedPool),
		PersonalAddBackTotal:     res.PersonalAddBackTotal,
		TotalShares:              res.TotalShares,
		ExpectedRoundedTotal:     res.ExpectedRoundedTotal,
		ActualRoundedTotal:       res.ActualRoundedTotal,
		ActualRoundedFormatted:   f.Format(res.ActualRoundedTotal),
		RoundingDelta:            res.RoundingDelta,
		AdjustedHolderID:         res.AdjustedHolderID,
		Rows:                     make([]HolderRowResponse, len(res.Rows)),
		CarryForwardOut:          CarryForwardEntries(carry, f),
		CarryForwardOutTotal:     carry.Total(),
		CarryForwardOutFormatted: f.Format(carry.Total()),
	}

	for i, row := range res.Rows {
		resp.Rows[i] = HolderRowResponse{
			HolderID:                   row.HolderID,
			Shares:                     row.Shares,
			ShareRatio:                 row.ShareRatio,
			PreShare:                   row.PreShare,
			PersonalCharge:             row.PersonalCharge,
			CarryForwardIn:             row.CarryForwardIn,
			PayoutRaw:                  row.PayoutRaw,
			Payout:                     row.Payout,
			PayoutRounded:              row.PayoutRounded,
			PayoutFormatted:            f.Format(row.PayoutRounded),
			CarryForwardOut:            row.CarryForwardOut,
			ReceivedRoundingAdjustment: row.ReceivedRoundingAdjustment,
		}
	}

	return resp
}

// ResultsFromDomain converts a replayed history to responses.
func ResultsFromDomain(results []domain.PeriodResult, f MoneyFormatter) []*PeriodResultResponse {
	out := make([]*PeriodResultResponse, len(results))
	for i := range results {
		out[i] = ResultFromDomain(&results[i], f)
	}
	return out
}

// HistoryResponse is the full replayed history.
type HistoryResponse struct {
	Currency string                  `json:"currency,omitempty"`
	Periods  []*PeriodResultResponse `json:"periods"`
}

// PoolBreakdownResponse shows how the adjusted pool was assembled.
type PoolBreakdownResponse struct {
	NetIncome             decimal.Decimal `json:"net_income"`
	PoolAddBack           decimal.Decimal `json:"pool_addback"`
	PersonalAddBackTotal  decimal.Decimal `json:"personal_addback_total"`
	TaxOptimizationAdj    decimal.Decimal `json:"tax_optimization_adj"`
	PayoutAddBack         decimal.Decimal `json:"payout_addback"`
	OwnerCompensation     decimal.Decimal `json:"owner_compensation"`
	UncollectibleAdj      decimal.Decimal `json:"uncollectible_adj"`
	AdjustedPool          decimal.Decimal `json:"adjusted_pool"`
	AdjustedPoolFormatted string          `json:"adjusted_pool_formatted"`
}

// PeriodSummaryResponse pairs a stored period with its calculation.
type PeriodSummaryResponse struct {
	Period *PeriodResponse       `json:"period"`
	Pool   PoolBreakdownResponse `json:"pool"`
	Result *PeriodResultResponse `json:"result"`
}

// SummaryFromUseCase converts a period summary to a response.
func SummaryFromUseCase(s *usecase.PeriodSummary, f MoneyFormatter) *PeriodSummaryResponse {
	in := s.Period.Inputs
	return &PeriodSummaryResponse{
		Period: PeriodFromDomain(s.Period),
		Pool: PoolBreakdownResponse{
			NetIncome:             in.NetIncome,
			PoolAddBack:           in.PoolAddBack,
			PersonalAddBackTotal:  s.Result.PersonalAddBackTotal,
			TaxOptimizationAdj:    in.TaxOptimizationAdj,
			PayoutAddBack:         in.PayoutAddBack,
			OwnerCompensation:     in.OwnerCompensation,
			UncollectibleAdj:      in.UncollectibleAdj,
			AdjustedPool:          s.Result.AdjustedPool,
			AdjustedPoolFormatted: f.Format(s.Result.AdjustedPool),
		},
		Result: ResultFromDomain(&s.Result, f),
	}
}

// CarryForwardEntry is one holder's outstanding deficit.
type CarryForwardEntry struct {
	HolderID        string          `json:"holder_id"`
	Amount          decimal.Decimal `json:"amount"`
	AmountFormatted string          `json:"amount_formatted"`
}

// CarryForwardEntries lists a carry-forward map ordered by holder ID.
func CarryForwardEntries(cf domain.CarryForward, f MoneyFormatter) []CarryForwardEntry {
	ids := make([]string, 0, len(cf))
	for id := range cf {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]CarryForwardEntry, len(ids))
	for i, id := range ids {
		out[i] = CarryForwardEntry{HolderID: id, Amount: cf[id], AmountFormatted: f.Format(cf[id])}
	}
	return out
}

// CarryForwardResponse is the outstanding debt after a given month.
type CarryForwardResponse struct {
	AsOf           string              `json:"as_of,omitempty"`
	Holders        []CarryForwardEntry `json:"holders"`
	Total          decimal.Decimal     `json:"total"`
	TotalFormatted string              `json:"total_formatted"`
}

// CarryForwardFromDomain converts a carry-forward map to a response.
func CarryForwardFromDomain(asOf string, cf domain.CarryForward, f MoneyFormatter) *CarryForwardResponse {
	return &CarryForwardResponse{
		AsOf:           asOf,
		Holders:        CarryForwardEntries(cf, f),
		Total:          cf.Total(),
		TotalFormatted: f.Format(cf.Total()),
	}
}

// GridRowResponse is one holder's payouts across a year.
type GridRowResponse struct {
	HolderID       string            `json:"holder_id"`
	Payouts        []decimal.Decimal `json:"payouts"`
	Total          decimal.Decimal   `json:"total"`
	TotalFormatted string            `json:"total_formatted"`
}

// YearGridResponse is the holder by month payout table.
type YearGridResponse struct {
	Year            int                 `json:"year"`
	Currency        string              `json:"currency,omitempty"`
	Months          []int               `json:"months"`
	Rows            []GridRowResponse   `json:"rows"`
	MonthTotals     []decimal.Decimal   `json:"month_totals"`
	Total           decimal.Decimal     `json:"total"`
	TotalFormatted  string              `json:"total_formatted"`
	CarryForwardOut []CarryForwardEntry `json:"carry_forward_out"`
}

// GridFromUseCase converts a year grid to a response.
func GridFromUseCase(g *usecase.YearGrid, f MoneyFormatter) *YearGridResponse {
	resp := &YearGridResponse{
		Year:            g.Year,
		Currency:        f.Currency(),
		Months:          g.Months,
		Rows:            make([]GridRowResponse, len(g.Rows)),
		MonthTotals:     g.MonthTotals[:],
		Total:           g.Total,
		TotalFormatted:  f.Format(g.Total),
		CarryForwardOut: CarryForwardEntries(g.CarryForwardOut, f),
	}
	if resp.Months == nil {
		resp.Months = []int{}
	}

	for i, row := range g.Rows {
		resp.Rows[i] = GridRowResponse{
			HolderID:       row.HolderID,
			Payouts:        row.Payouts[:],
			Total:          row.Total,
			TotalFormatted: f.Format(row.Total),
		}
	}

	return resp
}

// DiscrepancyResponse is one failed reconciliation check.
type DiscrepancyResponse struct {
	Period   string `json:"period"`
	Check    string `json:"check"`
	HolderID string `json:"holder_id,omitempty"`
	Detail   string `json:"detail"`
}

// ReconciliationResponse is the result of replaying and checking history.
type ReconciliationResponse struct {
	Consistent          bool                  `json:"consistent"`
	PeriodsChecked      int                   `json:"periods_checked"`
	ReconciledPeriods   int                   `json:"reconciled_periods"`
	Discrepancies       []DiscrepancyResponse `json:"discrepancies"`
	OutstandingHolders  int                   `json:"outstanding_holders"`
	OutstandingTotal    decimal.Decimal       `json:"outstanding_total"`
	TotalPaid           decimal.Decimal       `json:"total_paid"`
	TotalPaidFormatted  string                `json:"total_paid_formatted"`
	RoundingAdjustments int                   `json:"rounding_adjustments"`
	CheckedAt           time.Time             `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation report to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport, f MoneyFormatter) *ReconciliationResponse {
	resp := &ReconciliationResponse{
		Consistent:          r.Consistent(),
		PeriodsChecked:      r.PeriodsChecked,
		ReconciledPeriods:   r.ReconciledPeriods,
		Discrepancies:       make([]DiscrepancyResponse, len(r.Discrepancies)),
		OutstandingHolders:  r.OutstandingHolders,
		OutstandingTotal:    r.OutstandingTotal,
		TotalPaid:           r.TotalPaid,
		TotalPaidFormatted:  f.Format(r.TotalPaid),
		RoundingAdjustments: r.RoundingAdjustments,
		CheckedAt:           r.CheckedAt,
	}

	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = DiscrepancyResponse{
			Period:   d.Period.String(),
			Check:    string(d.Check),
			HolderID: d.HolderID,
			Detail:   d.Detail,
		}
	}

	return resp
}
