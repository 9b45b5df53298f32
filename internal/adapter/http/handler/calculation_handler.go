package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// CalculationService defines the behavior needed by CalculationHandler.
type CalculationService interface {
	History(ctx context.Context) ([]domain.PeriodResult, error)
	CalculatePeriod(ctx context.Context, key domain.YearMonth) (*domain.PeriodResult, error)
	Summary(ctx context.Context, key domain.YearMonth) (*usecase.PeriodSummary, error)
	Preview(ctx context.Context, input usecase.PreviewInput) (*domain.PeriodResult, error)
	CarryForwardAsOf(ctx context.Context, key domain.YearMonth) (domain.CarryForward, error)
	OutstandingCarryForward(ctx context.Context) (domain.CarryForward, error)
	YearGrid(ctx context.Context, year int) (*usecase.YearGrid, error)
}

// CalculationHandler serves payout calculations derived from stored periods.
type CalculationHandler struct {
	calcUC CalculationService
	money  dto.MoneyFormatter
}

// NewCalculationHandler creates a new CalculationHandler.
func NewCalculationHandler(calcUC CalculationService, money dto.MoneyFormatter) *CalculationHandler {
	return &CalculationHandler{calcUC: calcUC, money: money}
}

// History replays every stored period.
func (h *CalculationHandler) History(w http.ResponseWriter, r *http.Request) {
	results, err := h.calcUC.History(r.Context())
	if err != nil {
		writeDomainError(w, "failed to replay history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Currency: h.money.Currency(),
		Periods:  dto.ResultsFromDomain(results, h.money),
	})
}

// Period returns the calculation of one stored period.
func (h *CalculationHandler) Period(w http.ResponseWriter, r *http.Request) {
	key, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	result, err := h.calcUC.CalculatePeriod(r.Context(), key)
	if err != nil {
		writeDomainError(w, "failed to calculate period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ResultFromDomain(result, h.money))
}

// Summary returns a stored period with its pool breakdown and calculation.
func (h *CalculationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	key, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	summary, err := h.calcUC.Summary(r.Context(), key)
	if err != nil {
		writeDomainError(w, "failed to summarize period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary, h.money))
}

// Preview calculates an unsaved period without storing it.
func (h *CalculationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	result, err := h.calcUC.Preview(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to preview period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ResultFromDomain(result, h.money))
}

// CarryForwards returns outstanding debt after ?as_of=YYYY-MM, or after the
// latest stored period when as_of is omitted.
func (h *CalculationHandler) CarryForwards(w http.ResponseWriter, r *http.Request) {
	asOf := r.URL.Query().Get("as_of")

	var (
		carry domain.CarryForward
		err   error
	)
	if asOf == "" {
		carry, err = h.calcUC.OutstandingCarryForward(r.Context())
	} else {
		var key domain.YearMonth
		key, err = domain.ParseYearMonth(asOf)
		if err == nil {
			carry, err = h.calcUC.CarryForwardAsOf(r.Context(), key)
		}
	}
	if err != nil {
		writeDomainError(w, "failed to compute carry-forward", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CarryForwardFromDomain(asOf, carry, h.money))
}

// YearGrid returns the holder by month payout table.
func (h *CalculationHandler) YearGrid(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err.Error())
		return
	}

	grid, err := h.calcUC.YearGrid(r.Context(), year)
	if err != nil {
		writeDomainError(w, "failed to build year grid", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GridFromUseCase(grid, h.money))
}
