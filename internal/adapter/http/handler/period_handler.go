package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	CreatePeriod(ctx context.Context, input usecase.CreatePeriodInput) (*domain.Period, error)
	GetPeriod(ctx context.Context, key domain.YearMonth) (*domain.Period, error)
	ListPeriods(ctx context.Context, input usecase.ListPeriodsInput) ([]*domain.Period, error)
	UpdatePeriod(ctx context.Context, input usecase.UpdatePeriodInput) (*domain.Period, error)
	DeletePeriod(ctx context.Context, key domain.YearMonth) error
}

// PeriodHandler handles period-related HTTP requests.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// Create records a new month.
func (h *PeriodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	period, err := h.periodUC.CreatePeriod(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to create period", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PeriodFromDomain(period))
}

// Get retrieves a period by year and month.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	period, err := h.periodUC.GetPeriod(r.Context(), key)
	if err != nil {
		writeDomainError(w, "failed to get period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// List lists periods oldest first, optionally for one ?year=.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodUC.ListPeriods(r.Context(), usecase.ListPeriodsInput{
		Year: parseIntQuery(r, "year", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list periods", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPeriodsResponse{
		Periods: dto.PeriodsFromDomain(paginate(r, periods)),
		Total:   int64(len(periods)),
	})
}

// Update replaces a period's figures and entries.
func (h *PeriodHandler) Update(w http.ResponseWriter, r *http.Request) {
	key, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	var req dto.UpdatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	period, err := h.periodUC.UpdatePeriod(r.Context(), req.ToUseCaseInput(key))
	if err != nil {
		writeDomainError(w, "failed to update period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// Delete removes a period.
func (h *PeriodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := parsePeriodParam(r)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	if err := h.periodUC.DeletePeriod(r.Context(), key); err != nil {
		writeDomainError(w, "failed to delete period", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
