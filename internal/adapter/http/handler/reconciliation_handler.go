package handler

import (
	"context"
	"net/http"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler handles reconciliation requests.
type ReconciliationHandler struct {
	reconUC ReconciliationService
	money   dto.MoneyFormatter
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC ReconciliationService, money dto.MoneyFormatter) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC, money: money}
}

// Report replays history and checks it. An inconsistent history is still
// reported with 200; the body's consistent flag carries the verdict.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to reconcile history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report, h.money))
}
