package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/domain"
	"github.com/iho/profitshare/internal/usecase"
)

// HolderService defines the behavior needed by HolderHandler.
type HolderService interface {
	CreateHolder(ctx context.Context, input usecase.CreateHolderInput) (*domain.Holder, error)
	GetHolder(ctx context.Context, id string) (*domain.Holder, error)
	ListHolders(ctx context.Context, input usecase.ListHoldersInput) ([]*domain.Holder, error)
	UpdateHolder(ctx context.Context, input usecase.UpdateHolderInput) (*domain.Holder, error)
	DeactivateHolder(ctx context.Context, id string) (*domain.Holder, error)
}

// HolderHandler handles holder-related HTTP requests.
type HolderHandler struct {
	holderUC HolderService
}

// NewHolderHandler creates a new HolderHandler.
func NewHolderHandler(holderUC HolderService) *HolderHandler {
	return &HolderHandler{holderUC: holderUC}
}

// Create creates a new holder.
func (h *HolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holder, err := h.holderUC.CreateHolder(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create holder", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.HolderFromDomain(holder))
}

// Get retrieves a holder by ID.
func (h *HolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	holder, err := h.holderUC.GetHolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get holder", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HolderFromDomain(holder))
}

// List lists holders. ?active=true hides deactivated holders.
func (h *HolderHandler) List(w http.ResponseWriter, r *http.Request) {
	holders, err := h.holderUC.ListHolders(r.Context(), usecase.ListHoldersInput{
		ActiveOnly: r.URL.Query().Get("active") == "true",
	})
	if err != nil {
		writeDomainError(w, "failed to list holders", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListHoldersResponse{
		Holders: dto.HoldersFromDomain(paginate(r, holders)),
		Total:   int64(len(holders)),
	})
}

// Update renames a holder or changes its default shares.
func (h *HolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holder, err := h.holderUC.UpdateHolder(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "failed to update holder", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HolderFromDomain(holder))
}

// Deactivate marks a holder inactive. Holders are never hard-deleted since
// stored periods may reference them.
func (h *HolderHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	holder, err := h.holderUC.DeactivateHolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to deactivate holder", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HolderFromDomain(holder))
}
