package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrHolderNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPeriodExists),
		errors.Is(err, domain.ErrHolderExists),
		errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPeriodKey),
		errors.Is(err, domain.ErrInvalidHolderName),
		errors.Is(err, domain.ErrInvalidShares),
		errors.Is(err, domain.ErrInvalidCharge),
		errors.Is(err, domain.ErrInvalidHolderID),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidDefaultShares),
		errors.Is(err, domain.ErrHolderInactive),
		errors.Is(err, dto.ErrUnknownSeed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError writes err with the status mapDomainError picks for it.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parsePeriodParam reads the {year} and {month} URL parameters.
func parsePeriodParam(r *http.Request) (domain.YearMonth, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return domain.YearMonth{}, fmt.Errorf("%w: year %q", domain.ErrInvalidPeriodKey, chi.URLParam(r, "year"))
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		return domain.YearMonth{}, fmt.Errorf("%w: month %q", domain.ErrInvalidPeriodKey, chi.URLParam(r, "month"))
	}

	key := domain.NewYearMonth(year, time.Month(month))
	if err := domain.ValidateYearMonth(key); err != nil {
		return domain.YearMonth{}, err
	}

	return key, nil
}

// paginate applies limit and offset query parameters to an in-memory list.
func paginate[T any](r *http.Request, items []T) []T {
	limit, offset, _ := domain.ValidatePagination(parseIntQuery(r, "limit", 0), parseIntQuery(r, "offset", 0))

	if offset >= len(items) {
		return []T{}
	}

	end := min(offset+limit, len(items))
	return items[offset:end]
}
