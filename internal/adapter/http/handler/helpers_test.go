package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/periods?year=2024", nil)
	if got := parseIntQuery(req, "year", 0); got != 2024 {
		t.Fatalf("expected year=2024, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/periods?year=invalid", nil)
	if got := parseIntQuery(req, "year", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"period not found", domain.ErrPeriodNotFound, http.StatusNotFound},
		{"holder not found", fmt.Errorf("%w: h-9", domain.ErrHolderNotFound), http.StatusNotFound},
		{"period exists", domain.ErrPeriodExists, http.StatusConflict},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict},
		{"invalid shares", domain.ErrInvalidShares, http.StatusBadRequest},
		{"holder inactive", fmt.Errorf("%w: C", domain.ErrHolderInactive), http.StatusBadRequest},
		{"unknown seed", dto.ErrUnknownSeed, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" || resp.Message != "detail" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}

func TestParsePeriodParam(t *testing.T) {
	tests := []struct {
		path    string
		want    domain.YearMonth
		wantErr bool
	}{
		{"/2024/3", domain.NewYearMonth(2024, time.March), false},
		{"/2024/03", domain.NewYearMonth(2024, time.March), false},
		{"/2024/13", domain.YearMonth{}, true},
		{"/abcd/1", domain.YearMonth{}, true},
		{"/1999/12", domain.YearMonth{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var (
				got domain.YearMonth
				err error
			)
			r := chi.NewRouter()
			r.Get("/{year}/{month}", func(w http.ResponseWriter, req *http.Request) {
				got, err = parsePeriodParam(req)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidPeriodKey) {
					t.Fatalf("expected invalid period key, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("parsePeriodParam = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	req := httptest.NewRequest(http.MethodGet, "/?limit=2&offset=1", nil)
	if got := paginate(req, items); len(got) != 2 || got[0] != 2 {
		t.Fatalf("unexpected page %v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/?offset=10", nil)
	if got := paginate(req, items); len(got) != 0 {
		t.Fatalf("expected empty page, got %v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := paginate(req, items); len(got) != 5 {
		t.Fatalf("expected all items by default, got %v", got)
	}
}
