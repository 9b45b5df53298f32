package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holder is a party entitled to a share of the pool.
type Holder struct {
	ID            string
	Name          string
	DefaultShares *decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Deactivate marks the holder inactive. Historical periods keep referencing it.
func (h *Holder) Deactivate(at time.Time) {
	h.Active = false
	h.UpdatedAt = at
}
