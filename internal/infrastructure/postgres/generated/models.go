package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Holder struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	DefaultShares pgtype.Numeric     `json:"default_shares"`
	Active        bool               `json:"active"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type Period struct {
	ID                 string             `json:"id"`
	Year               int32              `json:"year"`
	Month              int32              `json:"month"`
	NetIncome          pgtype.Numeric     `json:"net_income"`
	PoolAddback        pgtype.Numeric     `json:"pool_addback"`
	OwnerCompensation  pgtype.Numeric     `json:"owner_compensation"`
	TaxOptimizationAdj pgtype.Numeric     `json:"tax_optimization_adj"`
	UncollectibleAdj   pgtype.Numeric     `json:"uncollectible_adj"`
	PayoutAddback      pgtype.Numeric     `json:"payout_addback"`
	Version            int64              `json:"version"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

type PeriodCharge struct {
	PeriodID string         `json:"period_id"`
	Position int32          `json:"position"`
	HolderID string         `json:"holder_id"`
	Amount   pgtype.Numeric `json:"amount"`
}

type PeriodShare struct {
	PeriodID string         `json:"period_id"`
	Position int32          `json:"position"`
	HolderID string         `json:"holder_id"`
	Shares   pgtype.Numeric `json:"shares"`
}
