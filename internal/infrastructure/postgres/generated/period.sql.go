package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPeriod = `-- name: CreatePeriod :exec
INSERT INTO periods (id, year, month, net_income, pool_addback, owner_compensation, tax_optimization_adj, uncollectible_adj, payout_addback, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreatePeriodParams struct {
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

func (q *Queries) CreatePeriod(ctx context.Context, arg CreatePeriodParams) error {
	_, err := q.db.Exec(ctx, createPeriod,
		arg.ID,
		arg.Year,
		arg.Month,
		arg.NetIncome,
		arg.PoolAddback,
		arg.OwnerCompensation,
		arg.TaxOptimizationAdj,
		arg.UncollectibleAdj,
		arg.PayoutAddback,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deletePeriod = `-- name: DeletePeriod :execrows
DELETE FROM periods WHERE year = $1 AND month = $2
`

type DeletePeriodParams struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

func (q *Queries) DeletePeriod(ctx context.Context, arg DeletePeriodParams) (int64, error) {
	result, err := q.db.Exec(ctx, deletePeriod, arg.Year, arg.Month)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deletePeriodCharges = `-- name: DeletePeriodCharges :exec
DELETE FROM period_charges WHERE period_id = $1
`

func (q *Queries) DeletePeriodCharges(ctx context.Context, periodID string) error {
	_, err := q.db.Exec(ctx, deletePeriodCharges, periodID)
	return err
}

const deletePeriodShares = `-- name: DeletePeriodShares :exec
DELETE FROM period_shares WHERE period_id = $1
`

func (q *Queries) DeletePeriodShares(ctx context.Context, periodID string) error {
	_, err := q.db.Exec(ctx, deletePeriodShares, periodID)
	return err
}

type GetPeriodByKeyParams struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

const getPeriodByKey = `-- name: GetPeriodByKey :one
SELECT id, year, month, net_income, pool_addback, owner_compensation, tax_optimization_adj, uncollectible_adj, payout_addback, version, created_at, updated_at FROM periods WHERE year = $1 AND month = $2
`

func (q *Queries) GetPeriodByKey(ctx context.Context, arg GetPeriodByKeyParams) (Period, error) {
	row := q.db.QueryRow(ctx, getPeriodByKey, arg.Year, arg.Month)
	var i Period
	err := row.Scan(
		&i.ID,
		&i.Year,
		&i.Month,
		&i.NetIncome,
		&i.PoolAddback,
		&i.OwnerCompensation,
		&i.TaxOptimizationAdj,
		&i.UncollectibleAdj,
		&i.PayoutAddback,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

type GetPeriodByKeyForUpdateParams struct {
	Year  int32 `json:"year"`
	Month int32 `json:"month"`
}

const getPeriodByKeyForUpdate = `-- name: GetPeriodByKeyForUpdate :one
SELECT id, year, month, net_income, pool_addback, owner_compensation, tax_optimization_adj, uncollectible_adj, payout_addback, version, created_at, updated_at FROM periods WHERE year = $1 AND month = $2 FOR UPDATE
`

func (q *Queries) GetPeriodByKeyForUpdate(ctx context.Context, arg GetPeriodByKeyForUpdateParams) (Period, error) {
	row := q.db.QueryRow(ctx, getPeriodByKeyForUpdate, arg.Year, arg.Month)
	var i Period
	err := row.Scan(
		&i.ID,
		&i.Year,
		&i.Month,
		&i.NetIncome,
		&i.PoolAddback,
		&i.OwnerCompensation,
		&i.TaxOptimizationAdj,
		&i.UncollectibleAdj,
		&i.PayoutAddback,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertPeriodCharge = `-- name: InsertPeriodCharge :exec
INSERT INTO period_charges (period_id, position, holder_id, amount) VALUES ($1, $2, $3, $4)
`

type InsertPeriodChargeParams struct {
	PeriodID string         `json:"period_id"`
	Position int32          `json:"position"`
	HolderID string         `json:"holder_id"`
	Amount   pgtype.Numeric `json:"amount"`
}

func (q *Queries) InsertPeriodCharge(ctx context.Context, arg InsertPeriodChargeParams) error {
	_, err := q.db.Exec(ctx, insertPeriodCharge,
		arg.PeriodID,
		arg.Position,
		arg.HolderID,
		arg.Amount,
	)
	return err
}

const insertPeriodShare = `-- name: InsertPeriodShare :exec
INSERT INTO period_shares (period_id, position, holder_id, shares) VALUES ($1, $2, $3, $4)
`

type InsertPeriodShareParams struct {
	PeriodID string         `json:"period_id"`
	Position int32          `json:"position"`
	HolderID string         `json:"holder_id"`
	Shares   pgtype.Numeric `json:"shares"`
}

func (q *Queries) InsertPeriodShare(ctx context.Context, arg InsertPeriodShareParams) error {
	_, err := q.db.Exec(ctx, insertPeriodShare,
		arg.PeriodID,
		arg.Position,
		arg.HolderID,
		arg.Shares,
	)
	return err
}

const listPeriodCharges = `-- name: ListPeriodCharges :many
SELECT period_id, position, holder_id, amount FROM period_charges WHERE period_id = ANY($1::text[]) ORDER BY period_id, position
`

func (q *Queries) ListPeriodCharges(ctx context.Context, dollar_1 []string) ([]PeriodCharge, error) {
	rows, err := q.db.Query(ctx, listPeriodCharges, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PeriodCharge{}
	for rows.Next() {
		var i PeriodCharge
		if err := rows.Scan(
			&i.PeriodID,
			&i.Position,
			&i.HolderID,
			&i.Amount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPeriodShares = `-- name: ListPeriodShares :many
SELECT period_id, position, holder_id, shares FROM period_shares WHERE period_id = ANY($1::text[]) ORDER BY period_id, position
`

func (q *Queries) ListPeriodShares(ctx context.Context, dollar_1 []string) ([]PeriodShare, error) {
	rows, err := q.db.Query(ctx, listPeriodShares, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PeriodShare{}
	for rows.Next() {
		var i PeriodShare
		if err := rows.Scan(
			&i.PeriodID,
			&i.Position,
			&i.HolderID,
			&i.Shares,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPeriods = `-- name: ListPeriods :many
SELECT id, year, month, net_income, pool_addback, owner_compensation, tax_optimization_adj, uncollectible_adj, payout_addback, version, created_at, updated_at FROM periods ORDER BY year, month
`

func (q *Queries) ListPeriods(ctx context.Context) ([]Period, error) {
	rows, err := q.db.Query(ctx, listPeriods)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Period{}
	for rows.Next() {
		var i Period
		if err := rows.Scan(
			&i.ID,
			&i.Year,
			&i.Month,
			&i.NetIncome,
			&i.PoolAddback,
			&i.OwnerCompensation,
			&i.TaxOptimizationAdj,
			&i.UncollectibleAdj,
			&i.PayoutAddback,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updatePeriod = `-- name: UpdatePeriod :execrows
UPDATE periods
SET net_income = $2, pool_addback = $3, owner_compensation = $4, tax_optimization_adj = $5, uncollectible_adj = $6, payout_addback = $7, version = $8, updated_at = $9
WHERE id = $1 AND version = $10
`

type UpdatePeriodParams struct {
	ID                 string             `json:"id"`
	NetIncome          pgtype.Numeric     `json:"net_income"`
	PoolAddback        pgtype.Numeric     `json:"pool_addback"`
	OwnerCompensation  pgtype.Numeric     `json:"owner_compensation"`
	TaxOptimizationAdj pgtype.Numeric     `json:"tax_optimization_adj"`
	UncollectibleAdj   pgtype.Numeric     `json:"uncollectible_adj"`
	PayoutAddback      pgtype.Numeric     `json:"payout_addback"`
	Version            int64              `json:"version"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
	Version_2          int64              `json:"version_2"`
}

func (q *Queries) UpdatePeriod(ctx context.Context, arg UpdatePeriodParams) (int64, error) {
	result, err := q.db.Exec(ctx, updatePeriod,
		arg.ID,
		arg.NetIncome,
		arg.PoolAddback,
		arg.OwnerCompensation,
		arg.TaxOptimizationAdj,
		arg.UncollectibleAdj,
		arg.PayoutAddback,
		arg.Version,
		arg.UpdatedAt,
		arg.Version_2,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
