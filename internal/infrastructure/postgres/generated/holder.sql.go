package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createHolder = `-- name: CreateHolder :exec
INSERT INTO holders (id, name, default_shares, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateHolderParams struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	DefaultShares pgtype.Numeric     `json:"default_shares"`
	Active        bool               `json:"active"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateHolder(ctx context.Context, arg CreateHolderParams) error {
	_, err := q.db.Exec(ctx, createHolder,
		arg.ID,
		arg.Name,
		arg.DefaultShares,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getHolderByID = `-- name: GetHolderByID :one
SELECT id, name, default_shares, active, created_at, updated_at FROM holders WHERE id = $1
`

func (q *Queries) GetHolderByID(ctx context.Context, id string) (Holder, error) {
	row := q.db.QueryRow(ctx, getHolderByID, id)
	var i Holder
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.DefaultShares,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getHolderByName = `-- name: GetHolderByName :one
SELECT id, name, default_shares, active, created_at, updated_at FROM holders WHERE LOWER(name) = LOWER($1)
`

func (q *Queries) GetHolderByName(ctx context.Context, lower string) (Holder, error) {
	row := q.db.QueryRow(ctx, getHolderByName, lower)
	var i Holder
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.DefaultShares,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listHolders = `-- name: ListHolders :many
SELECT id, name, default_shares, active, created_at, updated_at FROM holders
WHERE active OR NOT $1::boolean
ORDER BY name
`

func (q *Queries) ListHolders(ctx context.Context, activeOnly bool) ([]Holder, error) {
	rows, err := q.db.Query(ctx, listHolders, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Holder{}
	for rows.Next() {
		var i Holder
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.DefaultShares,
			&i.Active,
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

const updateHolder = `-- name: UpdateHolder :execrows
UPDATE holders SET name = $2, default_shares = $3, active = $4, updated_at = $5 WHERE id = $1
`

type UpdateHolderParams struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	DefaultShares pgtype.Numeric     `json:"default_shares"`
	Active        bool               `json:"active"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateHolder(ctx context.Context, arg UpdateHolderParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateHolder,
		arg.ID,
		arg.Name,
		arg.DefaultShares,
		arg.Active,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
