package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findStoreByID = `-- name: FindStoreByID :one
SELECT id, name, user_id, created_at, updated_at
FROM stores
WHERE id = $1
`

func (q *Queries) FindStoreByID(ctx context.Context, id uuid.UUID) (Store, error) {
	row := q.db.QueryRow(ctx, findStoreByID, id)
	var i Store
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.UserID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findPaidOrderLines = `-- name: FindPaidOrderLines :many
SELECT o.id, o.created_at, oi.product_id, p.price::text
FROM orders o
         LEFT JOIN order_items oi ON oi.order_id = o.id
         LEFT JOIN products p ON p.id = oi.product_id
WHERE o.store_id = $1
  AND o.is_paid = TRUE
  AND ($2::timestamptz IS NULL OR o.created_at >= $2::timestamptz)
  AND ($3::timestamptz IS NULL OR o.created_at < $3::timestamptz)
ORDER BY o.created_at, o.id
`

type FindPaidOrderLinesParams struct {
	StoreID     uuid.UUID
	CreatedFrom pgtype.Timestamptz
	CreatedTo   pgtype.Timestamptz
}

func (q *Queries) FindPaidOrderLines(ctx context.Context, arg FindPaidOrderLinesParams) ([]PaidOrderLine, error) {
	rows, err := q.db.Query(ctx, findPaidOrderLines, arg.StoreID, arg.CreatedFrom, arg.CreatedTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PaidOrderLine
	for rows.Next() {
		var i PaidOrderLine
		if err := rows.Scan(
			&i.OrderID,
			&i.CreatedAt,
			&i.ProductID,
			&i.Price,
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

const countPaidOrders = `-- name: CountPaidOrders :one
SELECT count(*)
FROM orders
WHERE store_id = $1
  AND is_paid = TRUE
`

func (q *Queries) CountPaidOrders(ctx context.Context, storeID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countPaidOrders, storeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countPaidOrdersBetween = `-- name: CountPaidOrdersBetween :one
SELECT count(*)
FROM orders
WHERE store_id = $1
  AND is_paid = TRUE
  AND created_at >= $2
  AND created_at < $3
`

type CountPaidOrdersBetweenParams struct {
	StoreID uuid.UUID
	From    time.Time
	To      time.Time
}

func (q *Queries) CountPaidOrdersBetween(ctx context.Context, arg CountPaidOrdersBetweenParams) (int64, error) {
	row := q.db.QueryRow(ctx, countPaidOrdersBetween, arg.StoreID, arg.From, arg.To)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countActiveProducts = `-- name: CountActiveProducts :one
SELECT count(*)
FROM products
WHERE store_id = $1
  AND is_archived = FALSE
`

func (q *Queries) CountActiveProducts(ctx context.Context, storeID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countActiveProducts, storeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countActiveProductsSince = `-- name: CountActiveProductsSince :one
SELECT count(*)
FROM products
WHERE store_id = $1
  AND is_archived = FALSE
  AND created_at >= $2
`

type CountActiveProductsSinceParams struct {
	StoreID uuid.UUID
	Since   time.Time
}

func (q *Queries) CountActiveProductsSince(ctx context.Context, arg CountActiveProductsSinceParams) (int64, error) {
	row := q.db.QueryRow(ctx, countActiveProductsSince, arg.StoreID, arg.Since)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listOrders = `-- name: ListOrders :many
SELECT o.id,
       o.phone,
       o.address,
       o.is_paid,
       o.created_at,
       COALESCE(array_agg(p.name ORDER BY oi.id) FILTER (WHERE p.id IS NOT NULL), '{}')::text[] AS product_names,
       COALESCE(sum(p.price), 0)::text                                                          AS total_price
FROM orders o
         LEFT JOIN order_items oi ON oi.order_id = o.id
         LEFT JOIN products p ON p.id = oi.product_id
WHERE o.store_id = $1
GROUP BY o.id
ORDER BY o.created_at DESC, o.id
OFFSET $2 LIMIT $3
`

type ListOrdersParams struct {
	StoreID uuid.UUID
	Offset  int32
	Limit   int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]OrderRow, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.StoreID, arg.Offset, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderRow
	for rows.Next() {
		var i OrderRow
		if err := rows.Scan(
			&i.ID,
			&i.Phone,
			&i.Address,
			&i.IsPaid,
			&i.CreatedAt,
			&i.ProductNames,
			&i.TotalPrice,
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
