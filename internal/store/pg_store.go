package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/revenue"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgStore implements DashboardStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new instance of DashboardStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

func (p *PgStore) FindStoreByID(ctx context.Context, id uuid.UUID) (*db.Store, error) {
	s, err := p.q.FindStoreByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStoreNotFound
		}
		return nil, dataAccess("find store by ID", err)
	}
	return &s, nil
}

func (p *PgStore) FindPaidOrders(ctx context.Context, storeID uuid.UUID, window *revenue.Window) ([]revenue.Order, error) {
	params := db.FindPaidOrderLinesParams{StoreID: storeID}
	if window != nil {
		params.CreatedFrom = pgtype.Timestamptz{Time: window.Start, Valid: true}
		params.CreatedTo = pgtype.Timestamptz{Time: window.End, Valid: true}
	}
	lines, err := p.q.FindPaidOrderLines(ctx, params)
	if err != nil {
		return nil, dataAccess("find paid orders", err)
	}
	return foldOrderLines(lines)
}

// foldOrderLines turns the joined order/line-item rows back into orders.
// Rows of one order are adjacent because the query orders by creation time and ID.
func foldOrderLines(lines []db.PaidOrderLine) ([]revenue.Order, error) {
	orders := make([]revenue.Order, 0)
	for _, line := range lines {
		if len(orders) == 0 || orders[len(orders)-1].ID != line.OrderID {
			orders = append(orders, revenue.Order{ID: line.OrderID, CreatedAt: line.CreatedAt})
		}
		if !line.ProductID.Valid || line.Price == nil {
			continue
		}
		price, err := decimal.NewFromString(*line.Price)
		if err != nil {
			return nil, dataAccess("parse product price", err)
		}
		current := &orders[len(orders)-1]
		current.Items = append(current.Items, revenue.LineItem{
			ProductID: uuid.UUID(line.ProductID.Bytes),
			Price:     price,
		})
	}
	return orders, nil
}

func (p *PgStore) CountPaidOrders(ctx context.Context, storeID uuid.UUID) (int64, error) {
	count, err := p.q.CountPaidOrders(ctx, storeID)
	if err != nil {
		return 0, dataAccess("count paid orders", err)
	}
	return count, nil
}

func (p *PgStore) CountPaidOrdersIn(ctx context.Context, storeID uuid.UUID, window revenue.Window) (int64, error) {
	count, err := p.q.CountPaidOrdersBetween(ctx, db.CountPaidOrdersBetweenParams{
		StoreID: storeID,
		From:    window.Start,
		To:      window.End,
	})
	if err != nil {
		return 0, dataAccess("count paid orders in window", err)
	}
	return count, nil
}

func (p *PgStore) CountActiveProducts(ctx context.Context, storeID uuid.UUID) (int64, error) {
	count, err := p.q.CountActiveProducts(ctx, storeID)
	if err != nil {
		return 0, dataAccess("count active products", err)
	}
	return count, nil
}

func (p *PgStore) CountActiveProductsSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, error) {
	count, err := p.q.CountActiveProductsSince(ctx, db.CountActiveProductsSinceParams{StoreID: storeID, Since: since})
	if err != nil {
		return 0, dataAccess("count new products", err)
	}
	return count, nil
}

func (p *PgStore) ListOrders(ctx context.Context, storeID uuid.UUID, offset, limit int32) ([]db.OrderRow, error) {
	rows, err := p.q.ListOrders(ctx, db.ListOrdersParams{StoreID: storeID, Offset: offset, Limit: limit})
	if err != nil {
		return nil, dataAccess("list orders", err)
	}
	if rows == nil {
		rows = []db.OrderRow{}
	}
	return rows, nil
}

func dataAccess(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, apperrors.ErrDataAccess, err)
}
