// Package store provides read access to the dashboard data of a store.
package store

import (
	"context"
	"time"

	"github.com/Paaanciitoo/admin-ecommerce/internal/revenue"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store/db"
	"github.com/google/uuid"
)

// DashboardStore is the read-only data source of the dashboard.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Every failed query is reported as ErrDataAccess joined with the driver error.
type DashboardStore interface {
	// FindStoreByID retrieves a store by its unique identifier.
	// Returns ErrStoreNotFound if no store exists with the given ID.
	FindStoreByID(ctx context.Context, id uuid.UUID) (*db.Store, error)

	// FindPaidOrders returns the store's paid orders with their line items, oldest first.
	// A nil window returns all paid orders.
	FindPaidOrders(ctx context.Context, storeID uuid.UUID, window *revenue.Window) ([]revenue.Order, error)

	// CountPaidOrders returns the lifetime number of paid orders of the store.
	CountPaidOrders(ctx context.Context, storeID uuid.UUID) (int64, error)

	// CountPaidOrdersIn returns the number of paid orders created inside the window.
	CountPaidOrdersIn(ctx context.Context, storeID uuid.UUID, window revenue.Window) (int64, error)

	// CountActiveProducts returns the number of non-archived products of the store.
	CountActiveProducts(ctx context.Context, storeID uuid.UUID) (int64, error)

	// CountActiveProductsSince returns the number of non-archived products created at or after since.
	CountActiveProductsSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, error)

	// ListOrders returns one page of the store's orders, newest first.
	ListOrders(ctx context.Context, storeID uuid.UUID, offset, limit int32) ([]db.OrderRow, error)
}
