package store

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/revenue"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InMemory implements DashboardStore over maps. It mirrors the SQL queries of PgStore
// and is used by tests and local demos.
type InMemory struct {
	mu       sync.RWMutex
	stores   map[uuid.UUID]db.Store
	products map[uuid.UUID]Product
	orders   map[uuid.UUID]Order
}

// Product is a product row of the in-memory store.
type Product struct {
	ID         uuid.UUID
	StoreID    uuid.UUID
	Name       string
	Price      decimal.Decimal
	IsArchived bool
	CreatedAt  time.Time
}

// Order is an order row of the in-memory store; ProductIDs holds one entry per line item.
type Order struct {
	ID         uuid.UUID
	StoreID    uuid.UUID
	IsPaid     bool
	Phone      string
	Address    string
	CreatedAt  time.Time
	ProductIDs []uuid.UUID
}

// NewInMemoryStore creates an empty in-memory DashboardStore.
func NewInMemoryStore() *InMemory {
	return &InMemory{
		stores:   make(map[uuid.UUID]db.Store),
		products: make(map[uuid.UUID]Product),
		orders:   make(map[uuid.UUID]Order),
	}
}

// PutStore inserts or replaces a store.
func (s *InMemory) PutStore(st db.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[st.ID] = st
}

// PutProduct inserts or replaces a product.
func (s *InMemory) PutProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// PutOrder inserts or replaces an order.
func (s *InMemory) PutOrder(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func (s *InMemory) FindStoreByID(_ context.Context, id uuid.UUID) (*db.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stores[id]
	if !ok {
		return nil, apperrors.ErrStoreNotFound
	}
	return &st, nil
}

func (s *InMemory) FindPaidOrders(_ context.Context, storeID uuid.UUID, window *revenue.Window) ([]revenue.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]revenue.Order, 0)
	for _, o := range s.sortedOrders(storeID) {
		if !o.IsPaid || (window != nil && !window.Contains(o.CreatedAt)) {
			continue
		}
		ro := revenue.Order{ID: o.ID, CreatedAt: o.CreatedAt}
		for _, pid := range o.ProductIDs {
			if p, ok := s.products[pid]; ok {
				ro.Items = append(ro.Items, revenue.LineItem{ProductID: p.ID, Price: p.Price})
			}
		}
		result = append(result, ro)
	}
	return result, nil
}

func (s *InMemory) CountPaidOrders(_ context.Context, storeID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, o := range s.orders {
		if o.StoreID == storeID && o.IsPaid {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountPaidOrdersIn(_ context.Context, storeID uuid.UUID, window revenue.Window) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, o := range s.orders {
		if o.StoreID == storeID && o.IsPaid && window.Contains(o.CreatedAt) {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountActiveProducts(_ context.Context, storeID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, p := range s.products {
		if p.StoreID == storeID && !p.IsArchived {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountActiveProductsSince(_ context.Context, storeID uuid.UUID, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, p := range s.products {
		if p.StoreID == storeID && !p.IsArchived && !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) ListOrders(_ context.Context, storeID uuid.UUID, offset, limit int32) ([]db.OrderRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := s.sortedOrders(storeID)
	// newest first, ties by ID as in the SQL query
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	rows := make([]db.OrderRow, 0)
	for i := int(offset); i < len(orders) && len(rows) < int(limit); i++ {
		o := orders[i]
		row := db.OrderRow{
			ID:           o.ID,
			Phone:        o.Phone,
			Address:      o.Address,
			IsPaid:       o.IsPaid,
			CreatedAt:    o.CreatedAt,
			ProductNames: []string{},
		}
		total := decimal.Zero
		for _, pid := range o.ProductIDs {
			if p, ok := s.products[pid]; ok {
				row.ProductNames = append(row.ProductNames, p.Name)
				total = total.Add(p.Price)
			}
		}
		row.TotalPrice = total.String()
		rows = append(rows, row)
	}
	return rows, nil
}

// sortedOrders returns the orders of a store by creation time, then ID. Caller holds the lock.
func (s *InMemory) sortedOrders(storeID uuid.UUID) []Order {
	list := make([]Order, 0)
	for _, o := range s.orders {
		if o.StoreID == storeID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
	return list
}
