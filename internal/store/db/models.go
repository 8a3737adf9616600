package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Store struct {
	ID        uuid.UUID
	Name      string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaidOrderLine is one line item of a paid order. ProductID and Price are null
// for a paid order without line items.
type PaidOrderLine struct {
	OrderID   uuid.UUID
	CreatedAt time.Time
	ProductID pgtype.UUID
	Price     *string
}

// OrderRow is an order of the store's order list with its line items folded in.
type OrderRow struct {
	ID           uuid.UUID
	Phone        string
	Address      string
	IsPaid       bool
	CreatedAt    time.Time
	ProductNames []string
	TotalPrice   string
}
