package store

import (
	"testing"
	"time"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func Test_foldOrderLines(t *testing.T) {
	orderA := uuid.New()
	orderB := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		lines       []db.PaidOrderLine
		expectLen   int
		expectItems []int
		expectError error
	}{
		{
			name:      "no rows",
			lines:     nil,
			expectLen: 0,
		},
		{
			name: "two orders, one without items",
			lines: []db.PaidOrderLine{
				{OrderID: orderA, CreatedAt: created, ProductID: pgtype.UUID{Bytes: productA, Valid: true}, Price: strPtr("10.50")},
				{OrderID: orderA, CreatedAt: created, ProductID: pgtype.UUID{Bytes: productB, Valid: true}, Price: strPtr("5")},
				{OrderID: orderB, CreatedAt: created.Add(time.Hour)},
			},
			expectLen:   2,
			expectItems: []int{2, 0},
		},
		{
			name: "malformed price",
			lines: []db.PaidOrderLine{
				{OrderID: orderA, CreatedAt: created, ProductID: pgtype.UUID{Bytes: productA, Valid: true}, Price: strPtr("abc")},
			},
			expectError: apperrors.ErrDataAccess,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			orders, err := foldOrderLines(tc.lines)

			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			require.Len(t, orders, tc.expectLen)
			for i, n := range tc.expectItems {
				assert.Len(t, orders[i].Items, n)
			}
		})
	}

	orders, err := foldOrderLines([]db.PaidOrderLine{
		{OrderID: orderA, CreatedAt: created, ProductID: pgtype.UUID{Bytes: productA, Valid: true}, Price: strPtr("10.50")},
		{OrderID: orderA, CreatedAt: created, ProductID: pgtype.UUID{Bytes: productB, Valid: true}, Price: strPtr("5")},
	})
	require.NoError(t, err)
	assert.Equal(t, productA, orders[0].Items[0].ProductID)
	assert.True(t, decimal.RequireFromString("15.5").Equal(orders[0].Revenue()))
}
