package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/migrate"
	"github.com/Paaanciitoo/admin-ecommerce/internal/revenue"
	"github.com/Paaanciitoo/admin-ecommerce/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "DASHBOARD_SKIP_INTEGRATION_TESTS"

// DashboardStoreSuite is a test suite for the PostgreSQL DashboardStore implementation.
type DashboardStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       DashboardStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts PostgreSQL, connects to it and applies the embedded migrations.
func (s *DashboardStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start a PostgreSQL container and wait until it accepts connections.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("dashboard"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Connect
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 3. Schema
	require.NoError(s.T(), migrate.Up(migrations.FS, connStr, s.logger), "Failed to apply migrations")

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *DashboardStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest empties all tables before each test.
func (s *DashboardStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE order_items, orders, products, stores CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

// TestDashboardStoreIntegration runs the DashboardStore integration tests.
func TestDashboardStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(DashboardStoreSuite))
}

func (s *DashboardStoreSuite) insertStore(userID string) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO stores (name, user_id) VALUES ($1, $2) RETURNING id", "Tienda "+userID, userID).Scan(&id)
	require.NoError(s.T(), err)
	return id
}

func (s *DashboardStoreSuite) insertProduct(storeID uuid.UUID, name, price string, archived bool, createdAt time.Time) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO products (store_id, name, price, is_archived, created_at) VALUES ($1, $2, $3::text::numeric, $4, $5) RETURNING id",
		storeID, name, price, archived, createdAt).Scan(&id)
	require.NoError(s.T(), err)
	return id
}

func (s *DashboardStoreSuite) insertOrder(storeID uuid.UUID, paid bool, createdAt time.Time, productIDs ...uuid.UUID) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO orders (store_id, is_paid, phone, address, created_at) VALUES ($1, $2, '+56 9 1234 5678', 'Av. Siempre Viva 742', $3) RETURNING id",
		storeID, paid, createdAt).Scan(&id)
	require.NoError(s.T(), err)
	for _, pid := range productIDs {
		_, err := s.dbPool.Exec(s.ctx, "INSERT INTO order_items (order_id, product_id) VALUES ($1, $2)", id, pid)
		require.NoError(s.T(), err)
	}
	return id
}

func (s *DashboardStoreSuite) TestFindStoreByID() {
	// given
	storeID := s.insertStore("user_1")

	// when
	found, err := s.store.FindStoreByID(s.ctx, storeID)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), storeID, found.ID)
	assert.Equal(s.T(), "user_1", found.UserID)

	_, err = s.store.FindStoreByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, apperrors.ErrStoreNotFound)
}

func (s *DashboardStoreSuite) TestFindPaidOrders() {
	// given
	storeID := s.insertStore("user_1")
	otherStoreID := s.insertStore("user_2")
	shirt := s.insertProduct(storeID, "Polera", "10990.50", false, time.Now())
	jockey := s.insertProduct(storeID, "Jockey", "4990", false, time.Now())
	foreign := s.insertProduct(otherStoreID, "Otro", "1", false, time.Now())

	jan := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 2, 8, 0, 0, 0, time.UTC)
	first := s.insertOrder(storeID, true, jan, shirt, jockey)
	s.insertOrder(storeID, false, jan, shirt)
	empty := s.insertOrder(storeID, true, feb)
	s.insertOrder(otherStoreID, true, jan, foreign)

	// when
	orders, err := s.store.FindPaidOrders(s.ctx, storeID, nil)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 2)
	assert.Equal(s.T(), first, orders[0].ID)
	assert.True(s.T(), orders[0].CreatedAt.Equal(jan))
	require.Len(s.T(), orders[0].Items, 2)
	assert.True(s.T(), decimal.RequireFromString("15980.5").Equal(orders[0].Revenue()))
	assert.Equal(s.T(), empty, orders[1].ID)
	assert.Empty(s.T(), orders[1].Items)
}

func (s *DashboardStoreSuite) TestFindPaidOrders_Window() {
	// given
	storeID := s.insertStore("user_1")
	product := s.insertProduct(storeID, "Polera", "100", false, time.Now())
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	s.insertOrder(storeID, true, start.Add(-time.Second), product)
	inside := s.insertOrder(storeID, true, start, product)
	s.insertOrder(storeID, true, end, product)

	// when
	orders, err := s.store.FindPaidOrders(s.ctx, storeID, &revenue.Window{Start: start, End: end})

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), orders, 1)
	assert.Equal(s.T(), inside, orders[0].ID)
}

func (s *DashboardStoreSuite) TestFindPaidOrders_UsesCurrentPrice() {
	// given
	storeID := s.insertStore("user_1")
	product := s.insertProduct(storeID, "Polera", "100", false, time.Now())
	s.insertOrder(storeID, true, time.Now().Add(-48*time.Hour), product)

	// when
	_, err := s.dbPool.Exec(s.ctx, "UPDATE products SET price = 250 WHERE id = $1", product)
	require.NoError(s.T(), err)
	orders, err := s.store.FindPaidOrders(s.ctx, storeID, nil)

	// then
	require.NoError(s.T(), err)
	assert.True(s.T(), decimal.NewFromInt(250).Equal(revenue.Sum(orders)))
}

func (s *DashboardStoreSuite) TestCountPaidOrders() {
	// given
	storeID := s.insertStore("user_1")
	day := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	s.insertOrder(storeID, true, day)
	s.insertOrder(storeID, true, day.Add(23*time.Hour))
	s.insertOrder(storeID, true, day.Add(24*time.Hour))
	s.insertOrder(storeID, false, day.Add(time.Hour))

	// when
	total, err := s.store.CountPaidOrders(s.ctx, storeID)
	require.NoError(s.T(), err)
	inDay, err := s.store.CountPaidOrdersIn(s.ctx, storeID, revenue.Window{Start: day, End: day.Add(24 * time.Hour)})
	require.NoError(s.T(), err)

	// then
	assert.EqualValues(s.T(), 3, total)
	assert.EqualValues(s.T(), 2, inDay)
}

func (s *DashboardStoreSuite) TestCountActiveProducts() {
	// given
	storeID := s.insertStore("user_1")
	now := time.Now()
	s.insertProduct(storeID, "nuevo", "1", false, now.Add(-time.Hour))
	s.insertProduct(storeID, "viejo", "1", false, now.AddDate(0, 0, -30))
	s.insertProduct(storeID, "archivado", "1", true, now.Add(-time.Hour))

	// when
	total, err := s.store.CountActiveProducts(s.ctx, storeID)
	require.NoError(s.T(), err)
	recent, err := s.store.CountActiveProductsSince(s.ctx, storeID, now.AddDate(0, 0, -7))
	require.NoError(s.T(), err)

	// then
	assert.EqualValues(s.T(), 2, total)
	assert.EqualValues(s.T(), 1, recent)
}

func (s *DashboardStoreSuite) TestCountsForEmptyStore() {
	storeID := s.insertStore("user_1")

	orders, err := s.store.CountPaidOrders(s.ctx, storeID)
	require.NoError(s.T(), err)
	products, err := s.store.CountActiveProducts(s.ctx, storeID)
	require.NoError(s.T(), err)

	assert.Zero(s.T(), orders)
	assert.Zero(s.T(), products)
}

func (s *DashboardStoreSuite) TestListOrders() {
	// given
	storeID := s.insertStore("user_1")
	shirt := s.insertProduct(storeID, "Polera", "10", false, time.Now())
	older := s.insertOrder(storeID, true, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), shirt, shirt)
	newer := s.insertOrder(storeID, false, time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC))

	// when
	rows, err := s.store.ListOrders(s.ctx, storeID, 0, 10)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 2)
	assert.Equal(s.T(), newer, rows[0].ID)
	assert.Empty(s.T(), rows[0].ProductNames)
	assert.True(s.T(), decimal.Zero.Equal(decimal.RequireFromString(rows[0].TotalPrice)))
	assert.Equal(s.T(), older, rows[1].ID)
	assert.Equal(s.T(), []string{"Polera", "Polera"}, rows[1].ProductNames)
	assert.True(s.T(), decimal.NewFromInt(20).Equal(decimal.RequireFromString(rows[1].TotalPrice)))

	page, err := s.store.ListOrders(s.ctx, storeID, 1, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), page, 1)
	assert.Equal(s.T(), older, page[0].ID)
}
