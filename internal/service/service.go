// Package service provides the dashboard operations of a store: revenue graph, sales,
// stock, month-over-month revenue, the combined overview and the order list.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/revenue"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DashboardService defines the read-only dashboard operations.
// None of the aggregation methods checks who owns the store; callers authorize first.
type DashboardService interface {
	// AuthorizeStore returns the store if it belongs to userID.
	// Returns ErrStoreNotFound or ErrAccessDenied otherwise.
	AuthorizeStore(ctx context.Context, userID string, storeID uuid.UUID) (*StoreDto, error)

	// GraphRevenue returns the monthly revenue series of every year with paid orders.
	GraphRevenue(ctx context.Context, storeID uuid.UUID) ([]YearRevenueDto, error)

	// RevenueForYear returns the monthly revenue series of one year, all zeros if the year has no paid orders.
	RevenueForYear(ctx context.Context, storeID uuid.UUID, year int) (*YearRevenueDto, error)

	// SalesCount returns the paid order total and today's change against yesterday.
	SalesCount(ctx context.Context, storeID uuid.UUID) (*SalesCountDto, error)

	// StockCount returns the active product total and how many were added in the last seven days.
	StockCount(ctx context.Context, storeID uuid.UUID) (*StockCountDto, error)

	// TotalRevenue returns the revenue since the start of the previous month and its change against the month before.
	TotalRevenue(ctx context.Context, storeID uuid.UUID) (*TotalRevenueDto, error)

	// Overview runs all four aggregations concurrently.
	Overview(ctx context.Context, storeID uuid.UUID) (*OverviewDto, error)

	// ListOrders returns one page of the store's orders, newest first.
	ListOrders(ctx context.Context, storeID uuid.UUID, offset, limit int32) ([]OrderDto, error)
}

// Cache stores serialized overviews. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Service implements DashboardService.
type Service struct {
	store      store.DashboardStore
	cache      Cache
	loc        *time.Location
	monthNames revenue.MonthNames
	now        func() time.Time

	tracer       trace.Tracer
	aggregations metric.Int64Counter
	cacheHits    metric.Int64Counter
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the location used for day and month boundaries. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithMonthNames sets the month names of the revenue graph. Defaults to the es-CL names.
func WithMonthNames(names revenue.MonthNames) Option {
	return func(s *Service) { s.monthNames = names }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCache enables read-through caching of the overview.
func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// NewService creates a new instance of DashboardService with the provided store.
func NewService(dashboardStore store.DashboardStore, opts ...Option) *Service {
	names, _ := revenue.MonthNamesFor(revenue.DefaultLocale)
	s := &Service{
		store:      dashboardStore,
		loc:        time.Local,
		monthNames: names,
		now:        time.Now,
		tracer:     otel.Tracer("dashboard-service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	meter := otel.Meter("dashboard-service")
	var err error
	s.aggregations, err = meter.Int64Counter("dashboard_aggregations", metric.WithDescription("Total number of dashboard aggregations computed"))
	if err != nil {
		panic(fmt.Sprintf("failed to create dashboard_aggregations counter: %v", err))
	}
	s.cacheHits, err = meter.Int64Counter("dashboard_cache_hits", metric.WithDescription("Total number of overviews served from cache"))
	if err != nil {
		panic(fmt.Sprintf("failed to create dashboard_cache_hits counter: %v", err))
	}
	return s
}

// StoreDto is the store a dashboard belongs to.
type StoreDto struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	UserID string    `json:"userId"`
}

// MonthRevenueDto is one point of the revenue graph.
type MonthRevenueDto struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// YearRevenueDto is the revenue graph of one year; Months always has twelve entries.
type YearRevenueDto struct {
	Year   int               `json:"year"`
	Months []MonthRevenueDto `json:"months"`
}

type SalesCountDto struct {
	Total       int64 `json:"total"`
	DailyChange int64 `json:"dailyChange"`
}

type StockCountDto struct {
	Total       int64 `json:"total"`
	NewProducts int64 `json:"newProducts"`
}

type TotalRevenueDto struct {
	Total            float64 `json:"total"`
	PercentageChange float64 `json:"percentageChange"`
}

// OverviewDto bundles the four dashboard aggregations of a store.
type OverviewDto struct {
	StoreID      uuid.UUID        `json:"storeId"`
	TotalRevenue TotalRevenueDto  `json:"totalRevenue"`
	SalesCount   SalesCountDto    `json:"salesCount"`
	StockCount   StockCountDto    `json:"stockCount"`
	GraphRevenue []YearRevenueDto `json:"graphRevenue"`
	GeneratedAt  string           `json:"generatedAt"`
}

// OrderDto is a row of the store's order list.
type OrderDto struct {
	ID         uuid.UUID `json:"id"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Products   string    `json:"products"`
	TotalPrice float64   `json:"totalPrice"`
	IsPaid     bool      `json:"isPaid"`
	CreatedAt  string    `json:"createdAt"`
}

// orderDateLayout is dd/MM/yyyy.
const orderDateLayout = "02/01/2006"

// MinYear and MaxYear bound the years accepted by RevenueForYear.
const (
	MinYear = 1970
	MaxYear = 9999
)

func (s *Service) AuthorizeStore(ctx context.Context, userID string, storeID uuid.UUID) (*StoreDto, error) {
	found, err := s.store.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if found.UserID != userID {
		return nil, apperrors.ErrAccessDenied
	}
	return &StoreDto{ID: found.ID, Name: found.Name, UserID: found.UserID}, nil
}

func (s *Service) GraphRevenue(ctx context.Context, storeID uuid.UUID) ([]YearRevenueDto, error) {
	ctx, span := s.startSpan(ctx, "GraphRevenue", storeID)
	defer span.End()

	years, err := s.groupedRevenue(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	result := make([]YearRevenueDto, 0, len(years))
	for _, yr := range years {
		result = append(result, toYearDto(yr))
	}
	return result, nil
}

func (s *Service) RevenueForYear(ctx context.Context, storeID uuid.UUID, year int) (*YearRevenueDto, error) {
	if year < MinYear || year > MaxYear {
		return nil, fmt.Errorf("%d is outside [%d, %d]: %w", year, MinYear, MaxYear, apperrors.ErrInvalidYear)
	}
	ctx, span := s.startSpan(ctx, "RevenueForYear", storeID)
	defer span.End()

	years, err := s.groupedRevenue(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	yr, ok := revenue.FindYear(years, year)
	if !ok {
		yr = revenue.EmptyYear(year, s.monthNames)
	}
	dto := toYearDto(yr)
	return &dto, nil
}

func (s *Service) groupedRevenue(ctx context.Context, storeID uuid.UUID) ([]revenue.YearRevenue, error) {
	orders, err := s.store.FindPaidOrders(ctx, storeID, nil)
	if err != nil {
		return nil, err
	}
	return revenue.GroupByMonth(orders, s.loc, s.monthNames), nil
}

func (s *Service) SalesCount(ctx context.Context, storeID uuid.UUID) (*SalesCountDto, error) {
	ctx, span := s.startSpan(ctx, "SalesCount", storeID)
	defer span.End()

	today, yesterday := revenue.DayWindows(s.now(), s.loc)
	todaySales, err := s.store.CountPaidOrdersIn(ctx, storeID, today)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	yesterdaySales, err := s.store.CountPaidOrdersIn(ctx, storeID, yesterday)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	total, err := s.store.CountPaidOrders(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &SalesCountDto{Total: total, DailyChange: todaySales - yesterdaySales}, nil
}

func (s *Service) StockCount(ctx context.Context, storeID uuid.UUID) (*StockCountDto, error) {
	ctx, span := s.startSpan(ctx, "StockCount", storeID)
	defer span.End()

	total, err := s.store.CountActiveProducts(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	newProducts, err := s.store.CountActiveProductsSince(ctx, storeID, revenue.NewProductsSince(s.now(), s.loc))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &StockCountDto{Total: total, NewProducts: newProducts}, nil
}

func (s *Service) TotalRevenue(ctx context.Context, storeID uuid.UUID) (*TotalRevenueDto, error) {
	ctx, span := s.startSpan(ctx, "TotalRevenue", storeID)
	defer span.End()

	current, prior := revenue.MonthOverMonthWindows(s.now(), s.loc)
	currentOrders, err := s.store.FindPaidOrders(ctx, storeID, &current)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	priorOrders, err := s.store.FindPaidOrders(ctx, storeID, &prior)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	currentRevenue := revenue.Sum(currentOrders)
	priorRevenue := revenue.Sum(priorOrders)
	return &TotalRevenueDto{
		Total:            currentRevenue.InexactFloat64(),
		PercentageChange: revenue.PercentageChange(currentRevenue, priorRevenue).InexactFloat64(),
	}, nil
}

func (s *Service) Overview(ctx context.Context, storeID uuid.UUID) (*OverviewDto, error) {
	ctx, span := s.startSpan(ctx, "Overview", storeID)
	defer span.End()

	key := cacheKey("overview", storeID)
	if cached, ok := s.cachedOverview(ctx, key); ok {
		s.cacheHits.Add(ctx, 1)
		return cached, nil
	}

	overview := &OverviewDto{StoreID: storeID, GeneratedAt: s.now().In(s.loc).Format(time.RFC3339)}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.TotalRevenue(gCtx, storeID)
		if err != nil {
			return err
		}
		overview.TotalRevenue = *total
		return nil
	})
	g.Go(func() error {
		sales, err := s.SalesCount(gCtx, storeID)
		if err != nil {
			return err
		}
		overview.SalesCount = *sales
		return nil
	})
	g.Go(func() error {
		stock, err := s.StockCount(gCtx, storeID)
		if err != nil {
			return err
		}
		overview.StockCount = *stock
		return nil
	})
	g.Go(func() error {
		graph, err := s.GraphRevenue(gCtx, storeID)
		if err != nil {
			return err
		}
		overview.GraphRevenue = graph
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.storeOverview(ctx, key, overview)
	return overview, nil
}

func (s *Service) ListOrders(ctx context.Context, storeID uuid.UUID, offset, limit int32) ([]OrderDto, error) {
	ctx, span := s.startSpan(ctx, "ListOrders", storeID)
	defer span.End()

	rows, err := s.store.ListOrders(ctx, storeID, offset, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	result := make([]OrderDto, 0, len(rows))
	for _, row := range rows {
		dto, err := s.toOrderDto(row)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		result = append(result, dto)
	}
	return result, nil
}

func (s *Service) toOrderDto(row db.OrderRow) (OrderDto, error) {
	total, err := decimal.NewFromString(row.TotalPrice)
	if err != nil {
		return OrderDto{}, fmt.Errorf("failed to parse order total %q: %w: %w", row.TotalPrice, apperrors.ErrDataAccess, err)
	}
	return OrderDto{
		ID:         row.ID,
		Phone:      row.Phone,
		Address:    row.Address,
		Products:   strings.Join(row.ProductNames, ", "),
		TotalPrice: total.InexactFloat64(),
		IsPaid:     row.IsPaid,
		CreatedAt:  row.CreatedAt.In(s.loc).Format(orderDateLayout),
	}, nil
}

// cachedOverview returns the cached overview of key. Cache failures are logged and treated as misses.
func (s *Service) cachedOverview(ctx context.Context, key string) (*OverviewDto, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read overview from cache", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var overview OverviewDto
	if err := json.Unmarshal(data, &overview); err != nil {
		slog.WarnContext(ctx, "Discarding malformed cached overview", "key", key, "error", err)
		return nil, false
	}
	return &overview, true
}

func (s *Service) storeOverview(ctx context.Context, key string, overview *OverviewDto) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(overview)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode overview for cache", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		slog.WarnContext(ctx, "Failed to write overview to cache", "key", key, "error", err)
	}
}

func (s *Service) startSpan(ctx context.Context, op string, storeID uuid.UUID) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("dashboard.operation", op),
		attribute.String("store.id", storeID.String()),
	}
	s.aggregations.Add(ctx, 1, metric.WithAttributes(attrs[0]))
	return s.tracer.Start(ctx, "DashboardService."+op, trace.WithAttributes(attrs...))
}

func cacheKey(operation string, storeID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", operation, storeID)
}

// toYearDto converts a revenue year to its DTO.
func toYearDto(yr revenue.YearRevenue) YearRevenueDto {
	months := make([]MonthRevenueDto, 0, len(yr.Months))
	for _, m := range yr.Months {
		months = append(months, MonthRevenueDto{Name: m.Name, Total: m.Total.InexactFloat64()})
	}
	return YearRevenueDto{Year: yr.Year, Months: months}
}
