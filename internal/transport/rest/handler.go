// Package rest provides the HTTP handlers of the store dashboard.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/web"
	"github.com/Paaanciitoo/admin-ecommerce/internal/report"
	"github.com/Paaanciitoo/admin-ecommerce/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultOrdersLimit = 20
	maxOrdersLimit     = 100
)

type Handler struct {
	service  service.DashboardService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new dashboard Handler with the provided service.
func NewHandler(service service.DashboardService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes of the dashboard.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/stores/{storeId}", func(r chi.Router) {
		r.Use(web.AuthMiddleware)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.Overview)
			r.Get("/revenue", h.TotalRevenue)
			r.Get("/sales", h.SalesCount)
			r.Get("/stock", h.StockCount)
			r.Get("/graph", h.GraphRevenue)
			r.Get("/graph/{year}", h.RevenueForYear)
			r.Get("/export", h.Export)
		})
		r.Get("/orders", h.ListOrders)
	})

	r.Get("/healthz", h.HealthCheck)
}

// Overview returns all dashboard aggregations of a store.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	overview, err := h.service.Overview(r.Context(), store.ID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to compute dashboard")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, overview)
}

// TotalRevenue returns the month-over-month revenue of a store.
func (h *Handler) TotalRevenue(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	total, err := h.service.TotalRevenue(r.Context(), store.ID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to compute revenue")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, total)
}

// SalesCount returns the paid order count of a store.
func (h *Handler) SalesCount(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	sales, err := h.service.SalesCount(r.Context(), store.ID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to count sales")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, sales)
}

// StockCount returns the active product count of a store.
func (h *Handler) StockCount(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	stock, err := h.service.StockCount(r.Context(), store.ID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to count stock")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, stock)
}

// GraphRevenue returns the monthly revenue of every year with paid orders.
func (h *Handler) GraphRevenue(w http.ResponseWriter, r *http.Request) {
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	graph, err := h.service.GraphRevenue(r.Context(), store.ID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to compute revenue graph")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, graph)
}

// RevenueForYear returns the monthly revenue of one year.
func (h *Handler) RevenueForYear(w http.ResponseWriter, r *http.Request) {
	year, ok := web.ParsePathInt(w, h.logger, h.validate, "year", chi.URLParam(r, "year"),
		fmt.Sprintf("min=%d,max=%d", service.MinYear, service.MaxYear))
	if !ok {
		return
	}
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	yr, err := h.service.RevenueForYear(r.Context(), store.ID, year)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to compute revenue for %d", year))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, yr)
}

// Export renders the overview as an XLSX or PDF download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := report.FormatXLSX
	if f := r.URL.Query().Get("format"); f != "" {
		if err := h.validate.Var(f, "oneof=xlsx pdf"); err != nil {
			web.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unsupported format: %s", f))
			return
		}
		format = report.Format(f)
	}
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	overview, err := h.service.Overview(r.Context(), store.ID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to compute dashboard")
		return
	}
	data, err := report.Build(format, store, overview)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to render report")
		return
	}
	filename := exportFilename(store.ID, overview.GeneratedAt, format)
	h.logger.InfoContext(r.Context(), "Dashboard exported", "store_id", store.ID, "format", format, "bytes", len(data))
	web.RespondFile(w, h.logger, format.ContentType(), filename, data)
}

// exportFilename names an export after the store and the date the overview was generated,
// taken from generatedAt so it follows the service clock and time zone.
func exportFilename(storeID uuid.UUID, generatedAt string, format report.Format) string {
	generated, err := time.Parse(time.RFC3339, generatedAt)
	if err != nil {
		return fmt.Sprintf("dashboard-%s.%s", storeID, format)
	}
	return fmt.Sprintf("dashboard-%s-%s.%s", storeID, generated.Format("20060102"), format)
}

// ListOrders returns one page of the store's orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	offset, ok := web.ParseQueryInt32(w, r, h.logger, h.validate, "offset", 0, "gte=0")
	if !ok {
		return
	}
	limit, ok := web.ParseQueryInt32(w, r, h.logger, h.validate, "limit", defaultOrdersLimit,
		fmt.Sprintf("min=1,max=%d", maxOrdersLimit))
	if !ok {
		return
	}
	store, ok := h.authorize(w, r)
	if !ok {
		return
	}
	orders, err := h.service.ListOrders(r.Context(), store.ID, offset, limit)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch orders")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved order list", "count", len(orders))
	web.RespondJSON(w, h.logger, http.StatusOK, orders)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// authorize resolves the store of the request path and checks that it belongs to the caller.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (*service.StoreDto, bool) {
	storeID, ok := web.ParseUUIDParam(w, r, h.logger, "storeId")
	if !ok {
		return nil, false
	}
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return nil, false
	}
	store, err := h.service.AuthorizeStore(r.Context(), userID, storeID)
	if err != nil {
		h.respondServiceError(w, r, err, fmt.Sprintf("Failed to retrieve store with ID %s", storeID))
		return nil, false
	}
	return store, true
}

// respondServiceError maps service errors to HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case errors.Is(err, apperrors.ErrStoreNotFound):
		h.logger.WarnContext(r.Context(), "Store not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, "Store not found")
	case errors.Is(err, apperrors.ErrAccessDenied):
		h.logger.WarnContext(r.Context(), "Access denied to store", "error", err)
		web.RespondError(w, h.logger, http.StatusForbidden, "Access denied to store")
	case errors.Is(err, apperrors.ErrInvalidYear), errors.Is(err, apperrors.ErrUnsupportedFormat):
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), message, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, message)
	}
}
