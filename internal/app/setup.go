// Package app contains the application setup for the dashboard service.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Paaanciitoo/admin-ecommerce/internal/config"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/server"
	"github.com/Paaanciitoo/admin-ecommerce/internal/service"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store"
	"github.com/Paaanciitoo/admin-ecommerce/internal/transport/rest"
	"github.com/go-chi/chi/v5"
)

// ServiceName names the service in telemetry, logs and environment variables.
const ServiceName = "dashboard"

type Dependencies struct {
	DashboardService service.DashboardService
	Logger           *slog.Logger
}

// SetupDependencies builds the dashboard service over dashboardStore, using the time zone
// and locale of cfg. opts are applied after them.
func SetupDependencies(dashboardStore store.DashboardStore, cfg *config.Config, logger *slog.Logger, opts ...service.Option) (*Dependencies, error) {
	loc, err := cfg.Dashboard.Location()
	if err != nil {
		return nil, err
	}
	names, err := cfg.Dashboard.MonthNames()
	if err != nil {
		return nil, fmt.Errorf("invalid dashboard locale: %w", err)
	}
	base := []service.Option{service.WithLocation(loc), service.WithMonthNames(names)}
	dService := service.NewService(dashboardStore, append(base, opts...)...)

	return &Dependencies{
		DashboardService: dService,
		Logger:           logger,
	}, nil
}

// SetupHttpHandler initializes the routes and middleware of the dashboard.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes of the dashboard.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	dashboardHandler := rest.NewHandler(deps.DashboardService, deps.Logger)
	dashboardHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server of the dashboard.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(ServiceName, cfg.HTTPServer, SetupHttpHandler(deps))
}
