// Package main runs the store dashboard HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/Paaanciitoo/admin-ecommerce/internal/app"
	"github.com/Paaanciitoo/admin-ecommerce/internal/cache"
	"github.com/Paaanciitoo/admin-ecommerce/internal/config"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/bootstrap"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/config/configloader"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/migrate"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/server"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/telemetry"
	"github.com/Paaanciitoo/admin-ecommerce/internal/service"
	"github.com/Paaanciitoo/admin-ecommerce/internal/store"
	"github.com/Paaanciitoo/admin-ecommerce/migrations"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, sets up the database connection, and starts the HTTP, metrics and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](app.ServiceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, app.ServiceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to create tracer provider: %w", err)
	}
	registry := telemetry.NewRegistry()
	meterProvider, err := telemetry.NewMeterProvider(app.ServiceName, registry)
	if err != nil {
		return fmt.Errorf("failed to create meter provider: %w", err)
	}

	if cfg.Database.Migrate {
		if err := migrate.Up(migrations.FS, cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create database connection pool: %w", err)
	}
	defer dbPool.Close()
	logger.Info("Successfully connected to the database!")

	var opts []service.Option
	if cfg.Cache.Enabled {
		redisClient := cache.NewRedisClient(cfg.Cache)
		defer func() { _ = redisClient.Close() }()
		opts = append(opts, service.WithCache(cache.NewRedisCache(redisClient, cfg.Cache)))
		logger.Info("Overview cache enabled", slog.String("addr", cfg.Cache.Addr), slog.Duration("ttl", cfg.Cache.TTL))
	}

	deps, err := app.SetupDependencies(store.NewPgStore(dbPool), cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to set up dependencies: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	serve(gCtx, g, logger, cfg.Shutdown.Timeout, "HTTP", app.SetupHttpServer(deps, cfg))
	if cfg.Metrics.Enabled {
		serve(gCtx, g, logger, cfg.Shutdown.Timeout, "Metrics", server.NewMetricsServer(cfg.Metrics, registry))
	}
	if cfg.PProf.Enabled {
		serve(gCtx, g, logger, cfg.Shutdown.Timeout, "Pprof", server.NewPprofServer(cfg.PProf))
	}

	// gracefully shutdown telemetry providers, flushing pending spans
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down telemetry providers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return errors.Join(tracerProvider.Shutdown(shutdownCtx), meterProvider.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// serve runs srv in g and shuts it down gracefully once gCtx is cancelled.
func serve(gCtx context.Context, g *errgroup.Group, logger *slog.Logger, shutdownTimeout time.Duration, name string, srv *http.Server) {
	g.Go(func() error {
		logger.Info(name+" server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
