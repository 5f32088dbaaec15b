package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/shivanimeena11/plantweb/api/routes"
	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/checkout"
	"github.com/shivanimeena11/plantweb/internal/cron"
	"github.com/shivanimeena11/plantweb/internal/gate"
	"github.com/shivanimeena11/plantweb/internal/session"
	"github.com/shivanimeena11/plantweb/internal/shopper"
	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/config"
	"github.com/shivanimeena11/plantweb/pkg/env"
	"github.com/shivanimeena11/plantweb/pkg/instance"
	"github.com/shivanimeena11/plantweb/pkg/logger"
	"github.com/shivanimeena11/plantweb/pkg/metrics"
)

const (
	housekeepingInterval = 5 * time.Minute
	shutdownTimeout      = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api", Format: env.Get("PLANTWEB_LOG_FORMAT", logger.FormatJSON)})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, pinger, err := storage.Open(runCtx, cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open storage", err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load catalog", err)
		_ = provider.Close()
		os.Exit(1)
	}

	var (
		storefront     *metrics.Storefront
		metricsHandler http.Handler
	)
	if cfg.FeatureFlags.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		storefront = metrics.NewStorefront(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	registry, err := shopper.NewRegistry(shopper.Params{
		Storage: provider,
		Catalog: cat,
		Logger:  logg,
		Metrics: storefront,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shopper registry", err)
		_ = provider.Close()
		os.Exit(1)
	}
	housekeeping, err := newHousekeeping(provider, registry, cfg.Session.SessionTTL, logg, storefront)
	if err != nil {
		logg.Error(context.Background(), "failed to create housekeeping", err)
		_ = provider.Close()
		os.Exit(1)
	}
	go func() {
		_ = housekeeping.Run(runCtx)
	}()

	var gateMetrics gate.Recorder
	if storefront != nil {
		gateMetrics = storefront
	}
	accessGate := gate.New(gate.Options{Logger: logg, Metrics: gateMetrics})

	deps := routes.Dependencies{
		Config:     cfg,
		Logger:     logg,
		Pinger:     pinger,
		Sessions:   provider,
		Catalog:    cat,
		Workspaces: registry,
		Session:    session.NewService(logg),
		Checkout:   checkout.NewService(logg),
		Gate:       accessGate,
		Metrics:    metricsHandler,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := multierr.Combine(server.Shutdown(shutdownCtx), provider.Close()); err != nil {
		logg.Error(ctx, "error during shutdown", err)
		exitCode = 1
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newHousekeeping evicts idle workspaces after the session ttl and, for backends that need it,
// sweeps expired session markers.
func newHousekeeping(provider *storage.Provider, registry *shopper.Registry, idle time.Duration, logg *logger.Logger, storefront *metrics.Storefront) (*cron.Service, error) {
	jobs := cron.NewRegistry()
	eviction, err := cron.NewEvictionJob(registry, idle, logg)
	if err != nil {
		return nil, err
	}
	jobs.Register(eviction)
	if purger, ok := provider.Purger(); ok {
		purge, err := cron.NewPurgeJob(purger, logg)
		if err != nil {
			return nil, err
		}
		jobs.Register(purge)
	}

	var recorder cron.Recorder
	if storefront != nil {
		recorder = storefront
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Metrics:  recorder,
		Interval: housekeepingInterval,
	})
}
