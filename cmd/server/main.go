// Package main is the entry point for the catalog sync service. It wires all
// dependencies using samber/do v2, starts the HTTP server, and handles
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/commercemesh/catalog-sync/internal/adapters/http"
	"github.com/commercemesh/catalog-sync/internal/adapters/http/handlers"
	"github.com/commercemesh/catalog-sync/internal/adapters/http/middleware"

	"github.com/commercemesh/catalog-sync/internal/adapters/clients"
	"github.com/commercemesh/catalog-sync/internal/adapters/store"
	"github.com/commercemesh/catalog-sync/internal/app"
	"github.com/commercemesh/catalog-sync/internal/app/workflow"
	"github.com/commercemesh/catalog-sync/internal/platform/config"
	"github.com/commercemesh/catalog-sync/internal/platform/health"
	"github.com/commercemesh/catalog-sync/internal/platform/httpclient"
	"github.com/commercemesh/catalog-sync/internal/platform/logging"
	"github.com/commercemesh/catalog-sync/internal/platform/telemetry"
	"github.com/commercemesh/catalog-sync/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

// Named httpclient.Client instances in the DI container; one per downstream.
const (
	clientCommerce = "commerce-client"
	clientContent  = "content-client"
	clientNotifier = "notifier-client"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register downstream clients as readiness checkers after the graph is
	// wired. Only remote backends participate; the in-memory store has no
	// failure mode worth reporting.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	if cfg.Sync.CommerceURL != "" {
		registry.Register(do.MustInvokeNamed[*httpclient.Client](injector, clientCommerce))
	}
	if cfg.Sync.ContentURL != "" {
		registry.Register(do.MustInvokeNamed[*httpclient.Client](injector, clientContent))
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	// One instrumented HTTP client per downstream, sharing the client config.
	do.ProvideNamed(injector, clientCommerce, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "commerce-api", cfg.Sync.CommerceURL, metrics, logger), nil
	})
	do.ProvideNamed(injector, clientContent, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "content-api", cfg.Sync.ContentURL, metrics, logger), nil
	})
	// The notifier addresses its targets with absolute URLs per call.
	do.ProvideNamed(injector, clientNotifier, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "revalidation", "", metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.CommerceQuery, error) {
		client := do.MustInvokeNamed[*httpclient.Client](i, clientCommerce)
		return clients.NewCommerceClient(client, logger), nil
	})

	// Content documents live in the remote content backend when configured,
	// otherwise in an in-memory store with revalidation hooks bound, which
	// is what the content backend's collection hooks do on the remote side.
	do.Provide(injector, func(i do.Injector) (ports.ContentStore, error) {
		if cfg.Sync.ContentURL == "" {
			memStore := store.NewMemoryContentStore(logger)
			dispatcher := do.MustInvoke[ports.Dispatcher](i)
			app.BindRevalidationHooks(memStore, dispatcher, logger)
			return memStore, nil
		}
		client := do.MustInvokeNamed[*httpclient.Client](i, clientContent)
		return clients.NewContentClient(client, cfg.Sync.Secret, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Notifier, error) {
		client := do.MustInvokeNamed[*httpclient.Client](i, clientNotifier)
		return clients.NewRevalidationNotifier(client, cfg.Sync.Secret, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Dispatcher, error) {
		notifier := do.MustInvoke[ports.Notifier](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewRevalidationDispatcher(notifier, app.DispatchConfig{
			StorefrontURL: cfg.Sync.StorefrontURL,
			GatewayURL:    cfg.Sync.GatewayURL,
			Secret:        cfg.Sync.Secret,
		}, logger, metrics), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.CacheGateway, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		var cache ports.PatternCache
		if cfg.Sync.CacheEnabled {
			cache = store.NewMemoryPatternCache()
		}
		return app.NewGatewayService(cache, logger, metrics), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.TagCache, error) {
		return store.NewMemoryTagCache(), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.CatalogSync, error) {
		commerce := do.MustInvoke[ports.CommerceQuery](i)
		content := do.MustInvoke[ports.ContentStore](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		runner := workflow.NewRunner(logger)
		return app.NewSyncService(commerce, content, runner, logger, metrics), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.InvalidateHandler, error) {
		gateway := do.MustInvoke[ports.CacheGateway](i)
		return handlers.NewInvalidateHandler(gateway, cfg.Sync.Secret, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.RevalidateHandler, error) {
		cache := do.MustInvoke[ports.TagCache](i)
		return handlers.NewRevalidateHandler(cache, cfg.Sync.Secret, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.SyncHandler, error) {
		svc := do.MustInvoke[ports.CatalogSync](i)
		return handlers.NewSyncHandler(svc, cfg.Sync.Secret, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		invalidateH := do.MustInvoke[*handlers.InvalidateHandler](i)
		revalidateH := do.MustInvoke[*handlers.RevalidateHandler](i)
		syncH := do.MustInvoke[*handlers.SyncHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(invalidateH, revalidateH, syncH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
