package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/agilechain/chainsync/internal/api"
	v1 "github.com/agilechain/chainsync/internal/api/v1"
	"github.com/agilechain/chainsync/internal/app/storage"
	"github.com/agilechain/chainsync/internal/backend"
	"github.com/agilechain/chainsync/internal/config"
	"github.com/agilechain/chainsync/internal/httpclient"
	"github.com/agilechain/chainsync/internal/ledger"
	"github.com/agilechain/chainsync/internal/status"
	"github.com/agilechain/chainsync/internal/sync/breaker"
	"github.com/agilechain/chainsync/internal/sync/coordinator"
	"github.com/agilechain/chainsync/internal/sync/txsync"
	"github.com/agilechain/chainsync/internal/telemetry"
	"github.com/agilechain/chainsync/internal/versions"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 90 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// AppOptions is a function that configures the app builder
type AppOptions func(*appConfig) error

// appConfig collects the builder inputs.
// It supports dependency injection for testing while providing sensible defaults for production.
type appConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	storageFactory storage.Factory
	gateway        ledger.Gateway
	ledgerWriter   ledger.Writer
	teamProvider   coordinator.TeamProvider
	coordOpts      []coordinator.Option

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metricsHandler http.Handler
}

func baseConfig(opts ...AppOptions) (*appConfig, error) {
	cfg := &appConfig{
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		idleTimeout:  defaultIdleTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		cfg.config = config.Default()
	}
	if cfg.address == "" {
		cfg.address = cfg.config.Server.GetAddress()
	}
	if cfg.requestTimeout == 0 {
		cfg.requestTimeout = cfg.config.Server.GetRequestTimeout()
	}

	return cfg, nil
}

// NewSyncApp builds every component and the HTTP server
func NewSyncApp(ctx context.Context, opts ...AppOptions) (*SyncApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	components, err := buildComponents(ctx, cfg)
	if err != nil {
		return nil, err
	}

	httpServer, err := buildHTTPServer(ctx, cfg, components)
	if err != nil {
		components.Storage.Cleanup()
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	cancelFunc := func() {
		components.Storage.Cleanup()
		cancel()
	}

	return &SyncApp{
		config:     cfg.config,
		components: components,
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancelFunc,
	}, nil
}

// BuildComponents builds the components without the HTTP server, for one-shot commands.
// The caller owns the returned coordinator and must Stop it.
func BuildComponents(ctx context.Context, opts ...AppOptions) (*AppComponents, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}
	return buildComponents(ctx, cfg)
}

func buildComponents(ctx context.Context, cfg *appConfig) (*AppComponents, error) {
	if cfg.storageFactory == nil {
		f, err := storage.NewStorageFactory(cfg.config)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
		cfg.storageFactory = f
	}

	// Ensure cleanup happens on error
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			cfg.storageFactory.Cleanup()
		}
	}()

	sessions, err := cfg.storageFactory.CreateSessionStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	reports, err := cfg.storageFactory.CreateReportStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create report store: %w", err)
	}

	backendClient := backend.NewClient(
		cfg.config.Backend.BaseURL,
		httpclient.NewDefaultClient(cfg.config.Backend.GetTimeout()),
		backend.SessionToken(sessions),
	)
	if cfg.teamProvider == nil {
		cfg.teamProvider = backendClient
	}

	if cfg.gateway == nil || cfg.ledgerWriter == nil {
		client, err := buildLedgerClient(&cfg.config.Ledger)
		if err != nil {
			return nil, fmt.Errorf("failed to build ledger client: %w", err)
		}
		if cfg.gateway == nil {
			cfg.gateway = client
		}
		if cfg.ledgerWriter == nil {
			cfg.ledgerWriter = client
		}
	}

	coord, err := buildCoordinator(cfg, reports)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync coordinator: %w", err)
	}

	writer, err := buildWriter(cfg, coord)
	if err != nil {
		_ = coord.Stop()
		return nil, fmt.Errorf("failed to build ledger writer: %w", err)
	}

	cleanupNeeded = false
	return &AppComponents{
		Coordinator: coord,
		Gateway:     cfg.gateway,
		Writer:      writer,
		Backend:     backendClient,
		Sessions:    sessions,
		Reports:     reports,
		Storage:     cfg.storageFactory,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) AppOptions {
	return func(cfg *appConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) AppOptions {
	return func(cfg *appConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		parts := strings.SplitN(addr, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		host, port := parts[0], parts[1]
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) AppOptions {
	return func(cfg *appConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) AppOptions {
	return func(cfg *appConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithLedger allows injecting the ledger collaborator (for testing)
func WithLedger(gateway ledger.Gateway, writer ledger.Writer) AppOptions {
	return func(cfg *appConfig) error {
		if gateway == nil || writer == nil {
			return fmt.Errorf("ledger gateway and writer are required")
		}
		cfg.gateway = gateway
		cfg.ledgerWriter = writer
		return nil
	}
}

// WithTeamProvider overrides the backend team lookup
func WithTeamProvider(p coordinator.TeamProvider) AppOptions {
	return func(cfg *appConfig) error {
		cfg.teamProvider = p
		return nil
	}
}

// WithCoordinatorOptions appends options applied after the configured ones
func WithCoordinatorOptions(opts ...coordinator.Option) AppOptions {
	return func(cfg *appConfig) error {
		cfg.coordOpts = append(cfg.coordOpts, opts...)
		return nil
	}
}

// WithTelemetry wires the meter and tracer providers and the /metrics handler
func WithTelemetry(tel *telemetry.Telemetry) AppOptions {
	return func(cfg *appConfig) error {
		if tel == nil {
			return nil
		}
		cfg.meterProvider = tel.MeterProvider()
		cfg.tracerProvider = tel.TracerProvider()
		cfg.metricsHandler = tel.MetricsHandler()
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for sync, ledger and HTTP metrics
func WithMeterProvider(mp metric.MeterProvider) AppOptions {
	return func(cfg *appConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// buildLedgerClient builds the JSON-RPC client of the ledger sidecar
func buildLedgerClient(lc *config.LedgerConfig) (*ledger.RPCClient, error) {
	apiKey, err := lc.GetAPIKey()
	if err != nil {
		return nil, err
	}

	opts := []ledger.RPCOption{
		ledger.WithCallTimeout(lc.GetCallTimeout()),
		ledger.WithResetRetry(lc.Reset.MaxTries, lc.GetResetMaxElapsed()),
	}
	if apiKey != "" {
		opts = append(opts, ledger.WithAPIKey(apiKey))
	}
	if lc.MinVersion != "" {
		minVersion, err := versions.ParseMinimum(lc.MinVersion)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledger.WithMinVersion(minVersion))
	}

	slog.Info("Ledger client configured", "endpoint", lc.Endpoint, "api_key", apiKey != "")
	return ledger.NewRPCClient(lc.Endpoint, opts...), nil
}

// buildCoordinator builds the sync coordinator from the configuration
func buildCoordinator(b *appConfig, reports status.ReportStore) (coordinator.Coordinator, error) {
	slog.Info("Initializing sync coordinator")

	sc := b.config.Sync
	cb := b.config.CircuitBreaker
	opts := []coordinator.Option{
		coordinator.WithThrottleWindow(sc.GetThrottleWindow()),
		coordinator.WithPostWriteDelay(sc.GetPostWriteDelay()),
		coordinator.WithPeriodicSync(sc.Periodic.Enabled, sc.GetPeriodicInterval()),
		coordinator.WithTeamProvider(b.teamProvider),
		coordinator.WithReportStore(reports),
		coordinator.WithBreakerOptions(
			breaker.WithThreshold(cb.GetThreshold()),
			breaker.WithCooldown(cb.GetResetCooldown()),
		),
	}

	if b.meterProvider != nil {
		syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync metrics: %w", err)
		}
		if syncMetrics != nil {
			opts = append(opts, coordinator.WithSyncMetrics(syncMetrics))
			slog.Info("Sync metrics enabled")
		}
	}
	if b.tracerProvider != nil {
		opts = append(opts, coordinator.WithTracer(b.tracerProvider.Tracer(coordinator.TracerName)))
	}

	opts = append(opts, b.coordOpts...)
	return coordinator.New(b.gateway, opts...), nil
}

// buildWriter decorates the ledger writer with the coordinator's transaction-sync hooks
func buildWriter(b *appConfig, coord coordinator.Coordinator) (ledger.Writer, error) {
	var opts []txsync.WriterOption

	if b.meterProvider != nil {
		ledgerMetrics, err := telemetry.NewLedgerMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create ledger metrics: %w", err)
		}
		if ledgerMetrics != nil {
			opts = append(opts, txsync.WithLedgerMetrics(ledgerMetrics))
		}
	}
	if b.tracerProvider != nil {
		opts = append(opts, txsync.WithTracer(b.tracerProvider.Tracer(txsync.TracerName)))
	}

	return txsync.NewWriter(b.ledgerWriter, txsync.FromCoordinator(coord), opts...), nil
}

// buildHTTPServer builds the HTTP server with router and middleware
//
//nolint:unparam // we prefer having a similar interface
func buildHTTPServer(
	_ context.Context,
	b *appConfig,
	c *AppComponents,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Metrics and tracing run first so they observe every request
	var head []func(http.Handler) http.Handler
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			head = append(head, metricsMiddleware)
			slog.Info("HTTP metrics middleware enabled")
		}
	}
	if b.tracerProvider != nil {
		head = append(head, telemetry.TracingMiddleware(b.tracerProvider))
	}
	middlewares := append(head, b.middlewares...)

	serverOpts := []api.ServerOption{api.WithMiddlewares(middlewares...)}
	if b.metricsHandler != nil {
		serverOpts = append(serverOpts, api.WithMetricsHandler(b.metricsHandler))
	}

	routes := v1.NewRoutes(c.Coordinator, c.Gateway, c.Writer, c.Sessions)
	router := api.NewServer(routes, serverOpts...)

	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
