package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/config"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/crm"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/event"
	handler "github.com/michaelpizzardello/outsider-site-sub000/internal/handler/http"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/mailer"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/mailing"
	redisrepo "github.com/michaelpizzardello/outsider-site-sub000/internal/repository/redis"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/health"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/httpclient"
	pkgkafka "github.com/michaelpizzardello/outsider-site-sub000/pkg/kafka"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/tracing"
)

// App wires together all dependencies and runs the storefront API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// upstreamClient builds a retrying HTTP client behind a named circuit
// breaker, one per external dependency so a Shopify outage cannot trip the
// breaker for the CRM.
func upstreamClient(name string, logger *slog.Logger) *httpclient.CircuitBreakerClient {
	base := httpclient.New(httpclient.DefaultConfig())
	return httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig(name), logger)
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront-api",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis content cache.
	rdb, err := redisrepo.Connect(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)
	contentCache := redisrepo.NewContentCache(rdb)

	// Kafka producer for lead events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Outbound clients, each behind its own circuit breaker.
	shopifyClient := shopify.NewClient(
		cfg.ShopDomain, cfg.ShopAPIVersion, cfg.StorefrontToken,
		upstreamClient("shopify", logger), logger,
	)
	crmClient := crm.NewClient(cfg.CRMBaseURL, cfg.CRMAPIKey, upstreamClient("crm", logger), logger)

	var mailingClient service.MailingClient
	if cfg.MailingBaseURL != "" && cfg.MailingListID != "" {
		mailingClient = mailing.NewClient(
			cfg.MailingBaseURL, cfg.MailingAPIKey, cfg.MailingListID,
			upstreamClient("mailing", logger), logger,
		)
	} else {
		logger.Warn("mailing list not configured, subscriptions disabled")
	}

	var mailerClient service.MailerClient
	if cfg.MailerBaseURL != "" {
		mailerClient = mailer.NewClient(cfg.MailerBaseURL, cfg.MailerAPIKey, upstreamClient("mailer", logger), logger)
	} else {
		logger.Warn("transactional mailer not configured, notifications disabled")
	}

	// Build the dependency graph.
	cacheTTL := time.Duration(cfg.ContentCacheTTL) * time.Second
	publisher := event.NewPublisher(producer, logger)
	catalogService := service.NewCatalogService(shopifyClient, contentCache, cacheTTL, logger)
	cartService := service.NewCartService(shopifyClient, logger)
	leadService := service.NewLeadService(crmClient, mailingClient, mailerClient, publisher, service.LeadConfig{
		NotifyFrom: cfg.LeadNotifyFrom,
		NotifyTo:   cfg.LeadNotifyTo,
	}, logger)
	sitemapService := service.NewSitemapService(catalogService, cfg.PublicBaseURL, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(catalogService, cartService, leadService, sitemapService, healthHandler, logger, handler.RouterConfig{
		ShopDomain:     cfg.ShopDomain,
		SecureCookies:  cfg.SecureCookies,
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		SitemapMaxAge:  cfg.SitemapMaxAge,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Drain in-flight HTTP requests with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Flush pending spans after HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
