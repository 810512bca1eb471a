package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vistaluz/catalog-search/internal/catalog"
	"github.com/vistaluz/catalog-search/internal/config"
	"github.com/vistaluz/catalog-search/internal/engine"
	"github.com/vistaluz/catalog-search/internal/event"
	handler "github.com/vistaluz/catalog-search/internal/handler/http"
	"github.com/vistaluz/catalog-search/internal/service"
	"github.com/vistaluz/catalog-search/internal/source"
	"github.com/vistaluz/catalog-search/pkg/health"
	pkgkafka "github.com/vistaluz/catalog-search/pkg/kafka"
	"github.com/vistaluz/catalog-search/pkg/tracing"
)

// App wires together all dependencies and runs the search service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	service         *service.SearchService
	snapshotCache   *source.SnapshotCache
	consumers       []*pkgkafka.Consumer
	dlq             *pkgkafka.DLQProducer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Tracing first so every later component picks up the global provider.
	tracingCfg := tracing.DefaultConfig("catalog-search")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	store := catalog.New()
	fetcher := source.NewFetcher(cfg.ProductServiceURL, logger)

	// The snapshot cache is optional. A missing or unreachable Redis only
	// costs warm restarts, never correctness.
	var snapshotCache *source.SnapshotCache
	if cfg.RedisAddr != "" {
		snapshotCache, err = source.NewSnapshotCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SnapshotTTL, logger)
		if err != nil {
			logger.Warn("snapshot cache unavailable, continuing without it",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			snapshotCache = nil
		}
	}

	// A typed-nil *SnapshotCache must not reach the service as a non-nil
	// interface.
	var cacheIface service.SnapshotCache
	if snapshotCache != nil {
		cacheIface = snapshotCache
	}
	searchService := service.NewSearchService(store, engine.New(), fetcher, cacheIface, logger)

	// Kafka consumers for catalog events.
	var consumers []*pkgkafka.Consumer
	var dlq *pkgkafka.DLQProducer
	if !cfg.KafkaDisabled {
		eventConsumer := event.NewConsumer(searchService, logger)

		// Snapshot application is idempotent per event, so a short
		// dedupe window is enough to absorb redeliveries.
		idemStore := pkgkafka.NewMemoryIdempotencyStore(30 * time.Minute)
		h := pkgkafka.IdempotentHandler(idemStore, eventConsumer.Handle, logger)

		dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)

		for _, topic := range event.Topics() {
			consumerCfg := pkgkafka.ConsumerConfig{
				Brokers:  cfg.KafkaBrokers,
				GroupID:  cfg.KafkaGroupID,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6, // 10 MB
			}
			consumers = append(consumers, pkgkafka.NewConsumer(consumerCfg, h, logger).WithDLQ(dlq))
		}
		logger.Info("kafka consumers initialized",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.Int("topic_count", len(event.Topics())),
		)
	}

	// Health checks.
	healthHandler := health.NewHandler()
	if !cfg.KafkaDisabled {
		healthHandler.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
	}
	if snapshotCache != nil {
		healthHandler.Register("redis", snapshotCache.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(searchService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		service:         searchService,
		snapshotCache:   snapshotCache,
		consumers:       consumers,
		dlq:             dlq,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and Kafka consumers, blocking until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Seed the catalog before accepting traffic. Failure is non-fatal;
	// the catalog stays empty until the first snapshot event.
	a.service.Warmup(ctx)

	errCh := make(chan error, 1+len(a.consumers))

	// Start Kafka consumers in background goroutines.
	for _, c := range a.consumers {
		c := c
		go func() {
			if err := c.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	// Start HTTP server.
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

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Close Kafka consumers.
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.snapshotCache != nil {
		if err := a.snapshotCache.Close(); err != nil {
			a.logger.Error("snapshot cache close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
