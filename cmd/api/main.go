package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk-backend/config"
	"orderdesk-backend/internal/delivery/http/middleware"
	v1 "orderdesk-backend/internal/delivery/http/v1"
	"orderdesk-backend/internal/domain"
	"orderdesk-backend/internal/infrastructure/cache"
	"orderdesk-backend/internal/infrastructure/courier"
	"orderdesk-backend/internal/infrastructure/notify"
	"orderdesk-backend/internal/infrastructure/twofactor"
	"orderdesk-backend/internal/infrastructure/vendors"
	"orderdesk-backend/internal/repository/memory"
	"orderdesk-backend/internal/repository/postgres"
	"orderdesk-backend/internal/repository/sqlite"
	"orderdesk-backend/internal/usecase"
	"orderdesk-backend/pkg/logger"
	"orderdesk-backend/pkg/metrics"
	"orderdesk-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

const serviceName = "orderdesk-backend"

var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	recorder := metrics.New()

	// Record store
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open record store")
	}
	defer closeStore()
	logger.Info().Str("driver", cfg.StoreDriver).Msg("Record store ready")

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 10m
	memCache := cache.NewMemoryCache(30*time.Minute, 10*time.Minute)

	// Collaborators
	var vendorSource domain.VendorRegistry = vendors.NewStaticRegistry(cfg.Vendors)
	if cfg.VendorRegistryFile != "" {
		vendorSource = vendors.NewFileRegistry(cfg.VendorRegistryFile)
	}
	vendorRegistry := vendors.NewCachedRegistry(vendorSource, memCache, cfg.VendorCacheTTL)

	var tracking domain.TrackingProvider = courier.NewLocalProvider(cfg.TrackingPrefix)
	if cfg.TrackingProviderURL != "" {
		tracking = courier.NewHTTPProvider(cfg.TrackingProviderURL, cfg.TrackingTimeout)
	}

	var sink notify.Sink = notify.LogSink{}
	if cfg.AMQPUrl != "" {
		publisher, err := notify.NewPublisher(cfg.AMQPUrl, cfg.AMQPExchange)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect notification broker")
		}
		defer publisher.Close()
		sink = publisher
		logger.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing notifications to RabbitMQ")
	}
	dispatcher := notify.NewDispatcher(sink, cfg.NotifyBuffer, recorder)

	var verifier domain.Verifier
	if cfg.TwoFactorURL != "" {
		verifier = twofactor.NewHTTPVerifier(cfg.TwoFactorURL, 5*time.Second)
	}

	// --- Modules Initialization ---
	opts := []usecase.Option{
		usecase.WithNotifier(dispatcher),
		usecase.WithMetrics(recorder),
	}
	orderUC := usecase.NewOrderUsecase(repo, opts...)
	requestUC := usecase.NewRequestUsecase(repo, opts...)
	allotmentUC := usecase.NewAllotmentUsecase(repo, vendorRegistry, tracking, opts...)
	queryUC := usecase.NewQueryUsecase(repo, recorder)
	confirmUC := usecase.NewConfirmationUsecase(memCache, verifier, cfg.Require2FA, cfg.ConfirmationTTL)
	statsUC := usecase.NewStatsUsecase(repo, memCache)

	// Set up Router
	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Orders:        v1.NewAdminOrderHandler(orderUC, queryUC, confirmUC),
		Returns:       v1.NewAdminReturnHandler(requestUC, queryUC),
		Exchanges:     v1.NewAdminExchangeHandler(requestUC, queryUC),
		Allotment:     v1.NewAllotmentHandler(allotmentUC),
		Confirmations: v1.NewConfirmationHandler(confirmUC),
		Config:        v1.NewConfigHandler(memCache),
		Stats:         v1.NewAdminStatsHandler(statsUC),
	})

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": cfg.StoreDriver})
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers
	mux.Handle("GET /metrics", recorder.Handler())

	rateLimiter := middleware.NewRateLimiterFromConfig(ctx, cfg)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, version, cfg.Port)

	// Wait for interrupt signal via channel
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	// Handlers are done, so nothing enqueues after this.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Notification queue not drained")
	}

	logger.ServiceStop(serviceName)
}

// openStore builds the RecordRepository chosen by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (domain.RecordRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case config.StorePostgres:
		pool, err := postgres.NewPgxPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewRecordRepository(pool), pool.Close, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}
