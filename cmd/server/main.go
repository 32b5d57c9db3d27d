package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/config"
	"github.com/segyhp/clinic-finance-engine/internal/handler"
	"github.com/segyhp/clinic-finance-engine/internal/repository"
	"github.com/segyhp/clinic-finance-engine/internal/service"
	"github.com/segyhp/clinic-finance-engine/pkg/logger"
	"github.com/segyhp/clinic-finance-engine/pkg/response"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	// Initialize database. The engine keeps answering from the built-in fee
	// schedules when it is unreachable.
	var healthChecks = map[string]handler.Pinger{}
	var provider repository.FeeScheduleProvider

	db, err := initDB(cfg)
	if err != nil {
		zapLogger.Warn("database unavailable, clinic fee schedules disabled", zap.Error(err))
	} else {
		defer db.Close()

		// Initialize Redis
		redisClient := initRedis(cfg)
		defer redisClient.Close()

		//Initialize repositories
		feeProfileRepo := repository.NewFeeProfileRepository(db)
		feeProfileCache := repository.NewFeeProfileCache(redisClient, cfg.GetFeeCacheTTL())
		provider = repository.NewClinicFeeScheduleProvider(feeProfileRepo, feeProfileCache, cfg.GetFeeLookupTimeout(), zapLogger)

		healthChecks["database"] = feeProfileRepo
		healthChecks["redis"] = feeProfileCache
	}

	//Initialize service
	calculationService := service.NewCalculationService(provider, service.NewSettings(cfg), zapLogger)
	calculationHandler := handler.NewCalculationHandler(calculationService, service.NewRequestGuard())
	healthHandler := handler.NewHealthHandler(cfg.GetHealthTimeout(), healthChecks)
	rateLimiter := handler.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst,
		handler.WithTrustedProxy(cfg.HTTP.TrustProxyHeaders),
		handler.WithIdleTTL(cfg.GetRateLimitIdleTTL()),
	)

	// Setup routes
	router := setupRoutes(calculationHandler, healthHandler, rateLimiter, zapLogger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", handler.SessionHeader, response.RequestIDHeader},
		ExposedHeaders: []string{response.RequestIDHeader},
	})

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	calculationHandler *handler.CalculationHandler,
	healthHandler *handler.HealthHandler,
	rateLimiter *handler.RateLimiter,
	zapLogger *zap.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.RequestIDMiddleware, response.LoggingMiddleware(zapLogger), handler.MetricsMiddleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	/// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(rateLimiter.Middleware)
	calculationHandler.RegisterRoutes(api)

	return router
}
