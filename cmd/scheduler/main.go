package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/config"
	"github.com/segyhp/clinic-finance-engine/internal/repository"
	"github.com/segyhp/clinic-finance-engine/internal/service"
	"github.com/segyhp/clinic-finance-engine/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
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

	zapLogger.Info("starting fee cache scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	warmer := service.NewFeeCacheWarmer(
		repository.NewFeeProfileRepository(db),
		repository.NewFeeProfileCache(redisClient, cfg.GetFeeCacheTTL()),
		zapLogger,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		zapLogger.Warn("unknown scheduler timezone, using UTC", zap.String("timezone", cfg.Scheduler.Timezone))
		location = time.UTC
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithLocation(location))

	// Schedule tasks
	if err := setupCronJobs(c, cfg, warmer, zapLogger); err != nil {
		zapLogger.Fatal("failed to schedule jobs", zap.Error(err))
	}

	// Warm once at startup so the server does not start cold
	runWarmUp(warmer, cfg, zapLogger)

	// Start the scheduler
	c.Start()
	zapLogger.Info("scheduler started", zap.Duration("interval", cfg.GetSchedulerInterval()))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down scheduler")
	<-c.Stop().Done()
	zapLogger.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, warmer *service.FeeCacheWarmer, zapLogger *zap.Logger) error {
	// Refresh the cache before entries written by the previous run expire
	_, err := c.AddFunc("@every "+cfg.GetSchedulerInterval().String(), func() {
		runWarmUp(warmer, cfg, zapLogger)
	})
	return err
}

func runWarmUp(warmer *service.FeeCacheWarmer, cfg *config.Config, zapLogger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetSchedulerInterval())
	defer cancel()

	if _, err := warmer.Warm(ctx); err != nil {
		zapLogger.Error("fee cache warm-up failed", zap.Error(err))
	}
}
