package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"verm_airdrop/internal/api"
	"verm_airdrop/internal/api/response"
	"verm_airdrop/internal/middleware"
	"verm_airdrop/internal/ratelimit"
	"verm_airdrop/internal/repository"
	"verm_airdrop/internal/repository/memory"
	"verm_airdrop/internal/service"
	"verm_airdrop/internal/validation"
	"verm_airdrop/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type store interface {
	service.RegistrationRepository
	service.VerificationRepository
	service.ReferralRepository
	Close() error
}

func main() {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	gin.SetMode(cfg.Server.Mode)
	response.ExposeInternalErrors(!cfg.IsProduction())

	st, err := openStore(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer st.Close()

	validate := validation.New()
	referralService := service.NewReferralService(st, validate)
	svc := service.NewService(
		service.NewRegistrationService(st, referralService, service.NoBalanceChecker{}, validate),
		service.NewVerificationService(st, validate),
		referralService,
	)

	limiterStore, memoryLimiterStore, closeLimiter := openLimiterStore(cfg)
	defer closeLimiter()

	sched, err := startScheduler(cfg.RateLimit.PurgeInterval, memoryLimiterStore)
	if err != nil {
		zapLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	router := api.NewRouter(svc, api.RouterConfig{
		PingMessage:  cfg.PingMessage,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Limits: api.Limits{
			Registration: limit(ratelimit.Registration, cfg.RateLimit.Registration, limiterStore),
			Verification: limit(ratelimit.Verification, cfg.RateLimit.Verification, limiterStore),
			General:      limit(ratelimit.General, cfg.RateLimit.General, limiterStore),
		},
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Environment),
			zap.String("database", cfg.Database.Driver),
			zap.String("rate_limit_store", cfg.RateLimit.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		zapLogger.Error("Scheduler shutdown failed", zap.Error(err))
	}
}

func openStore(cfg repository.Config) (store, error) {
	if cfg.Driver == repository.DriverMemory {
		logger.Logger().Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	repo, err := repository.New(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		if err := repo.Migrate(); err != nil {
			repo.Close()
			return nil, err
		}
	}

	return repo, nil
}

// openLimiterStore returns the counter store for the configured backend. The memory
// store is also returned on its own so the scheduler can purge it.
func openLimiterStore(cfg *Config) (ratelimit.Store, *ratelimit.MemoryStore, func()) {
	if cfg.RateLimit.Store != "redis" {
		mem := ratelimit.NewMemoryStore()
		return mem, mem, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger().Warn("Redis unreachable, rate limiting fails open until it recovers", zap.Error(err))
	}

	return ratelimit.NewRedisStore(client), nil, func() {
		if err := client.Close(); err != nil {
			logger.Logger().Warn("Failed to close redis client", zap.Error(err))
		}
	}
}

func limit(name string, rule ratelimit.Rule, st ratelimit.Store) gin.HandlerFunc {
	return middleware.NewRateLimit(ratelimit.New(name, rule, st)).Handle()
}
