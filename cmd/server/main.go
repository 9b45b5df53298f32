package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/profitshare/internal/adapter/http"
	"github.com/iho/profitshare/internal/adapter/http/dto"
	"github.com/iho/profitshare/internal/adapter/http/handler"
	"github.com/iho/profitshare/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/profitshare/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/profitshare/internal/adapter/repository/redis"
	"github.com/iho/profitshare/internal/infrastructure/config"
	"github.com/iho/profitshare/internal/infrastructure/logger"
	"github.com/iho/profitshare/internal/infrastructure/metrics"
	"github.com/iho/profitshare/internal/infrastructure/postgres"
	"github.com/iho/profitshare/internal/infrastructure/recalculator"
	"github.com/iho/profitshare/internal/infrastructure/redis"
	"github.com/iho/profitshare/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zlog.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, 0)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	holderRepo := postgresRepo.NewHolderRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	m := metrics.New()

	// Initialize use cases
	calcUC := usecase.NewCalculationUseCase(usecase.CalculationUseCaseConfig{
		PeriodRepo: periodRepo,
		Cache:      cache,
		Observer:   m,
		Logger:     &log,
		CacheTTL:   cfg.CacheTTL,
	})
	recalc := recalculator.New(recalculator.Config{
		History:     calcUC,
		Invalidator: calcUC,
		Logger:      log,
		Interval:    cfg.RecalcInterval,
	})
	periodUC := usecase.NewPeriodUseCase(usecase.PeriodUseCaseConfig{
		TxManager:   txManager,
		PeriodRepo:  periodRepo,
		HolderRepo:  holderRepo,
		Retrier:     retrier,
		IDGen:       idGen,
		Invalidator: recalc,
		Logger:      &log,
	})
	holderUC := usecase.NewHolderUseCase(holderRepo, idGen)
	reconUC := usecase.NewReconciliationUseCase(calcUC)

	money := dto.NewMoneyFormatter(cfg.Currency)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithHitCounter(m.RateLimitHits)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		HolderHandler:         handler.NewHolderHandler(holderUC),
		PeriodHandler:         handler.NewPeriodHandler(periodUC),
		CalculationHandler:    handler.NewCalculationHandler(calcUC, money),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC, money),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           limiter,
		Logger:                log,
	})

	server := newHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := recalc.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := limiter.CleanupLimiters(limiterCleanupInterval); n > 0 {
					log.Debug().Int("removed", n).Msg("rate limiters cleaned up")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
