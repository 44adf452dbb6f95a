package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-origination/config"
	httpLayer "loan-origination/http"
	"loan-origination/logging"
	"loan-origination/repository"
	"loan-origination/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Format = cfg.LogFormat
	logCfg.Component = "server"
	logger := logging.New(logCfg)
	logging.SetDefault(logger)

	calcRepo, closeRepo, err := newCalculationRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo.Close()

	cache, closeCache, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache.Close()

	loanService := service.NewLoanService(calcRepo, cache, logger)
	termRecommendationService := service.NewTermRecommendationService(logger)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		LoanHandler:               httpLayer.NewLoanHandler(loanService),
		TermRecommendationHandler: httpLayer.NewTermRecommendationHandler(termRecommendationService),
		RateLimiter:               rateLimiter,
		Logger:                    logger,
		AllowedOrigins:            cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", server.Addr,
			"cache_backend", cfg.CacheBackend,
			"store_backend", cfg.StoreBackend,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	logger.Info("server exited")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newCalculationRepository(cfg *config.Config) (repository.CalculationRepository, io.Closer, error) {
	if cfg.StoreBackend == config.BackendSQLite {
		repo, err := repository.NewCalculationRepositorySQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening calculation store: %w", err)
		}
		return repo, repo, nil
	}
	return repository.NewCalculationRepositoryMemory(), nopCloser{}, nil
}

func newCache(cfg *config.Config, logger *logging.Logger) (repository.CacheRepository, io.Closer, error) {
	if cfg.CacheBackend == config.BackendRedis {
		cache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			// the service still works without a cache; lookups just miss
			logger.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "error", err)
		}
		return cache, cache, nil
	}
	return repository.NewMemoryCache(), nopCloser{}, nil
}
