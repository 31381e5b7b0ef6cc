package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/salonstore-backend/api/controllers"
	"github.com/angelmondragon/salonstore-backend/api/routes"
	"github.com/angelmondragon/salonstore-backend/internal/cart"
	"github.com/angelmondragon/salonstore-backend/internal/catalog"
	"github.com/angelmondragon/salonstore-backend/pkg/config"
	"github.com/angelmondragon/salonstore-backend/pkg/db"
	"github.com/angelmondragon/salonstore-backend/pkg/instance"
	"github.com/angelmondragon/salonstore-backend/pkg/logger"
	"github.com/angelmondragon/salonstore-backend/pkg/metrics"
	"github.com/angelmondragon/salonstore-backend/pkg/migrate"
	"github.com/angelmondragon/salonstore-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers := []func() error{dbClient.Close}

	var (
		idempotency redis.IdempotencyStore
		readiness   = []controllers.ReadinessCheck{{Name: "database", Pinger: dbClient}}
	)
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			_ = dbClient.Close()
			return redisErr
		}
		closers = append(closers, redisClient.Close)
		idempotency = redisClient
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
	} else {
		logg.Warn(ctx, "redis not configured, idempotent replay disabled")
	}

	defer func() {
		var closeErr error
		for i := len(closers) - 1; i >= 0; i-- {
			closeErr = multierr.Append(closeErr, closers[i]())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing dependencies", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, metrics.NewCartMetrics(registry))
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), catalog.Options{
		LowStockThreshold: cfg.Cart.LowStockThreshold,
		Currency:          cfg.Cart.Currency,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:         cfg,
			Logger:         logg,
			Cart:           cartService,
			Catalog:        catalogService,
			Idempotency:    idempotency,
			Readiness:      readiness,
			RequestMetrics: metrics.NewHTTPMetrics(registry),
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
