package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"restaurant-availability-backend/config"
	"restaurant-availability-backend/internal/api"
	"restaurant-availability-backend/internal/availability"
	"restaurant-availability-backend/internal/cache"
	"restaurant-availability-backend/internal/db"
	"restaurant-availability-backend/internal/events"
	"restaurant-availability-backend/internal/mw"
	"restaurant-availability-backend/internal/notification"
	"restaurant-availability-backend/internal/rostersync"
	"restaurant-availability-backend/internal/store"
)

const (
	limiterIdle     = 10 * time.Minute
	shutdownTimeout = 5 * time.Second
)

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with roster sync and waitlist workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized", slog.String("driver", cfg.Database.Driver))
	appStore := store.NewGormStore(gormDB)

	engine := availability.NewService(store.NewAvailabilitySource(appStore), cfg.Hours.Operating, cfg.Hours.Location)

	responses, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher := events.Publisher(events.Nop{})
	if cfg.Events.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		// Other replicas' writes evict this replica's cached availability.
		consumer := events.NewKafkaConsumer(cfg.Events.Brokers, cfg.Events.GroupID, cfg.Events.Topic)
		defer consumer.Close()
		go consumer.Consume(ctx, func(ctx context.Context, evt events.ReservationChanged) error {
			return cache.InvalidateTenant(ctx, responses, evt.TenantID)
		})
		slog.Info("reservation events enabled", slog.String("topic", cfg.Events.Topic))
	}

	deps := api.Deps{
		Store:     appStore,
		Engine:    engine,
		Cache:     responses,
		Publisher: publisher,
	}
	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, engine, webpushOptions)
		pool.Start(ctx)
		deps.Waitlist = pool
		deps.WebPush = webpushOptions
		slog.Info("waitlist notifications enabled", slog.Int("workers", cfg.WorkerPool.Size))
	} else {
		slog.Warn("VAPID keys are not configured, waitlist notifications are disabled")
	}

	go rostersync.NewService(cfg.Sync, appStore, responses).Run(ctx)

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	go limiter.RunEviction(ctx, time.Minute, limiterIdle)

	router := api.NewRouter(api.NewHandler(deps), api.RouterOptions{
		Limiter:  limiter,
		IPHeader: cfg.Server.RequestIPHeader,
		Cache:    responses,
		CacheTTL: time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	closeDB(gormDB)
	slog.Info("server gracefully stopped")
	return nil
}

// newCache builds the configured response cache and its cleanup function.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, func(), error) {
	if cfg.Backend != "redis" {
		mem := cache.NewMemory(5*time.Minute, time.Duration(cfg.CleanupMinutes)*time.Minute)
		return mem, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: time.Duration(cfg.DialTimeoutSecs) * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DialTimeoutSecs)*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	slog.Info("redis cache connected", slog.String("addr", cfg.RedisAddr))

	r := cache.NewRedis(client, cfg.KeyPrefix)
	return r, func() {
		if err := r.Close(); err != nil {
			slog.Warn("failed to close redis", slog.Any("error", err))
		}
	}, nil
}

func closeDB(gormDB *gorm.DB) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Warn("failed to close database", slog.Any("error", err))
	}
}
