package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/tourguide/internal/api"
	"github.com/neexbeast/tourguide/internal/cache"
	"github.com/neexbeast/tourguide/internal/gps"
	"github.com/neexbeast/tourguide/internal/guide"
	"github.com/neexbeast/tourguide/internal/rewards"
	"github.com/neexbeast/tourguide/internal/trip"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	redisURL := mustEnv("REDIS_URL")
	bearerToken := mustEnv("BEARER_TOKEN")
	port := getEnv("PORT", "8080")

	cfg := guide.Config{
		GPSWorkers:      getIntEnv("GPS_WORKERS", 256),
		RewardWorkers:   getIntEnv("REWARD_WORKERS", 512),
		BatchSize:       getIntEnv("BATCH_SIZE", 2000),
		InternalUsers:   getIntEnv("INTERNAL_USERS", 100),
		TrackerInterval: getDurationEnv("TRACKER_INTERVAL", 5*time.Minute),
	}

	ctx := context.Background()

	// Connect to Redis.
	redisClient, err := cache.Connect(ctx, redisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	// Wire dependencies.
	provider := gps.NewSimulator()
	catalog := cache.NewCatalog(redisClient, provider, log)
	engine := guide.New(cfg, provider, catalog, rewards.NewCentral(), trip.NewSimulator(), log)

	if err := engine.StartTracker(); err != nil {
		return fmt.Errorf("starting tracker: %w", err)
	}
	log.Info("background tracker started", "interval", cfg.TrackerInterval)

	handlers := api.NewHandlers(engine, log)
	router := api.NewRouter(handlers, bearerToken, &redisPingerAdapter{client: redisClient}, log)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		engine.StopTracker()
		return err
	}

	if clean := engine.StopTracker(); !clean {
		log.Warn("tracker abandoned mid-pass during shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable not set", "key", key)
		os.Exit(1)
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("environment variable is not an integer", "key", key, "value", v)
		os.Exit(1)
	}
	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Error("environment variable is not a duration", "key", key, "value", v)
		os.Exit(1)
	}
	return d
}

// redisPingerAdapter adapts redis.Client to the api pinger interface.
type redisPingerAdapter struct {
	client *redis.Client
}

func (r *redisPingerAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
