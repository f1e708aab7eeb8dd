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

	"eventmarket/db"
	"eventmarket/db/migrations"
	"eventmarket/internal/config"
	"eventmarket/internal/discovery"
	"eventmarket/internal/geo"
	"eventmarket/internal/handlers"
	"eventmarket/internal/market"
	"eventmarket/internal/ports"
	"eventmarket/internal/vendors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer dbConn.Close()

	if err := migrations.Run(ctx, dbConn.DB, log); err != nil {
		return err
	}
	if cfg.MigrateOnly {
		return nil
	}

	policy, err := market.ParseAwardPolicy(cfg.AwardPolicy)
	if err != nil {
		return err
	}

	var directory ports.GeoDirectory
	if cfg.GeoBaseURL != "" {
		directory = geo.NewClient(cfg.GeoBaseURL, cfg.GeoTimeout)
	} else {
		log.Warn("GEO_BASE_URL is not set, locations are disabled")
	}

	var cache discovery.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, discovery cache will miss", slog.Any("error", err))
		}
		cache = discovery.NewRedisCache(rdb, cfg.DiscoveryCacheTTL)
	}

	store := db.NewStorage(dbConn)
	finder := discovery.NewPipeline(store, directory, cache, cfg.Locale(), log)
	h := handlers.NewHandler(
		market.NewService(store, directory, policy, log),
		vendors.NewService(store, directory, finder, log),
		finder,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handlers.NewRouter(h),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", srv.Addr), slog.String("award_policy", string(policy)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
