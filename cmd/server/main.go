package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"pockettill/backend/internal/cache"
	"pockettill/backend/internal/config"
	"pockettill/backend/internal/httpapi"
	"pockettill/backend/internal/metrics"
	"pockettill/backend/internal/pos"
	"pockettill/backend/internal/store"
	"pockettill/backend/internal/store/memory"
	"pockettill/backend/internal/store/pebbledb"
	pgstore "pockettill/backend/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var blobStore store.Store
	closers := make([]func() error, 0, 2)

	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres unavailable and DATABASE_URL is set; refusing in-memory fallback")
		}
		blobStore = pg
		closers = append(closers, pg.Close)
		logger.Info().Msg("store: postgres")
	case cfg.DataDir != "":
		pb, err := pebbledb.Open(cfg.DataDir)
		if err != nil {
			logger.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("pebble store unavailable")
		}
		blobStore = pb
		closers = append(closers, pb.Close)
		logger.Info().Str("data_dir", cfg.DataDir).Msg("store: pebble")
	default:
		blobStore = memory.New()
		logger.Info().Msg("store: in-memory")
	}

	snapshots := cache.SnapshotCache(cache.NoopSnapshotCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSnapshotCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, using noop snapshot cache")
		} else {
			snapshots = redisCache
			closers = append(closers, redisCache.Close)
			logger.Info().Msg("snapshot cache: redis")
		}
	} else {
		logger.Info().Msg("snapshot cache: noop")
	}

	registry := metrics.NewRegistry()

	session, err := pos.NewSession(ctx, pos.Options{
		Store:   blobStore,
		Cache:   snapshots,
		Metrics: registry,
		Logger:  logger.With().Str("component", "pos").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("session init failed")
	}

	api := httpapi.New(session, snapshots, registry.Handler(), logger.With().Str("component", "httpapi").Logger())

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Address()).Msg("POS backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error().Err(err).Msg("close error")
		}
	}

	logger.Info().Msg("server stopped")
}
