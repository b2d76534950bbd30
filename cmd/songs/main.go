package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/songsvc/songs-service/internal/config"
	"github.com/songsvc/songs-service/internal/server"
	"github.com/songsvc/songs-service/internal/song/service"
	"github.com/songsvc/songs-service/pkg/logger"
	"github.com/songsvc/songs-service/pkg/metrics"
)

func main() {
	// LOG_LEVEL is read directly so config loading itself can be traced
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.SetFormat(cfg.Log.Format)
	logger.Infof("config loaded: backend=%s redis=%v rate_limit=%v", cfg.Store.Backend, cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Errorf("songs service failed: %v", err)
		os.Exit(1)
	}
	logger.Info("songs service stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb := connectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	svc := service.New(store)
	srv := server.NewHTTPServer(cfg, server.NewRouter(cfg, svc, rdb))

	logger.Infof("songs service listening on %s", srv.Addr)
	return server.Run(ctx, server.RunConfig{Server: srv, ShutdownTimeout: cfg.Server.ShutdownTimeout})
}

// connectRedis returns nil when Redis is not configured or not reachable.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Host, cfg.Port, err)
		_ = rdb.Close()
		return nil
	}
	logger.Infof("connected to Redis %s:%s", cfg.Host, cfg.Port)
	return rdb
}
