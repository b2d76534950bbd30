package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/songsvc/songs-service/handlers"
	"github.com/songsvc/songs-service/internal/config"
	"github.com/songsvc/songs-service/internal/song/handler"
	"github.com/songsvc/songs-service/internal/song/service"
	"github.com/songsvc/songs-service/pkg/logger"
	"github.com/songsvc/songs-service/pkg/middleware"
)

// NewRouter assembles the gin engine: recovery and request logging first,
// then the optional rate limiter, then every route. rdb may be nil.
func NewRouter(cfg *config.Config, svc service.Service, rdb *redis.Client) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestLogger())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
			logger.Infof("rate limiter enabled (redis, %.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
			logger.Infof("rate limiter enabled (memory, %.1f rps, burst %d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	handlers.RegisterHealth(r, svc)
	handlers.RegisterSwagger(r)
	handler.RegisterSongRoutes(r, svc)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
