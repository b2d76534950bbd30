package server

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/songsvc/songs-service/internal/config"
	"github.com/songsvc/songs-service/pkg/middleware"
)

// NewHTTPServer wraps h with CORS handling and applies the configured timeouts.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposedHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:         300,
	})
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      c.Handler(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
