package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/songsvc/songs-service/pkg/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

var startTime = time.Now()

// RegisterHealth registers the liveness (/health) and readiness (/ready) endpoints.
func RegisterHealth(r gin.IRouter, store Pinger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// readiness: 200 only when the store answers a ping
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		uptime := time.Since(startTime).String()
		if err := store.Ping(ctx); err != nil {
			logger.Warnf("readiness: store ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": gin.H{"store": false}, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": gin.H{"store": true}, "uptime": uptime})
	})
}
