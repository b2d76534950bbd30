package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/songsvc/songs-service/pkg/logger"
)

// Recovery turns a handler panic into a generic 500 without leaking details.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	})
}
