package housekeeping

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the health endpoints of the standalone housekeeper.
func (r *Runner) HealthHandler(ping func(ctx context.Context) error) http.Handler {
	g := gin.New()

	g.Use(gin.Recovery())

	// liveness: process is up
	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// readiness: loop is running and the store answers
	g.GET("/readyz", func(c *gin.Context) {
		if !r.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
			defer cancel()

			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return g
}
