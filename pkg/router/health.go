package router

import (
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// setupHealthRoutes registers health check endpoints
func (r *Router) setupHealthRoutes() {
	healthHandler := func(c *gin.Context) {
		components, healthy := r.Container.Health.Run(c.Request.Context())

		status := "ok"
		code := 200
		if !healthy {
			status = "degraded"
			code = 503
			r.Logger.Error("health check failed", "components", components)
		}

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		c.JSON(code, gin.H{
			"status":     status,
			"version":    os.Getenv("APP_VERSION"),
			"timestamp":  time.Now().Format(time.RFC3339),
			"uptime":     time.Since(startTime).String(),
			"components": components,
			"memory": gin.H{
				"alloc_mb":  memStats.Alloc / 1024 / 1024,
				"sys_mb":    memStats.Sys / 1024 / 1024,
				"gc_cycles": memStats.NumGC,
			},
		})
	}

	// Register both health endpoint paths for compatibility
	r.Engine.GET("/health", healthHandler)
	r.Engine.GET("/api/health", healthHandler)
}
