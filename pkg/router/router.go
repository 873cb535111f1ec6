package router

import (
	"time"

	"support-chat-dashboard/backend/conversation/api"
	"support-chat-dashboard/backend/pkg/config"
	"support-chat-dashboard/backend/pkg/di"
	"support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/pkg/logger"
	"support-chat-dashboard/backend/pkg/middleware"
	"support-chat-dashboard/backend/shared/observability"

	"github.com/gin-gonic/gin"
)

// Track server start time for uptime calculations
var startTime = time.Now()

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := config.Get()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(observability.MetricsMiddleware())

	// Viewer identity is resolved for every request but never required:
	// endpoints that need a viewer reject anonymous callers themselves.
	engine.Use(middleware.ViewerIdentity(container.JWTService, container.Logger))

	rateLimiter := middleware.NewRateLimiter(container.Logger)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	r.setupHealthRoutes()

	v1 := r.Engine.Group("/api/v1")
	api.RegisterConversationRoutes(v1, r.Container.Handler)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, X-Request-ID, Cache-Control")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
