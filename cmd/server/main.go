package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-chat-dashboard/backend/conversation/grpc"
	"support-chat-dashboard/backend/conversation/models"
	"support-chat-dashboard/backend/pkg/config"
	"support-chat-dashboard/backend/pkg/di"
	"support-chat-dashboard/backend/pkg/logger"
	"support-chat-dashboard/backend/pkg/router"
	"support-chat-dashboard/backend/pkg/secrets"
	"support-chat-dashboard/backend/shared/observability"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	logConfig.JSON = os.Getenv("LOG_FORMAT") != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "version", os.Getenv("APP_VERSION"))

	// Secrets backend first so the database password can come from vault
	if err := secrets.Init(log); err != nil {
		log.LogError(err, "Failed to initialize secrets manager")
		os.Exit(1)
	}

	cfg := config.Get()

	// Initialize database
	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Agent{},
		&models.Session{},
		&models.Message{},
		&models.ReadMarker{},
		&models.Classification{},
		&models.AIAnalysis{},
	); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Create indexes for better query performance
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_session_created ON messages(session_id, created_at)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_session_created")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_content_lower ON messages(LOWER(content) text_pattern_ops)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_content_lower")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_read_markers_viewer ON read_markers(viewer_id, session_id)").Error; err != nil {
		log.LogError(err, "Failed to create read marker index", "index", "idx_read_markers_viewer")
	}

	// Tracing and metrics exporters
	shutdownTracing := observability.SetupTracing("conversation-service")
	defer shutdownTracing()
	observability.SetupPrometheusMetrics()

	// Initialize dependency injection container
	container, err := di.New(db, cfg, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Add OpenAPI validation if schema file is available
	schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH")
	if schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	// gRPC health endpoint for sidecar probes
	grpcServer := grpc.NewServer(log)
	go func() {
		if err := grpcServer.Serve(cfg.Server.GRPCPort); err != nil {
			log.LogError(err, "gRPC health server failed")
		}
	}()
	grpcServer.SetServing(true)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	grpcServer.SetServing(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	grpcServer.Stop()

	if container.Redis != nil {
		if err := container.Redis.Close(); err != nil {
			log.LogError(err, "Failed to close redis client")
		}
	}

	log.Info("Server exited gracefully")
}
