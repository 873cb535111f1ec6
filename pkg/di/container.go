package di

import (
	"context"
	"time"

	"support-chat-dashboard/backend/conversation/api"
	"support-chat-dashboard/backend/conversation/repository"
	"support-chat-dashboard/backend/conversation/service"
	"support-chat-dashboard/backend/pkg/cache"
	"support-chat-dashboard/backend/pkg/config"
	"support-chat-dashboard/backend/pkg/health"
	"support-chat-dashboard/backend/pkg/jwt"
	"support-chat-dashboard/backend/pkg/logger"
	"support-chat-dashboard/backend/shared/redis"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB             *gorm.DB
	Logger         *logger.Logger
	JWTService     *jwt.Service
	Redis          *redis.RedisClient
	Health         *health.Checker
	SessionRepo    repository.SessionRepository
	MessageRepo    repository.MessageRepository
	SummaryService *service.SummaryService
	UnreadService  *service.UnreadService
	SearchService  *service.SearchService
	BulkService    *service.BulkService
	Handler        *api.ConversationHandler
}

// New wires repositories, services and the HTTP handler from the
// application config. The summary cache backend is selected by
// SUMMARY_CACHE_BACKEND: "redis" shares entries across instances,
// "memory" keeps a per-process cache, "off" disables caching.
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	sessionRepo := repository.NewGormSessionRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	summaryService := service.NewSummaryService(sessionRepo, messageRepo, log)
	unreadService := service.NewUnreadService(messageRepo, log)
	searchService := service.NewSearchService(messageRepo, log)

	var (
		redisClient  *redis.RedisClient
		summaryCache service.SummaryCache
	)
	switch cfg.Bulk.CacheBackend {
	case "redis":
		redisClient = redis.NewRedisClient()
		summaryCache = redisClient
	case "memory":
		summaryCache = newMemorySummaryCache()
	}

	bulkService := service.NewBulkService(summaryService, sessionRepo, summaryCache, service.BulkServiceConfig{
		Workers:  cfg.Bulk.Workers,
		CacheTTL: cfg.Bulk.SummaryCacheTTL,
	}, log)

	handler := api.NewConversationHandler(summaryService, bulkService, unreadService, searchService)

	checker := health.NewChecker(5 * time.Second)
	checker.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		checker.Register("redis", redisClient.Ping)
	}

	return &Container{
		DB:             db,
		Logger:         log,
		JWTService:     jwtService,
		Redis:          redisClient,
		Health:         checker,
		SessionRepo:    sessionRepo,
		MessageRepo:    messageRepo,
		SummaryService: summaryService,
		UnreadService:  unreadService,
		SearchService:  searchService,
		BulkService:    bulkService,
		Handler:        handler,
	}, nil
}

// memorySummaryCache adapts the in-process TTL cache to the bulk
// orchestrator's SummaryCache interface for single-instance deployments.
type memorySummaryCache struct {
	inner *cache.Cache
}

func newMemorySummaryCache() *memorySummaryCache {
	return &memorySummaryCache{inner: cache.NewCache()}
}

func (m *memorySummaryCache) Get(_ context.Context, key string) (string, error) {
	value, ok := m.inner.Get(key)
	if !ok {
		return "", nil
	}
	s, _ := value.(string)
	return s, nil
}

func (m *memorySummaryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.inner.SetWithExpiration(key, value, ttl)
	return nil
}
