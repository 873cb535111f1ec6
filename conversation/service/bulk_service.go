package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"support-chat-dashboard/backend/conversation/models"
	"support-chat-dashboard/backend/conversation/repository"
	apperrors "support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/pkg/logger"
	"support-chat-dashboard/backend/pkg/resilience"
)

// SummaryCache is the optional read-through cache consulted by the bulk
// orchestrator. Entries are short-lived serialized summaries.
type SummaryCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// BulkSummaryResult carries per-session summaries plus per-session error
// messages for the ids that failed to aggregate. A failed id never fails
// the batch.
type BulkSummaryResult struct {
	Summaries map[string]*models.ConversationSummary `json:"summaries"`
	Errors    map[string]string                      `json:"errors,omitempty"`
}

// BulkServiceConfig tunes the fan-out width and cache behavior
type BulkServiceConfig struct {
	// Workers bounds the number of sessions aggregated concurrently
	Workers int
	// CacheTTL is how long cached summaries stay valid; 0 disables caching
	CacheTTL time.Duration
}

// DefaultBulkServiceConfig returns sensible defaults
func DefaultBulkServiceConfig() BulkServiceConfig {
	return BulkServiceConfig{
		Workers:  8,
		CacheTTL: 0,
	}
}

// BulkService fans a batch of session ids out across the summary
// aggregator, joining all results before returning. Sessions are
// prefetched in a single batched query; store reads stay O(N) in the
// batch size and one slow or failing session never blocks the rest.
type BulkService struct {
	summaries *SummaryService
	sessions  repository.SessionRepository
	cache     SummaryCache
	breaker   *resilience.CircuitBreaker
	config    BulkServiceConfig
	log       *logger.Logger
}

func NewBulkService(summaries *SummaryService, sessions repository.SessionRepository, cache SummaryCache, config BulkServiceConfig, log *logger.Logger) *BulkService {
	if config.Workers <= 0 {
		config.Workers = DefaultBulkServiceConfig().Workers
	}
	var breaker *resilience.CircuitBreaker
	if cache != nil {
		breaker = resilience.NewCircuitBreaker(
			resilience.DefaultCircuitBreakerConfig("summary-cache"), log)
	}
	return &BulkService{
		summaries: summaries,
		sessions:  sessions,
		cache:     cache,
		breaker:   breaker,
		config:    config,
		log:       log,
	}
}

// GetSummaries aggregates every requested session. Sessions that fail land
// in Errors keyed by id; healthy sessions are always returned. Dispatch
// stops early when ctx is cancelled.
func (s *BulkService) GetSummaries(ctx context.Context, sessionIDs []string) *BulkSummaryResult {
	result := &BulkSummaryResult{
		Summaries: make(map[string]*models.ConversationSummary, len(sessionIDs)),
		Errors:    make(map[string]string),
	}
	if len(sessionIDs) == 0 {
		return result
	}
	ids := dedupe(sessionIDs)

	if err := ctx.Err(); err != nil {
		for _, id := range ids {
			result.Errors[id] = err.Error()
		}
		return result
	}

	loaded, err := s.sessions.GetByExternalIDs(ctx, ids)
	if err != nil {
		s.log.LogError(err, "failed to batch-load sessions", "count", len(ids))
		storeErr := apperrors.NewStoreUnavailableError("session store unavailable")
		for _, id := range ids {
			result.Errors[id] = storeErr.Message
		}
		return result
	}

	byID := make(map[string]*models.Session, len(loaded))
	for i := range loaded {
		byID[loaded[i].ExternalID] = &loaded[i]
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.config.Workers)
	)

	for _, id := range ids {
		session, ok := byID[id]
		if !ok {
			mu.Lock()
			result.Errors[id] = apperrors.NewSessionNotFoundError(id).Message
			mu.Unlock()
			continue
		}

		if err := ctx.Err(); err != nil {
			mu.Lock()
			result.Errors[id] = err.Error()
			mu.Unlock()
			continue
		}

		select {
		case <-ctx.Done():
			mu.Lock()
			result.Errors[id] = ctx.Err().Error()
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(session *models.Session) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := s.loadSummary(ctx, session)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[session.ExternalID] = apperrors.GetErrorMessage(err)
				return
			}
			result.Summaries[session.ExternalID] = summary
		}(session)
	}

	wg.Wait()
	return result
}

// loadSummary consults the cache before aggregating. The key carries the
// session's last activity timestamp, so any new message changes the key
// and stale entries simply stop being read. Cache traffic runs through a
// circuit breaker so a sick cache degrades to direct aggregation instead
// of slowing every batch.
func (s *BulkService) loadSummary(ctx context.Context, session *models.Session) (*models.ConversationSummary, error) {
	cacheKey := fmt.Sprintf("conversation:summary:%s:%d",
		session.ExternalID, session.LastActivityAt.UnixNano())

	if s.cacheEnabled() {
		var cached string
		err := s.breaker.Execute(func() error {
			var getErr error
			cached, getErr = s.cache.Get(ctx, cacheKey)
			return getErr
		})
		if err == nil && cached != "" {
			var summary models.ConversationSummary
			if jsonErr := json.Unmarshal([]byte(cached), &summary); jsonErr == nil {
				return &summary, nil
			}
		}
	}

	summary, err := s.summaries.Summarize(ctx, session)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if encoded, jsonErr := json.Marshal(summary); jsonErr == nil {
			_ = s.breaker.Execute(func() error {
				return s.cache.Set(ctx, cacheKey, string(encoded), s.config.CacheTTL)
			})
		}
	}

	return summary, nil
}

func (s *BulkService) cacheEnabled() bool {
	return s.cache != nil && s.config.CacheTTL > 0
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
