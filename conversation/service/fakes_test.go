package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"support-chat-dashboard/backend/conversation/models"

	"gorm.io/gorm"
)

// fakeSessionRepo is an in-memory SessionRepository with failure
// injection and per-method call counters. A failID poisons single
// lookups for that id and any batch that includes it.
type fakeSessionRepo struct {
	mu         sync.Mutex
	sessions   map[string]*models.Session
	failIDs    map[string]error
	calls      int
	batchCalls int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]*models.Session),
		failIDs:  make(map[string]error),
	}
}

func (r *fakeSessionRepo) GetByExternalID(ctx context.Context, sessionID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if err, ok := r.failIDs[sessionID]; ok {
		return nil, err
	}
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) GetByExternalIDs(ctx context.Context, sessionIDs []string) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	var out []models.Session
	for _, id := range sessionIDs {
		if err, ok := r.failIDs[id]; ok {
			return nil, err
		}
		if s, ok := r.sessions[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

// fakeMessageRepo is an in-memory MessageRepository. Search applies the
// same matching contract as the real store. Call counters let tests assert
// that blank queries never reach the store.
type fakeMessageRepo struct {
	mu          sync.Mutex
	messages    map[string][]models.Message // ascending (created_at, id)
	unread      map[string]int64
	searchErr   error
	getErr      error
	getErrIDs   map[string]error
	unreadErr   error
	searchCalls int
	getCalls    int
	unreadCalls int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		messages:  make(map[string][]models.Message),
		unread:    make(map[string]int64),
		getErrIDs: make(map[string]error),
	}
}

func (r *fakeMessageRepo) GetBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	if err, ok := r.getErrIDs[sessionID]; ok {
		return nil, err
	}
	return r.messages[sessionID], nil
}

func (r *fakeMessageRepo) Search(ctx context.Context, sessionID, query string, filter models.SearchFilter) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls++
	if r.searchErr != nil {
		return nil, r.searchErr
	}

	lowered := strings.ToLower(query)
	var matched []models.Message
	for _, m := range r.messages[sessionID] {
		if !strings.Contains(strings.ToLower(m.Content), lowered) {
			continue
		}
		if filter.SenderType != "" && m.SenderType != filter.SenderType {
			continue
		}
		if filter.MessageType != "" && m.MessageType != filter.MessageType {
			continue
		}
		if filter.DateFrom != nil && m.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && m.CreatedAt.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, m)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if filter.PerPage > 0 && len(matched) > filter.PerPage {
		matched = matched[:filter.PerPage]
	}
	return matched, nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, sessionIDs []string, viewerID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unreadCalls++
	if r.unreadErr != nil {
		return nil, r.unreadErr
	}
	counts := make(map[string]int64)
	for _, id := range sessionIDs {
		if n, ok := r.unread[id]; ok {
			counts[id] = n
		}
	}
	return counts, nil
}

// fakeSummaryCache records gets and sets for cache-path assertions
type fakeSummaryCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	gets    int
	sets    int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{entries: make(map[string]string)}
}

func (c *fakeSummaryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.entries[key], nil
}

func (c *fakeSummaryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = value
	return nil
}
