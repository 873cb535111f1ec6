package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"support-chat-dashboard/backend/conversation/models"
	"support-chat-dashboard/backend/conversation/service"
	apperrors "support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSessionRepo struct {
	sessions map[string]*models.Session
}

func (r *stubSessionRepo) GetByExternalID(ctx context.Context, sessionID string) (*models.Session, error) {
	if s, ok := r.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSessionRepo) GetByExternalIDs(ctx context.Context, sessionIDs []string) ([]models.Session, error) {
	var out []models.Session
	for _, id := range sessionIDs {
		if s, ok := r.sessions[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

type stubMessageRepo struct {
	messages map[string][]models.Message
	unread   map[string]int64
}

func (r *stubMessageRepo) GetBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	return r.messages[sessionID], nil
}

func (r *stubMessageRepo) Search(ctx context.Context, sessionID, query string, filter models.SearchFilter) ([]models.Message, error) {
	lowered := strings.ToLower(query)
	var out []models.Message
	for _, m := range r.messages[sessionID] {
		if strings.Contains(strings.ToLower(m.Content), lowered) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) CountUnread(ctx context.Context, sessionIDs []string, viewerID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, id := range sessionIDs {
		if n, ok := r.unread[id]; ok {
			counts[id] = n
		}
	}
	return counts, nil
}

func testEngine(t *testing.T) (*gin.Engine, *stubSessionRepo, *stubMessageRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error", JSON: true, Output: &bytes.Buffer{}})
	sessions := &stubSessionRepo{sessions: make(map[string]*models.Session)}
	messages := &stubMessageRepo{
		messages: make(map[string][]models.Message),
		unread:   make(map[string]int64),
	}

	summaries := service.NewSummaryService(sessions, messages, log)
	bulk := service.NewBulkService(summaries, sessions, nil, service.DefaultBulkServiceConfig(), log)
	unread := service.NewUnreadService(messages, log)
	search := service.NewSearchService(messages, log)

	engine := gin.New()
	engine.Use(logger.Middleware(log))
	engine.Use(apperrors.ErrorHandler())
	RegisterConversationRoutes(engine, NewConversationHandler(summaries, bulk, unread, search))
	return engine, sessions, messages
}

func seedSession(sessions *stubSessionRepo, id string) {
	sessions.sessions[id] = &models.Session{
		ExternalID:     id,
		IsActive:       true,
		StartedAt:      time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		LastActivityAt: time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
		Customer:       models.Customer{ID: 1, Name: "Maria Lopez"},
	}
}

func TestGetSummaryEndpoint(t *testing.T) {
	engine, sessions, _ := testEngine(t)
	seedSession(sessions, "s1")

	req, _ := http.NewRequest(http.MethodGet, "/conversations/s1/summary", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var summary models.ConversationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "s1", summary.SessionID)
	assert.Equal(t, "Maria Lopez", summary.Customer.Name)
}

func TestGetSummaryEndpointNotFound(t *testing.T) {
	engine, _, _ := testEngine(t)

	req, _ := http.NewRequest(http.MethodGet, "/conversations/nope/summary", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeSessionNotFound)
}

func TestBulkSummariesEndpoint(t *testing.T) {
	engine, sessions, _ := testEngine(t)
	seedSession(sessions, "s1")
	seedSession(sessions, "s2")

	body, _ := json.Marshal(gin.H{"session_ids": []string{"s1", "s2", "ghost"}})
	req, _ := http.NewRequest(http.MethodPost, "/conversations/summaries", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var result service.BulkSummaryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Summaries, 2)
	assert.Contains(t, result.Errors, "ghost")
}

func TestUnreadCountsEndpoint(t *testing.T) {
	engine, _, messages := testEngine(t)
	messages.unread["s1"] = 4

	body, _ := json.Marshal(gin.H{"session_ids": []string{"s1", "s2"}, "viewer_id": "agent-9"})
	req, _ := http.NewRequest(http.MethodPost, "/conversations/unread-counts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		UnreadCounts map[string]int64 `json:"unread_counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.UnreadCounts["s1"])
	assert.Equal(t, int64(0), resp.UnreadCounts["s2"])
}

func TestUnreadCountsEndpointRequiresViewer(t *testing.T) {
	engine, _, _ := testEngine(t)

	body, _ := json.Marshal(gin.H{"session_ids": []string{"s1"}})
	req, _ := http.NewRequest(http.MethodPost, "/conversations/unread-counts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VIEWER_REQUIRED")
}

func TestSearchEndpoint(t *testing.T) {
	engine, _, messages := testEngine(t)
	messages.messages["s1"] = []models.Message{
		{ID: 1, SessionID: "s1", SenderType: models.SenderCustomer, Content: "where is my invoice", MessageType: models.MessageTypeText},
	}

	req, _ := http.NewRequest(http.MethodGet, "/conversations/s1/messages/search?q=invoice", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count   int                   `json:"count"`
		Results []models.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.NotEmpty(t, resp.Results[0].Highlights)
}

func TestSearchEndpointBlankQuery(t *testing.T) {
	engine, _, messages := testEngine(t)
	messages.messages["s1"] = []models.Message{
		{ID: 1, SessionID: "s1", SenderType: models.SenderCustomer, Content: "anything", MessageType: models.MessageTypeText},
	}

	req, _ := http.NewRequest(http.MethodGet, "/conversations/s1/messages/search", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestSearchEndpointInvalidFilter(t *testing.T) {
	engine, _, _ := testEngine(t)

	req, _ := http.NewRequest(http.MethodGet, "/conversations/s1/messages/search?q=x&per_page=500", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeInvalidFilter)
}
