package api

import (
	"net/http"

	"support-chat-dashboard/backend/conversation/models"
	"support-chat-dashboard/backend/conversation/service"
	apperrors "support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/shared/observability"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	summaries *service.SummaryService
	bulk      *service.BulkService
	unread    *service.UnreadService
	search    *service.SearchService
}

func NewConversationHandler(summaries *service.SummaryService, bulk *service.BulkService, unread *service.UnreadService, search *service.SearchService) *ConversationHandler {
	return &ConversationHandler{
		summaries: summaries,
		bulk:      bulk,
		unread:    unread,
		search:    search,
	}
}

type sessionIDsRequest struct {
	SessionIDs []string `json:"session_ids" binding:"required"`
}

type unreadCountsRequest struct {
	SessionIDs []string `json:"session_ids" binding:"required"`
	// ViewerID overrides the authenticated viewer for service-to-service calls
	ViewerID string `json:"viewer_id,omitempty"`
}

// GetConversationSummaries handles POST /conversations/summaries.
// Sessions that fail to aggregate come back under "errors" keyed by id;
// the batch itself never fails.
func (h *ConversationHandler) GetConversationSummaries(c *gin.Context) {
	var req sessionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("INVALID_REQUEST", err.Error()))
		return
	}

	observability.RecordBulkBatch(len(req.SessionIDs))
	result := h.bulk.GetSummaries(c.Request.Context(), req.SessionIDs)
	c.JSON(http.StatusOK, result)
}

// GetSummary handles GET /conversations/:session_id/summary
func (h *ConversationHandler) GetSummary(c *gin.Context) {
	sessionID := c.Param("session_id")

	summary, err := h.summaries.GetSummary(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetUnreadCounts handles POST /conversations/unread-counts. The viewer is
// the authenticated subject unless the body names one explicitly.
func (h *ConversationHandler) GetUnreadCounts(c *gin.Context) {
	var req unreadCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewBadRequestError("INVALID_REQUEST", err.Error()))
		return
	}

	viewerID := req.ViewerID
	if viewerID == "" {
		viewerID = c.GetString("viewerID")
	}
	if viewerID == "" {
		c.Error(apperrors.NewBadRequestError("VIEWER_REQUIRED", "no viewer identity on request"))
		return
	}

	counts := h.unread.GetUnreadCounts(c.Request.Context(), req.SessionIDs, viewerID)
	c.JSON(http.StatusOK, gin.H{"unread_counts": counts})
}

// SearchMessages handles GET /conversations/:session_id/messages/search
func (h *ConversationHandler) SearchMessages(c *gin.Context) {
	sessionID := c.Param("session_id")
	query := c.Query("q")

	var filter models.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperrors.NewInvalidFilterError(err.Error(), nil))
		return
	}

	observability.RecordSearchQuery()
	results, err := h.search.Search(c.Request.Context(), sessionID, query, filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"query":      query,
		"count":      len(results),
		"results":    results,
	})
}
