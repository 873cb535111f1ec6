package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterConversationRoutes wires the conversation endpoints onto the engine.
// Authentication is enforced upstream; the viewer-identity middleware only
// extracts who is asking.
func RegisterConversationRoutes(r gin.IRouter, handler *ConversationHandler) {
	convGroup := r.Group("/conversations")
	{
		convGroup.POST("/summaries", handler.GetConversationSummaries)
		convGroup.POST("/unread-counts", handler.GetUnreadCounts)
		convGroup.GET("/:session_id/summary", handler.GetSummary)
		convGroup.GET("/:session_id/messages/search", handler.SearchMessages)
	}
}
