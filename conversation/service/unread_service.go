package service

import (
	"context"

	"support-chat-dashboard/backend/conversation/repository"
	"support-chat-dashboard/backend/pkg/logger"
)

// UnreadService computes per-session unread counts for an explicit viewer.
// It is a pure read; marking messages as read happens elsewhere.
type UnreadService struct {
	messages repository.MessageRepository
	log      *logger.Logger
}

func NewUnreadService(messages repository.MessageRepository, log *logger.Logger) *UnreadService {
	return &UnreadService{messages: messages, log: log}
}

// GetUnreadCounts returns a count for every requested session id. Unknown
// session ids map to 0. A store failure degrades all affected counts to 0
// rather than failing the call.
func (s *UnreadService) GetUnreadCounts(ctx context.Context, sessionIDs []string, viewerID string) map[string]int64 {
	counts := make(map[string]int64, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return counts
	}

	stored, err := s.messages.CountUnread(ctx, sessionIDs, viewerID)
	if err != nil {
		s.log.LogError(err, "unread count query failed, degrading to zero",
			"viewer_id", viewerID,
			"sessions", len(sessionIDs),
		)
		stored = nil
	}

	for _, id := range sessionIDs {
		counts[id] = stored[id]
	}
	return counts
}
