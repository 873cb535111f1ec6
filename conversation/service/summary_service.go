package service

import (
	"context"
	"errors"

	"support-chat-dashboard/backend/conversation/models"
	"support-chat-dashboard/backend/conversation/repository"
	apperrors "support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/pkg/logger"

	"gorm.io/gorm"
)

// SummaryService builds the per-session ConversationSummary from session,
// message, classification and AI-analysis records. Summaries are computed
// fresh on every call and never persisted.
type SummaryService struct {
	sessions repository.SessionRepository
	messages repository.MessageRepository
	log      *logger.Logger
}

func NewSummaryService(sessions repository.SessionRepository, messages repository.MessageRepository, log *logger.Logger) *SummaryService {
	return &SummaryService{sessions: sessions, messages: messages, log: log}
}

// GetSummary aggregates one session. A missing session is a NotFound error;
// a failing store is a retryable StoreUnavailable error.
func (s *SummaryService) GetSummary(ctx context.Context, sessionID string) (*models.ConversationSummary, error) {
	session, err := s.sessions.GetByExternalID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewSessionNotFoundError(sessionID)
		}
		s.log.LogError(err, "failed to load session", "session_id", sessionID)
		return nil, apperrors.NewStoreUnavailableError("session store unavailable")
	}

	return s.Summarize(ctx, session)
}

// Summarize aggregates an already-loaded session record. Batch callers
// that fetch sessions in one query enter here to skip the per-id lookup.
func (s *SummaryService) Summarize(ctx context.Context, session *models.Session) (*models.ConversationSummary, error) {
	messages, err := s.messages.GetBySession(ctx, session.ExternalID)
	if err != nil {
		s.log.LogError(err, "failed to load session messages", "session_id", session.ExternalID)
		return nil, apperrors.NewStoreUnavailableError("message store unavailable")
	}

	return buildSummary(session, messages), nil
}

// buildSummary assembles the summary from already-loaded records.
// Classification and AI analysis pass through untouched; absent stays
// absent rather than being defaulted here.
func buildSummary(session *models.Session, messages []models.Message) *models.ConversationSummary {
	stats := computeStatistics(session, messages)

	summary := &models.ConversationSummary{
		SessionID:  session.ExternalID,
		IsActive:   session.IsActive,
		IsResolved: session.IsResolved,
		Customer: models.CustomerInfo{
			ID:            session.Customer.ID,
			Name:          session.Customer.Name,
			Phone:         session.Customer.Phone,
			TotalMessages: stats.CustomerMessages,
		},
		Statistics:     stats,
		Classification: session.Classification.ToClassificationInfo(),
		AIAnalysis:     session.AIAnalysis.ToAIAnalysisInfo(),
		StartedAt:      session.StartedAt,
		LastActivityAt: session.LastActivityAt,
		EndedAt:        session.EndedAt,
	}

	if session.Agent != nil {
		summary.Agent = &models.AgentInfo{
			ID:            session.Agent.ID,
			Name:          session.Agent.Name,
			Department:    session.Agent.Department,
			TotalMessages: stats.AgentMessages,
		}
	}

	return summary
}

// computeStatistics derives the message counts, session duration and mean
// response time. Messages are expected in (created_at, id) ascending order.
func computeStatistics(session *models.Session, messages []models.Message) models.Statistics {
	stats := models.Statistics{
		TotalMessages: int64(len(messages)),
	}

	for _, m := range messages {
		switch m.SenderType {
		case models.SenderCustomer:
			stats.CustomerMessages++
		case models.SenderAgent:
			stats.AgentMessages++
		case models.SenderBot:
			stats.BotMessages++
		}
	}

	duration := session.LastActivityAt.Sub(session.StartedAt).Minutes()
	if duration < 0 {
		duration = 0
	}
	stats.SessionDurationMinutes = duration

	stats.AvgResponseTimeSeconds = avgResponseSeconds(messages)

	return stats
}

// avgResponseSeconds is the mean delay between each customer message and
// the agent or bot message immediately following it. Nil means no such
// pair existed, which the presentation layer renders as "N/A".
func avgResponseSeconds(messages []models.Message) *float64 {
	var total float64
	var pairs int

	for i := 0; i+1 < len(messages); i++ {
		if messages[i].SenderType != models.SenderCustomer {
			continue
		}
		next := messages[i+1]
		if next.SenderType == models.SenderAgent || next.SenderType == models.SenderBot {
			total += next.CreatedAt.Sub(messages[i].CreatedAt).Seconds()
			pairs++
		}
	}

	if pairs == 0 {
		return nil
	}
	avg := total / float64(pairs)
	return &avg
}
