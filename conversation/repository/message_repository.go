package repository

import (
	"context"
	"strings"

	"support-chat-dashboard/backend/conversation/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	GetBySession(ctx context.Context, sessionID string) ([]models.Message, error)
	Search(ctx context.Context, sessionID, query string, filter models.SearchFilter) ([]models.Message, error)
	CountUnread(ctx context.Context, sessionIDs []string, viewerID string) (map[string]int64, error)
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) GetBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// Search runs a case-insensitive substring match over a session's message
// content with the filter applied conjunctively. Results come back
// newest-first with the message id as tiebreaker.
func (r *GormMessageRepository) Search(ctx context.Context, sessionID, query string, filter models.SearchFilter) ([]models.Message, error) {
	q := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("LOWER(content) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(query))+"%")

	if filter.SenderType != "" {
		q = q.Where("sender_type = ?", filter.SenderType)
	}
	if filter.MessageType != "" {
		q = q.Where("message_type = ?", filter.MessageType)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at <= ?", *filter.DateTo)
	}

	var messages []models.Message
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset).
		Find(&messages).Error
	return messages, err
}

type unreadRow struct {
	SessionID string
	Count     int64
}

// CountUnread returns per-session counts of messages created after the
// viewer's read marker, excluding the viewer's own messages. A session
// without a marker counts every message not sent by the viewer. Sessions
// with no unread messages are absent from the result; callers fill zeros.
func (r *GormMessageRepository) CountUnread(ctx context.Context, sessionIDs []string, viewerID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	if len(sessionIDs) == 0 {
		return counts, nil
	}

	var rows []unreadRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT m.session_id AS session_id, COUNT(*) AS count
		FROM messages m
		LEFT JOIN read_markers r
			ON r.session_id = m.session_id AND r.viewer_id = ?
		WHERE m.session_id IN ?
			AND m.sender_id <> ?
			AND (r.last_read_at IS NULL OR m.created_at > r.last_read_at)
		GROUP BY m.session_id`,
		viewerID, sessionIDs, viewerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.SessionID] = row.Count
	}
	return counts, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
