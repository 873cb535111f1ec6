package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"support-chat-dashboard/backend/conversation/models"
	"support-chat-dashboard/backend/conversation/repository"
	apperrors "support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/pkg/logger"
)

// SearchService runs filtered full-text search over one session's messages.
// Matching is a case-insensitive literal substring match; results carry
// byte-offset highlight spans for every occurrence of the query.
type SearchService struct {
	messages repository.MessageRepository
	log      *logger.Logger
}

func NewSearchService(messages repository.MessageRepository, log *logger.Logger) *SearchService {
	return &SearchService{messages: messages, log: log}
}

// Search returns at most filter.PerPage matches, newest first. A blank
// query means "no search performed" and returns an empty result without
// touching the store. An empty result with a nil error always means zero
// matches; store failures surface as retryable errors instead.
func (s *SearchService) Search(ctx context.Context, sessionID, query string, filter models.SearchFilter) ([]models.SearchResult, error) {
	normalized, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}

	messages, err := s.messages.Search(ctx, sessionID, query, normalized)
	if err != nil {
		s.log.LogError(err, "message search failed",
			"session_id", sessionID,
			"query_len", len(query),
		)
		return nil, apperrors.NewStoreUnavailableError("message store unavailable")
	}

	results := make([]models.SearchResult, 0, len(messages))
	for _, m := range messages {
		results = append(results, models.SearchResult{
			Message:    m,
			Highlights: highlightSpans(m.Content, query),
		})
	}
	return results, nil
}

// normalizeFilter validates the filter and applies pagination defaults.
// Validation happens before any store access.
func normalizeFilter(filter models.SearchFilter) (models.SearchFilter, error) {
	if filter.PerPage < 0 || filter.PerPage > models.MaxSearchPerPage {
		return filter, apperrors.NewInvalidFilterError(
			"per_page out of bounds",
			map[string]any{"field": "per_page", "max": models.MaxSearchPerPage},
		)
	}
	if filter.PerPage == 0 {
		filter.PerPage = models.DefaultSearchPerPage
	}
	if filter.Offset < 0 {
		return filter, apperrors.NewInvalidFilterError(
			"offset must not be negative",
			map[string]any{"field": "offset"},
		)
	}
	if filter.SenderType != "" && !models.ValidSenderType(filter.SenderType) {
		return filter, apperrors.NewInvalidFilterError(
			"unrecognized sender_type",
			map[string]any{"field": "sender_type", "value": filter.SenderType},
		)
	}
	if filter.MessageType != "" && !models.ValidMessageType(filter.MessageType) {
		return filter, apperrors.NewInvalidFilterError(
			"unrecognized message_type",
			map[string]any{"field": "message_type", "value": filter.MessageType},
		)
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return filter, apperrors.NewInvalidFilterError(
			"date_from is after date_to",
			map[string]any{"field": "date_from"},
		)
	}
	return filter, nil
}

// highlightSpans finds every non-overlapping, case-insensitive occurrence
// of query in content as byte offsets [start, end). Matching folds rune by
// rune against the original bytes: lowercasing a copy first would shift
// offsets whenever folding changes a rune's encoded length (U+212A KELVIN
// SIGN is three bytes, "k" is one).
func highlightSpans(content, query string) []models.HighlightSpan {
	queryRunes := []rune(query)
	if len(queryRunes) == 0 {
		return nil
	}

	var spans []models.HighlightSpan
	for i := 0; i < len(content); {
		if end, ok := foldMatchAt(content, i, queryRunes); ok {
			spans = append(spans, models.HighlightSpan{Start: i, End: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(content[i:])
		i += size
	}
	return spans
}

// foldMatchAt reports whether query occurs at byte offset start of
// content under case folding, and the byte offset just past the match.
func foldMatchAt(content string, start int, query []rune) (int, bool) {
	i := start
	for _, qr := range query {
		if i >= len(content) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(content[i:])
		if unicode.ToLower(r) != unicode.ToLower(qr) {
			return 0, false
		}
		i += size
	}
	return i, true
}
