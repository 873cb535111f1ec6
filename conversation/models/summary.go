package models

import (
	"encoding/json"
	"time"
)

// CustomerInfo is the customer slice of a conversation summary.
// TotalMessages is counted from message records, never read from storage.
type CustomerInfo struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	TotalMessages int64  `json:"total_messages"`
}

// AgentInfo is the agent slice of a conversation summary
type AgentInfo struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Department    string `json:"department"`
	TotalMessages int64  `json:"total_messages"`
}

// ClassificationInfo is the pass-through view of a session classification
type ClassificationInfo struct {
	Intent   string `json:"intent"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// SentimentInfo is the sentiment slice of an AI analysis
type SentimentInfo struct {
	OverallSentiment string  `json:"overall_sentiment"`
	Confidence       float64 `json:"confidence"`
	EmotionDetected  string  `json:"emotion_detected"`
}

// AIAnalysisInfo is the pass-through view of a session AI analysis
type AIAnalysisInfo struct {
	SentimentAnalysis SentimentInfo `json:"sentiment_analysis"`
	TopicsDiscussed   []string      `json:"topics_discussed"`
}

// Statistics holds per-session derived numbers. AvgResponseTimeSeconds is
// nil when the session has no customer message followed by an agent or bot
// reply; zero means a genuine instant response.
type Statistics struct {
	TotalMessages          int64    `json:"total_messages"`
	CustomerMessages       int64    `json:"customer_messages"`
	AgentMessages          int64    `json:"agent_messages"`
	BotMessages            int64    `json:"bot_messages"`
	SessionDurationMinutes float64  `json:"session_duration_minutes"`
	AvgResponseTimeSeconds *float64 `json:"avg_response_time_seconds"`
}

// ConversationSummary is the computed, presentation-ready aggregate of one
// session. It is never persisted and is deterministic for a given set of
// underlying records.
type ConversationSummary struct {
	SessionID      string              `json:"session_id"`
	IsActive       bool                `json:"is_active"`
	IsResolved     bool                `json:"is_resolved"`
	Customer       CustomerInfo        `json:"customer"`
	Agent          *AgentInfo          `json:"agent,omitempty"`
	Statistics     Statistics          `json:"statistics"`
	Classification *ClassificationInfo `json:"classification,omitempty"`
	AIAnalysis     *AIAnalysisInfo     `json:"ai_analysis,omitempty"`
	StartedAt      time.Time           `json:"started_at"`
	LastActivityAt time.Time           `json:"last_activity_at"`
	EndedAt        *time.Time          `json:"ended_at,omitempty"`
}

// ToClassificationInfo converts a stored classification to its summary view
func (c *Classification) ToClassificationInfo() *ClassificationInfo {
	if c == nil {
		return nil
	}
	return &ClassificationInfo{
		Intent:   c.Intent,
		Category: c.Category,
		Priority: c.Priority,
	}
}

// ToAIAnalysisInfo converts a stored analysis to its summary view,
// decoding the topics JSON column. A malformed topics column degrades
// to an empty list rather than failing the summary.
func (a *AIAnalysis) ToAIAnalysisInfo() *AIAnalysisInfo {
	if a == nil {
		return nil
	}
	var topics []string
	if a.Topics != "" {
		if err := json.Unmarshal([]byte(a.Topics), &topics); err != nil {
			topics = nil
		}
	}
	return &AIAnalysisInfo{
		SentimentAnalysis: SentimentInfo{
			OverallSentiment: a.OverallSentiment,
			Confidence:       a.Confidence,
			EmotionDetected:  a.EmotionDetected,
		},
		TopicsDiscussed: topics,
	}
}
