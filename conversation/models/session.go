package models

import (
	"time"
)

// Session represents one customer-support conversation thread
type Session struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	ExternalID     string     `json:"session_id" gorm:"uniqueIndex"`
	CustomerID     uint       `json:"customer_id" gorm:"index"`
	AgentID        *uint      `json:"agent_id,omitempty" gorm:"index"`
	IsActive       bool       `json:"is_active"`
	IsResolved     bool       `json:"is_resolved"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Customer       Customer        `json:"customer" gorm:"foreignKey:CustomerID"`
	Agent          *Agent          `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Classification *Classification `json:"classification,omitempty" gorm:"foreignKey:SessionID;references:ExternalID"`
	AIAnalysis     *AIAnalysis     `json:"ai_analysis,omitempty" gorm:"foreignKey:SessionID;references:ExternalID"`
}

// Customer represents the person on the customer side of a session.
// Message totals are never stored on this record; they are always
// counted from messages at read time.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Agent represents a support agent that can be assigned to sessions
type Agent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReadMarker records how far a viewer has read into a session.
// Written by the external mark-as-read flow; this service only reads it.
type ReadMarker struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SessionID  string    `json:"session_id" gorm:"index:idx_read_markers_session_viewer,unique"`
	ViewerID   string    `json:"viewer_id" gorm:"index:idx_read_markers_session_viewer,unique"`
	LastReadAt time.Time `json:"last_read_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Priority levels assigned by the external classifier
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Classification is written onto a session by the external classifier.
// It is optional; a session without one is a valid state.
type Classification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"uniqueIndex"`
	Intent    string    `json:"intent"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"` // low, medium, high
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sentiment values produced by the external analysis pipeline
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// AIAnalysis is written onto a session by the external sentiment pipeline.
// Topics are stored as a JSON array in a text column.
type AIAnalysis struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	SessionID        string    `json:"session_id" gorm:"uniqueIndex"`
	OverallSentiment string    `json:"overall_sentiment"` // positive, neutral, negative
	Confidence       float64   `json:"confidence"`
	EmotionDetected  string    `json:"emotion_detected"`
	Topics           string    `json:"-" gorm:"type:text"` // JSON array of topic strings
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
