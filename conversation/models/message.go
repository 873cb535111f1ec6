package models

import (
	"time"
)

// Sender types for messages within a session
const (
	SenderCustomer = "customer"
	SenderAgent    = "agent"
	SenderBot      = "bot"
)

// Message content types
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeDocument = "document"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
)

// Message represents a chat message inside a session. Messages are
// immutable once created and ordered by (created_at, id) within a session.
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ExternalID  string    `json:"external_id" gorm:"index"`
	SessionID   string    `json:"session_id" gorm:"index"`
	SenderType  string    `json:"sender_type" gorm:"index"` // customer, agent, bot
	SenderID    string    `json:"sender_id" gorm:"index"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	MediaURL    string    `json:"media_url,omitempty"`
	MessageType string    `json:"message_type" gorm:"index;default:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// ValidSenderType reports whether s is a recognized sender type
func ValidSenderType(s string) bool {
	switch s {
	case SenderCustomer, SenderAgent, SenderBot:
		return true
	}
	return false
}

// ValidMessageType reports whether s is a recognized message content type
func ValidMessageType(s string) bool {
	switch s {
	case MessageTypeText, MessageTypeImage, MessageTypeDocument, MessageTypeAudio, MessageTypeVideo:
		return true
	}
	return false
}
