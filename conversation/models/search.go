package models

import (
	"time"
)

// Search pagination bounds
const (
	DefaultSearchPerPage = 20
	MaxSearchPerPage     = 100
)

// SearchFilter narrows a message search. All fields are optional and
// AND-combined with the text match. Date bounds are inclusive.
type SearchFilter struct {
	SenderType  string     `json:"sender_type,omitempty" form:"sender_type"`
	MessageType string     `json:"message_type,omitempty" form:"message_type"`
	DateFrom    *time.Time `json:"date_from,omitempty" form:"date_from" time_format:"2006-01-02"`
	DateTo      *time.Time `json:"date_to,omitempty" form:"date_to" time_format:"2006-01-02"`
	PerPage     int        `json:"per_page,omitempty" form:"per_page"`
	Offset      int        `json:"offset,omitempty" form:"offset"`
}

// HighlightSpan is a byte-offset range [Start, End) into a message's
// content where the query term occurs
type HighlightSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchResult is one matched message plus precomputed highlight spans
type SearchResult struct {
	Message    Message         `json:"message"`
	Highlights []HighlightSpan `json:"highlights"`
}
