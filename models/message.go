package models

import (
	"time"
)

// Message is the normalized, store-ready form of an archived envelope.
// MessageID is globally unique in the structured store; re-ingesting the
// same identifier replaces the row instead of duplicating it.
type Message struct {
	MessageID string    `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
	ChatID    string    `json:"chatId"`
	FromMe    bool      `json:"fromMe"`
	Type      string    `json:"type"`
	Text      string    `json:"text,omitempty"`
	HasMedia  bool      `json:"hasMedia"`
}
