package model

import "time"

type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

type ChatMessage struct {
	ID          string      `json:"id"`
	UserID      string      `json:"-"`
	Username    string      `json:"username,omitempty"`
	MessageType MessageType `json:"message_type"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
}
