package model

import (
	"encoding/json"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// MessageType describes the original medium of a message.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeVoice  MessageType = "voice"
	MessageTypePhoto  MessageType = "photo"
	MessageTypeSystem MessageType = "system"
)

// Message is one immutable turn in a session.
type Message struct {
	ID        string
	SessionID string
	Sender    Sender
	Content   string
	Type      MessageType
	ToolCalls json.RawMessage // executed action results, assistant turns only
	Model     string
	CreatedAt time.Time
}
