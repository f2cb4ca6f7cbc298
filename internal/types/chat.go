package types

import "time"

// MessageType distinguishes user and bot chat messages.
type MessageType string

// Chat message authors.
const (
	MessageUser MessageType = "user"
	MessageBot  MessageType = "bot"
)

// ChatMessage is one entry of a chat conversation.
type ChatMessage struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ChatExchange is the result of sending one user message.
type ChatExchange struct {
	ConversationID string      `json:"conversationId"`
	UserMessage    ChatMessage `json:"userMessage"`
	BotMessage     ChatMessage `json:"botMessage"`
}

// AppendMessage appends msg to history, keeping timestamps strictly increasing.
// A message that is not later than the last one is moved to just after it.
func AppendMessage(history []ChatMessage, msg ChatMessage) []ChatMessage {
	if n := len(history); n > 0 {
		last := history[n-1].Timestamp
		if !msg.Timestamp.After(last) {
			msg.Timestamp = last.Add(time.Nanosecond)
		}
	}
	return append(history, msg)
}
