package model

import "time"

// Message roles. The core only ever produces these two; there is no
// system role in persisted history, the system instruction is built
// per request by the llm package.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chat stores metadata about a conversation.
//
// UserID is nil for guest-owned chats. A guest chat is readable and
// extendable by anyone who knows its id; once a chat has an owner,
// only that owner may touch it.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message stores a single message in a chat.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Model     *string   `json:"model,omitempty"`    // Model that produced (or was asked to produce) it.
	Language  *string   `json:"language,omitempty"` // Requested response language, if any.
	CreatedAt time.Time `json:"createdAt"`
}

// FullChat includes the chat metadata and all its messages.
type FullChat struct {
	Chat
	Messages []Message `json:"messages"`
}

// StreamEvent is one event on the streaming wire. Exactly one "kind"
// of field group is set per event:
//
//	{"connected":true,"newChatId":"..."}          always first
//	{"token":"..."}                               zero or more, in order
//	{"error":"..."}                               at most one, replaces done
//	{"done":true,"userMessageId":...,"aiMessageId":...,"newChatId":...}
//
// NewChatID is carried on the done event only when the chat was
// created by the request that opened the stream.
type StreamEvent struct {
	Connected     bool   `json:"connected,omitempty"`
	Token         string `json:"token,omitempty"`
	Error         string `json:"error,omitempty"`
	Done          bool   `json:"done,omitempty"`
	UserMessageID string `json:"userMessageId,omitempty"`
	AIMessageID   string `json:"aiMessageId,omitempty"`
	NewChatID     string `json:"newChatId,omitempty"`
}
