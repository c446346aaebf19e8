package repository

import (
	"context"

	"nusachat/backend/internal/model"
)

// Repository is the conversation store gateway: the thin contract the core
// depends on for persistence. Chats are never deleted through it; deletion
// is an administrative concern outside this service.
type Repository interface {
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChat(ctx context.Context, chatID string) (*model.Chat, error)
	// GetChats lists an owner's chats, most recently updated first.
	GetChats(ctx context.Context, userID string) ([]*model.Chat, error)
	// GetChatsByIDs returns the guest-owned chats among the given ids.
	// Owned chats are deliberately excluded: guests only ever hold ids
	// of chats they created themselves.
	GetChatsByIDs(ctx context.Context, chatIDs []string) ([]*model.Chat, error)
	UpdateChatTitle(ctx context.Context, chatID, newTitle string) error

	AddMessage(ctx context.Context, chatID string, message *model.Message) error
	// GetMessages returns a chat's messages ordered by creation time,
	// oldest first. This is the only ordering ever surfaced.
	GetMessages(ctx context.Context, chatID string) ([]model.Message, error)
	CountMessages(ctx context.Context, chatID string) (int, error)
}
