package interfaces

import (
	"context"

	"nusachat/backend/internal/model"
	"nusachat/backend/internal/service"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows
// for decoupling (the API layer from the service layer) and easier testing
// via mocks.

// ChatService defines the contract for chat-related business logic.
type ChatService interface {
	// BeginStream validates and authorizes a send and resolves or creates
	// the chat, before any streaming I/O happens.
	BeginStream(ctx context.Context, callerID *string, req *service.SendMessageRequest) (*service.StreamSession, error)
	// Run drives the exchange, writing wire events to the channel and
	// closing it when finished.
	Run(ctx context.Context, sess *service.StreamSession, events chan<- model.StreamEvent)

	SendMessage(ctx context.Context, callerID *string, req *service.SendMessageRequest) (*service.SendMessageResult, error)
	CreateChat(ctx context.Context, callerID *string) (*model.Chat, error)
	ListChats(ctx context.Context, callerID *string) ([]*model.Chat, error)
	GetChatsByIDs(ctx context.Context, chatIDs []string) ([]*model.Chat, error)
	GetFullChat(ctx context.Context, callerID *string, chatID string) (*model.FullChat, error)
}
