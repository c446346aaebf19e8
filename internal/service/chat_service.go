package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	app_errors "nusachat/backend/internal/errors"
	"nusachat/backend/internal/llm"
	"nusachat/backend/internal/model"
	"nusachat/backend/internal/observe"
	"nusachat/backend/internal/repository"
)

// fallbackTitle is used when a chat's first message is empty.
const fallbackTitle = "New Chat"

// defaultTitleLength is how many runes of the first user message become
// the chat's initial title.
const defaultTitleLength = 30

// SendMessageRequest is the structure for a new message request from the
// client, shared by the streaming and synchronous paths.
type SendMessageRequest struct {
	ChatID   string `json:"chatId"`
	Content  string `json:"content" validate:"required"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// SendMessageResult is the synchronous path's response: both persisted
// messages, plus the chat id when the request minted a new chat.
type SendMessageResult struct {
	UserMessage *model.Message `json:"userMessage"`
	AIMessage   *model.Message `json:"aiMessage"`
	NewChatID   string         `json:"newChatId,omitempty"`
}

// StreamSession is the ephemeral state of one streaming exchange. It is
// created by BeginStream, after validation and authorization have passed
// but before any byte has been written to the response, and it dies with
// the exchange.
type StreamSession struct {
	Chat     *model.Chat
	NewChat  bool // chat was minted by this request
	CallerID *string
	Model    string // effective model, after default resolution
	Content  string
	Language string
}

// Options carries the orchestrator's policy knobs.
type Options struct {
	// PersistOnDisconnect keeps the assistant-message write alive when the
	// client drops the connection mid-stream.
	PersistOnDisconnect bool
	Sink                observe.Sink
}

type ChatService struct {
	repo                repository.Repository
	providers           llm.Provider
	policy              *AccessPolicy
	titles              *TitleService
	sink                observe.Sink
	persistOnDisconnect bool
}

func NewChatService(repo repository.Repository, providers llm.Provider, policy *AccessPolicy, titles *TitleService, opts Options) *ChatService {
	sink := opts.Sink
	if sink == nil {
		sink = observe.Nop()
	}
	return &ChatService{
		repo:                repo,
		providers:           providers,
		policy:              policy,
		titles:              titles,
		sink:                sink,
		persistOnDisconnect: opts.PersistOnDisconnect,
	}
}

// canAccess implements the capability-by-id ownership rule: a guest-owned
// chat (nil owner) is accessible to anyone who knows its id; an owned chat
// only to its owner.
func canAccess(chat *model.Chat, callerID *string) bool {
	if chat.UserID == nil {
		return true
	}
	return callerID != nil && *callerID == *chat.UserID
}

// defaultTitle derives a chat's initial title from its first user message.
func defaultTitle(content string) string {
	title := truncateRunes(content, defaultTitleLength)
	if title == "" {
		return fallbackTitle
	}
	return title
}

// truncateRunes shortens a string to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// BeginStream runs everything that must happen before the response stream
// opens: input validation, model authorization, and chat resolution or
// creation. Failures here are plain errors the transport can turn into a
// rejected request; nothing has been streamed yet.
func (s *ChatService) BeginStream(ctx context.Context, callerID *string, req *SendMessageRequest) (*StreamSession, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content must not be empty", app_errors.ErrValidation)
	}

	effectiveModel, err := s.policy.Authorize(callerID, req.Model)
	if err != nil {
		return nil, err
	}
	if effectiveModel == "" {
		return nil, fmt.Errorf("%w: no model resolved for request", app_errors.ErrValidation)
	}

	var chat *model.Chat
	newChat := false
	if req.ChatID == "" {
		now := time.Now().UTC()
		chat = &model.Chat{
			ID:        uuid.NewString(),
			Title:     defaultTitle(req.Content),
			UserID:    callerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.CreateChat(ctx, chat); err != nil {
			return nil, fmt.Errorf("could not create chat: %w", err)
		}
		newChat = true
	} else {
		chat, err = s.repo.GetChat(ctx, req.ChatID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: chat %s", app_errors.ErrNotFound, req.ChatID)
			}
			return nil, fmt.Errorf("could not get chat: %w", err)
		}
		if !canAccess(chat, callerID) {
			return nil, fmt.Errorf("%w: chat belongs to another user", app_errors.ErrPermission)
		}
	}

	s.sink.Event(ctx, "stream.begin",
		"chat_id", chat.ID, "new_chat", newChat, "model", effectiveModel, "content_length", len(req.Content))

	return &StreamSession{
		Chat:     chat,
		NewChat:  newChat,
		CallerID: callerID,
		Model:    effectiveModel,
		Content:  req.Content,
		Language: req.Language,
	}, nil
}

// Run drives one authorized streaming exchange and closes events when it
// is over. The first event is always the connection ack carrying the chat
// id, the last is either done or error; every provider fragment in between
// is forwarded in order, unbatched. Failures after this point stay in-band:
// nothing escapes to the transport as an unhandled fault.
func (s *ChatService) Run(ctx context.Context, sess *StreamSession, events chan<- model.StreamEvent) {
	defer close(events)

	chatID := sess.Chat.ID
	events <- model.StreamEvent{Connected: true, NewChatID: chatID}

	// Writes must survive a client disconnect when the policy says so; the
	// provider call stays on the request context so generation stops with
	// the caller.
	persistCtx := ctx
	if s.persistOnDisconnect {
		persistCtx = context.WithoutCancel(ctx)
	}

	// The user message is persisted concurrently with the provider call
	// being initiated; neither waits for the other. The done event reports
	// the message's id, so the write is awaited before it is emitted.
	userMessage := s.newMessage(chatID, model.RoleUser, sess.Content, sess)
	userSaved := make(chan error, 1)
	go func() {
		userSaved <- s.repo.AddMessage(persistCtx, chatID, userMessage)
	}()

	fragments := make(chan llm.Fragment)
	streamErr := make(chan error, 1)
	go func() {
		streamErr <- s.providers.StreamCompletion(ctx, sess.Model, llm.SystemPrompt(sess.Language), sess.Content, fragments)
	}()

	var accumulated strings.Builder
	for fragment := range fragments {
		if fragment.Text == "" {
			continue
		}
		accumulated.WriteString(fragment.Text)
		events <- model.StreamEvent{Token: fragment.Text}
	}
	provErr := <-streamErr

	content := accumulated.String()
	if provErr != nil && errors.Is(provErr, context.Canceled) {
		// The client disconnected mid-generation. Keep what was generated
		// rather than synthesizing an error nobody will see.
		s.sink.Event(ctx, "stream.disconnected", "chat_id", chatID, "content_length", len(content))
		provErr = nil
	}

	// On provider failure the partial text is discarded: the persisted
	// assistant message is the synthesized error, never a truncated answer.
	if provErr != nil {
		content = fmt.Sprintf("Error calling AI model (%s): %v", sess.Model, provErr)
		s.sink.Event(ctx, "stream.provider_error", "chat_id", chatID, "model", sess.Model, "error", provErr.Error())
	}

	aiMessage := s.newMessage(chatID, model.RoleAssistant, content, sess)
	if err := s.repo.AddMessage(persistCtx, chatID, aiMessage); err != nil {
		slog.Error("Failed to save assistant message", "chat_id", chatID, "error", err)
		events <- model.StreamEvent{Error: "Could not save the response"}
		return
	}

	// The done event reports the user message's id, so a failed write must
	// not be reported as success.
	if err := <-userSaved; err != nil {
		slog.Error("Failed to save user message", "chat_id", chatID, "error", err)
		events <- model.StreamEvent{Error: "Could not save the message"}
		return
	}

	if provErr != nil {
		events <- model.StreamEvent{Error: content}
		return
	}

	doneEvent := model.StreamEvent{
		Done:          true,
		UserMessageID: userMessage.ID,
		AIMessageID:   aiMessage.ID,
	}
	if sess.NewChat {
		doneEvent.NewChatID = chatID
	}
	events <- doneEvent

	s.sink.Event(ctx, "stream.done", "chat_id", chatID, "content_length", len(content))

	s.maybeGenerateTitle(persistCtx, sess)
}

// SendMessage is the synchronous equivalent of the streaming exchange: the
// same validation, authorization, persistence, and title-trigger rules, but
// the full response is returned at once. A provider failure still yields a
// persisted assistant message carrying the error text, not an HTTP error.
func (s *ChatService) SendMessage(ctx context.Context, callerID *string, req *SendMessageRequest) (*SendMessageResult, error) {
	sess, err := s.BeginStream(ctx, callerID, req)
	if err != nil {
		return nil, err
	}
	chatID := sess.Chat.ID

	userMessage := s.newMessage(chatID, model.RoleUser, sess.Content, sess)
	if err := s.repo.AddMessage(ctx, chatID, userMessage); err != nil {
		return nil, fmt.Errorf("could not save user message: %w", err)
	}

	fragments := make(chan llm.Fragment)
	streamErr := make(chan error, 1)
	go func() {
		streamErr <- s.providers.StreamCompletion(ctx, sess.Model, llm.SystemPrompt(sess.Language), sess.Content, fragments)
	}()

	var accumulated strings.Builder
	for fragment := range fragments {
		accumulated.WriteString(fragment.Text)
	}

	content := accumulated.String()
	if provErr := <-streamErr; provErr != nil {
		content = fmt.Sprintf("Error calling AI model (%s): %v", sess.Model, provErr)
	}

	aiMessage := s.newMessage(chatID, model.RoleAssistant, content, sess)
	if err := s.repo.AddMessage(ctx, chatID, aiMessage); err != nil {
		return nil, fmt.Errorf("could not save assistant message: %w", err)
	}

	s.maybeGenerateTitle(ctx, sess)

	result := &SendMessageResult{UserMessage: userMessage, AIMessage: aiMessage}
	if sess.NewChat {
		result.NewChatID = chatID
	}
	return result, nil
}

// CreateChat handles the explicit "new chat" action. The chat starts with
// the fallback title; the first message will replace it.
func (s *ChatService) CreateChat(ctx context.Context, callerID *string) (*model.Chat, error) {
	now := time.Now().UTC()
	chat := &model.Chat{
		ID:        uuid.NewString(),
		Title:     fallbackTitle,
		UserID:    callerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("could not create chat: %w", err)
	}
	return chat, nil
}

// ListChats retrieves the caller's chats, most recently updated first.
// Guests have no owned chats; they track their chat ids client-side and
// use GetChatsByIDs instead.
func (s *ChatService) ListChats(ctx context.Context, callerID *string) ([]*model.Chat, error) {
	if callerID == nil {
		return nil, nil
	}
	return s.repo.GetChats(ctx, *callerID)
}

// GetChatsByIDs resolves a guest's remembered chat ids to chats. Only
// guest-owned chats come back; ids of owned or unknown chats are dropped.
func (s *ChatService) GetChatsByIDs(ctx context.Context, chatIDs []string) ([]*model.Chat, error) {
	return s.repo.GetChatsByIDs(ctx, chatIDs)
}

// GetFullChat retrieves a chat's metadata and all its messages, enforcing
// the same ownership rule as message sends.
func (s *ChatService) GetFullChat(ctx context.Context, callerID *string, chatID string) (*model.FullChat, error) {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chat %s", app_errors.ErrNotFound, chatID)
		}
		return nil, fmt.Errorf("could not get chat: %w", err)
	}
	if !canAccess(chat, callerID) {
		return nil, fmt.Errorf("%w: chat belongs to another user", app_errors.ErrPermission)
	}

	messages, err := s.repo.GetMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("could not get messages: %w", err)
	}
	return &model.FullChat{Chat: *chat, Messages: messages}, nil
}

// maybeGenerateTitle fires the title job when the chat has completed its
// first full exchange (exactly two stored messages). The job is detached:
// its slowness or failure never reaches the response already sent, and the
// only coordination with concurrent sends is the store's own atomicity.
func (s *ChatService) maybeGenerateTitle(ctx context.Context, sess *StreamSession) {
	count, err := s.repo.CountMessages(ctx, sess.Chat.ID)
	if err != nil {
		slog.Warn("Could not count messages for title trigger", "chat_id", sess.Chat.ID, "error", err)
		return
	}
	if count != 2 {
		return
	}
	go s.titles.Generate(context.Background(), sess.CallerID, sess.Chat.ID, sess.Model)
}

func (s *ChatService) newMessage(chatID, role, content string, sess *StreamSession) *model.Message {
	msg := &model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	modelName := sess.Model
	msg.Model = &modelName
	if sess.Language != "" {
		language := sess.Language
		msg.Language = &language
	}
	return msg
}
