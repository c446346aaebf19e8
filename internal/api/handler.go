package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "nusachat/backend/internal/errors"
	"nusachat/backend/internal/interfaces"
	"nusachat/backend/internal/model"
	"nusachat/backend/internal/service"
)

// ChatHandler handles HTTP requests for chats and message sends.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleStreamMessage godoc
// @Summary      Send a message and stream the reply
// @Description  Persists the user message, streams the assistant reply token by token over SSE, persists the final reply. The first event acknowledges the connection and carries the chat id; the last is either done or error.
// @Tags         Chats
// @Accept       json
// @Produce      text/event-stream
// @Param        message  body  service.SendMessageRequest  true  "Message to send"
// @Success      200  {object}  model.StreamEvent  "Stream of events"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/chats/messages/stream [post]
func (h *ChatHandler) HandleStreamMessage(w http.ResponseWriter, r *http.Request) {
	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	// Validation, authorization and chat resolution all happen before the
	// stream opens, so those failures are plain HTTP rejections and never
	// a half-open stream.
	sess, err := h.service.BeginStream(r.Context(), CallerID(r.Context()), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events := make(chan model.StreamEvent)
	go h.service.Run(r.Context(), sess, events)

	// Drain the channel to the wire. After a client disconnect the channel
	// is still drained so the exchange can finish persisting; the writes
	// are simply dropped.
	disconnected := false
	for event := range events {
		if disconnected || r.Context().Err() != nil {
			disconnected = true
			continue
		}
		if err := writeStreamEvent(w, event); err != nil {
			slog.Info("Client disconnected mid-stream", "chat_id", sess.Chat.ID)
			disconnected = true
		}
	}
}

// HandleSendMessage godoc
// @Summary      Send a message synchronously
// @Description  Same rules as the streaming endpoint, but the response is returned whole after generation finishes.
// @Tags         Chats
// @Accept       json
// @Produce      json
// @Param        message  body  service.SendMessageRequest  true  "Message to send"
// @Success      200  {object}  service.SendMessageResult
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/chats/messages [post]
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.service.SendMessage(r.Context(), CallerID(r.Context()), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleCreateChat godoc
// @Summary      Create an empty chat
// @Description  Explicit "new chat" action. The chat belongs to the caller, or to nobody when the caller is a guest.
// @Tags         Chats
// @Produce      json
// @Success      201  {object}  model.Chat
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/chats [post]
func (h *ChatHandler) HandleCreateChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.service.CreateChat(r.Context(), CallerID(r.Context()))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, chat)
}

// GetChats godoc
// @Summary      List the caller's chats
// @Description  Returns the caller's chats ordered by last update. Guests get an empty list; they look their chats up by id instead.
// @Tags         Chats
// @Produce      json
// @Success      200  {array}  model.Chat
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/chats [get]
func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.service.ListChats(r.Context(), CallerID(r.Context()))
	if err != nil {
		respondWithError(w, err)
		return
	}
	if chats == nil {
		chats = []*model.Chat{}
	}
	respondWithJSON(w, http.StatusOK, chats)
}

// HandleLookupChats godoc
// @Summary      Look up guest chats by id
// @Description  Resolves remembered chat ids to chats. Only guest-owned chats are returned.
// @Tags         Chats
// @Accept       json
// @Produce      json
// @Param        lookup  body  LookupChatsRequest  true  "Chat ids to resolve"
// @Success      200  {array}  model.Chat
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/chats/lookup [post]
func (h *ChatHandler) HandleLookupChats(w http.ResponseWriter, r *http.Request) {
	var req LookupChatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	chats, err := h.service.GetChatsByIDs(r.Context(), req.ChatIDs)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if chats == nil {
		chats = []*model.Chat{}
	}
	respondWithJSON(w, http.StatusOK, chats)
}

// GetChat godoc
// @Summary      Get a chat with its messages
// @Description  Returns the chat metadata and all messages in creation order, subject to the ownership rule.
// @Tags         Chats
// @Produce      json
// @Param        chatID  path  string  true  "Chat ID"
// @Success      200  {object}  model.FullChat
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/chats/{chatID} [get]
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	fullChat, err := h.service.GetFullChat(r.Context(), CallerID(r.Context()), chatID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fullChat)
}
