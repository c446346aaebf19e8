// The `_test` suffix creates a "black box" test package: the tests exercise
// only the handler's exported surface, the way the router does.
package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nusachat/backend/internal/api"
	app_errors "nusachat/backend/internal/errors"
	"nusachat/backend/internal/interfaces/mocks"
	"nusachat/backend/internal/model"
	"nusachat/backend/internal/service"
)

func setupChatHandler(t *testing.T) (*api.ChatHandler, *mocks.MockChatService) {
	mockSvc := mocks.NewMockChatService(t)
	return api.NewChatHandler(mockSvc), mockSvc
}

// addChiURLParams simulates how the chi router injects URL parameters
// (e.g. `{chatID}`) into the request's context, since the handlers read
// them with chi.URLParam.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// decodeStreamEvents parses an SSE body into the events it carries.
func decodeStreamEvents(t *testing.T, body string) []model.StreamEvent {
	t.Helper()
	var events []model.StreamEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event model.StreamEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event))
		events = append(events, event)
	}
	return events
}

func TestChatHandler_HandleStreamMessage(t *testing.T) {
	t.Run("Success - events reach the wire in order", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		sess := &service.StreamSession{Chat: &model.Chat{ID: "chat1"}, NewChat: true}
		mockSvc.On("BeginStream", mock.Anything, mock.Anything, mock.AnythingOfType("*service.SendMessageRequest")).
			Return(sess, nil).Once()
		mockSvc.On("Run", mock.Anything, sess, mock.Anything).
			Run(func(args mock.Arguments) {
				events := args.Get(2).(chan<- model.StreamEvent)
				events <- model.StreamEvent{Connected: true, NewChatID: "chat1"}
				events <- model.StreamEvent{Token: "Hel"}
				events <- model.StreamEvent{Token: "lo"}
				events <- model.StreamEvent{Done: true, UserMessageID: "u1", AIMessageID: "a1", NewChatID: "chat1"}
				close(events)
			}).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/messages/stream", strings.NewReader(`{"content":"Hello"}`))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))

		events := decodeStreamEvents(t, rr.Body.String())
		require.Len(t, events, 4)
		assert.True(t, events[0].Connected)
		assert.Equal(t, "Hel", events[1].Token)
		assert.Equal(t, "lo", events[2].Token)
		assert.True(t, events[3].Done)
	})

	t.Run("Failure - denial is a plain rejection, not a stream", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		mockSvc.On("BeginStream", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: you must be signed in to use this model", app_errors.ErrPermission)).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/messages/stream", strings.NewReader(`{"content":"Hi","model":"gpt-4o"}`))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NotEqual(t, "text/event-stream", rr.Header().Get("Content-Type"))

		var errResp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
		assert.NotEmpty(t, errResp.Error)
	})

	t.Run("Failure - invalid JSON body", func(t *testing.T) {
		handler, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/messages/stream", strings.NewReader(`{not json`))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - missing content", func(t *testing.T) {
		handler, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/messages/stream", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		handler.HandleStreamMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_HandleSendMessage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		result := &service.SendMessageResult{
			UserMessage: &model.Message{ID: "u1", Content: "Hello"},
			AIMessage:   &model.Message{ID: "a1", Content: "Hi"},
		}
		mockSvc.On("SendMessage", mock.Anything, mock.Anything, mock.AnythingOfType("*service.SendMessageRequest")).
			Return(result, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/messages", strings.NewReader(`{"content":"Hello"}`))
		rr := httptest.NewRecorder()
		handler.HandleSendMessage(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var returned service.SendMessageResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Equal(t, "a1", returned.AIMessage.ID)
	})

	t.Run("Failure - unknown chat", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		mockSvc.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, app_errors.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/messages", strings.NewReader(`{"content":"Hello","chatId":"missing"}`))
		rr := httptest.NewRecorder()
		handler.HandleSendMessage(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestChatHandler_HandleCreateChat(t *testing.T) {
	handler, mockSvc := setupChatHandler(t)

	mockSvc.On("CreateChat", mock.Anything, mock.Anything).
		Return(&model.Chat{ID: "chat1", Title: "New Chat"}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/v1/chats", nil)
	rr := httptest.NewRecorder()
	handler.HandleCreateChat(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestChatHandler_GetChats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		expected := []*model.Chat{{ID: "chat1", Title: "Test Chat"}}
		mockSvc.On("ListChats", mock.Anything, mock.Anything).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/chats", nil)
		rr := httptest.NewRecorder()
		handler.GetChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var returned []*model.Chat
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Equal(t, expected, returned)
	})

	t.Run("Guest gets an empty array, not null", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		mockSvc.On("ListChats", mock.Anything, mock.Anything).Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/chats", nil)
		rr := httptest.NewRecorder()
		handler.GetChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})
}

func TestChatHandler_HandleLookupChats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		expected := []*model.Chat{{ID: "chat1"}}
		mockSvc.On("GetChatsByIDs", mock.Anything, []string{"chat1", "chat2"}).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/lookup", strings.NewReader(`{"chatIds":["chat1","chat2"]}`))
		rr := httptest.NewRecorder()
		handler.HandleLookupChats(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - empty id list", func(t *testing.T) {
		handler, _ := setupChatHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/chats/lookup", strings.NewReader(`{"chatIds":[]}`))
		rr := httptest.NewRecorder()
		handler.HandleLookupChats(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestChatHandler_GetChat(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		fullChat := &model.FullChat{
			Chat:     model.Chat{ID: "chat1", Title: "Test Chat"},
			Messages: []model.Message{{ID: "msg1", Content: "Hello"}},
		}
		mockSvc.On("GetFullChat", mock.Anything, mock.Anything, "chat1").Return(fullChat, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/chats/chat1", nil)
		req = addChiURLParams(req, map[string]string{"chatID": "chat1"})
		rr := httptest.NewRecorder()
		handler.GetChat(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var returned model.FullChat
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
		assert.Equal(t, "chat1", returned.ID)
		assert.Len(t, returned.Messages, 1)
	})

	t.Run("Failure - foreign chat maps to 403", func(t *testing.T) {
		handler, mockSvc := setupChatHandler(t)

		mockSvc.On("GetFullChat", mock.Anything, mock.Anything, "chat1").
			Return(nil, app_errors.ErrPermission).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/chats/chat1", nil)
		req = addChiURLParams(req, map[string]string{"chatID": "chat1"})
		rr := httptest.NewRecorder()
		handler.GetChat(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
