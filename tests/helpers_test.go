package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"nusachat/backend/internal/model"
)

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func doRequest(t *testing.T, server *httptest.Server, method, path, userID string, body any) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, server.URL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getFullChat(t *testing.T, server *httptest.Server, userID, chatID string) *model.FullChat {
	t.Helper()

	resp := doRequest(t, server, http.MethodGet, "/api/v1/chats/"+chatID, userID, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fullChat model.FullChat
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fullChat))
	return &fullChat
}

func getChatStatus(t *testing.T, server *httptest.Server, userID, chatID string) int {
	t.Helper()

	resp := doRequest(t, server, http.MethodGet, "/api/v1/chats/"+chatID, userID, nil)
	defer resp.Body.Close()
	return resp.StatusCode
}

func lookupChats(t *testing.T, server *httptest.Server, chatIDs []string) []*model.Chat {
	t.Helper()

	resp := doRequest(t, server, http.MethodPost, "/api/v1/chats/lookup", "", map[string]any{"chatIds": chatIDs})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []*model.Chat
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chats))
	return chats
}
