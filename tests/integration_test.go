// End-to-end tests that wire the real router, services, and SQLite store
// together in-process, with httptest servers standing in for the upstream
// model APIs. No containers and no network, so these run everywhere `go
// test` does.
package tests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nusachat/backend/internal/api"
	"nusachat/backend/internal/database"
	"nusachat/backend/internal/llm"
	"nusachat/backend/internal/repository"
	"nusachat/backend/internal/service"
	"nusachat/backend/pkg/client"
)

// fakeOpenAI streams a fixed pair of tokens for any chat completion and
// answers "Test Title" to non-streaming (title) calls.
func fakeOpenAI(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req struct {
			Stream bool `json:"stream"`
		}
		assert.NoError(t, jsonDecode(r, &req))

		if !req.Stream {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Test Title"}}]}`)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"there\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func startServer(t *testing.T, upstream *httptest.Server) *httptest.Server {
	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.NewSQLiteRepository(db)
	providers := llm.NewRegistry(llm.Config{
		OpenAIAPIKey:  "test-key",
		OpenAIBaseURL: upstream.URL,
	})
	policy := service.NewAccessPolicy([]string{"gpt-3.5-turbo"}, "gpt-3.5-turbo", "gpt-4o")
	titles := service.NewTitleService(repo, providers)
	chatService := service.NewChatService(repo, providers, policy, titles, service.Options{PersistOnDisconnect: true})

	router := api.NewRouter(api.NewChatHandler(chatService))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestStreamingExchange(t *testing.T) {
	upstream := fakeOpenAI(t)
	defer upstream.Close()
	server := startServer(t, upstream)

	c := client.New(server.URL, client.WithUserID("user123"))
	r := client.NewReconciler("")
	require.True(t, r.Send("Hello"))

	err := c.StreamMessage(context.Background(), client.SendParams{Content: "Hello"}, client.Callbacks{
		OnConnected: r.HandleConnected,
		OnToken:     r.HandleToken,
		OnError:     r.HandleError,
		OnDone:      r.HandleDone,
	})
	require.NoError(t, err)
	require.Empty(t, r.Err())

	chatID := r.ChatID()
	require.NotEmpty(t, chatID)

	// The streamed text and the persisted assistant message agree.
	view := r.View()
	require.Len(t, view, 2)
	assert.Equal(t, "Hi there", view[1].Content)

	fullChat := getFullChat(t, server, "user123", chatID)
	require.Len(t, fullChat.Messages, 2)
	assert.Equal(t, "Hello", fullChat.Messages[0].Content)
	assert.Equal(t, "Hi there", fullChat.Messages[1].Content)

	// Feeding the fetched history back in leaves no duplicates.
	r.SetPersisted(fullChat.Messages)
	view = r.View()
	require.Len(t, view, 2)

	// The detached title job lands eventually.
	require.Eventually(t, func() bool {
		return getFullChat(t, server, "user123", chatID).Title == "Test Title"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestGuestDeniedPremiumModel(t *testing.T) {
	upstream := fakeOpenAI(t)
	defer upstream.Close()
	server := startServer(t, upstream)

	c := client.New(server.URL) // no user id: guest

	err := c.StreamMessage(context.Background(), client.SendParams{Content: "Hello", Model: "gpt-4o"}, client.Callbacks{
		OnToken: func(string) { t.Fatal("no tokens expected on a rejected send") },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signed in")
}

func TestGuestChatLifecycle(t *testing.T) {
	upstream := fakeOpenAI(t)
	defer upstream.Close()
	server := startServer(t, upstream)

	// A guest send on the free model creates a guest-owned chat.
	c := client.New(server.URL)
	r := client.NewReconciler("")
	require.True(t, r.Send("Hello"))

	err := c.StreamMessage(context.Background(), client.SendParams{Content: "Hello"}, client.Callbacks{
		OnConnected: r.HandleConnected,
		OnToken:     r.HandleToken,
		OnError:     r.HandleError,
		OnDone:      r.HandleDone,
	})
	require.NoError(t, err)
	chatID := r.ChatID()
	require.NotEmpty(t, chatID)

	// The guest finds the chat again through the id lookup.
	chats := lookupChats(t, server, []string{chatID, "not-a-chat"})
	require.Len(t, chats, 1)
	assert.Equal(t, chatID, chats[0].ID)

	// A signed-in caller can read the guest chat too: access is by id.
	fullChat := getFullChat(t, server, "someone-else", chatID)
	assert.Len(t, fullChat.Messages, 2)
}

func TestOwnedChatIsPrivate(t *testing.T) {
	upstream := fakeOpenAI(t)
	defer upstream.Close()
	server := startServer(t, upstream)

	owner := client.New(server.URL, client.WithUserID("owner"))
	r := client.NewReconciler("")
	require.True(t, r.Send("Secret question"))

	err := owner.StreamMessage(context.Background(), client.SendParams{Content: "Secret question"}, client.Callbacks{
		OnConnected: r.HandleConnected,
		OnDone:      r.HandleDone,
	})
	require.NoError(t, err)
	chatID := r.ChatID()

	// Another user is rejected, and so is a guest.
	assert.Equal(t, http.StatusForbidden, getChatStatus(t, server, "intruder", chatID))
	assert.Equal(t, http.StatusForbidden, getChatStatus(t, server, "", chatID))

	// The owner's chat never comes back from the guest lookup either.
	assert.Empty(t, lookupChats(t, server, []string{chatID}))
}

func TestUnknownChatIs404(t *testing.T) {
	upstream := fakeOpenAI(t)
	defer upstream.Close()
	server := startServer(t, upstream)

	assert.Equal(t, http.StatusNotFound, getChatStatus(t, server, "user123", "no-such-chat"))
}
