package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_StreamCompletion(t *testing.T) {
	var capturedPath, capturedQuery string
	var capturedBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &capturedBody))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hel\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"lo\"}]}}]}\n\n")
	}))
	defer server.Close()

	client := newGeminiClient(server.Client(), server.URL, "test-key")

	ch := make(chan Fragment, 8)
	err := client.StreamCompletion(context.Background(), "gemini-2.0-flash", "be nice", "hi", ch)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo"}, collect(ch))
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:streamGenerateContent", capturedPath)
	assert.Equal(t, "alt=sse&key=test-key", capturedQuery)

	// No system slot in this API shape: the instruction is prepended to the
	// user text.
	require.Len(t, capturedBody.Contents, 1)
	require.Len(t, capturedBody.Contents[0].Parts, 1)
	assert.Equal(t, "be nice\n\nhi", capturedBody.Contents[0].Parts[0].Text)
}

func TestGeminiClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"A Short "},{"text":"Title"}]}}]}`))
	}))
	defer server.Close()

	client := newGeminiClient(server.Client(), server.URL, "test-key")

	result, err := client.Complete(context.Background(), "gemini-2.0-flash", "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "A Short Title", result)
}

func TestGeminiClient_MissingKey(t *testing.T) {
	client := newGeminiClient(http.DefaultClient, "http://unused", "")

	ch := make(chan Fragment, 1)
	err := client.StreamCompletion(context.Background(), "gemini-2.0-flash", "", "hi", ch)
	assert.ErrorContains(t, err, "API key not found")

	_, open := <-ch
	assert.False(t, open)
}
