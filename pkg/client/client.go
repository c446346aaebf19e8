// Package client is the consumer side of the streaming protocol: a thin
// HTTP client that parses the event stream incrementally, and a Reconciler
// that merges persisted history, an optimistic local echo of the user's
// message, and in-flight tokens into one ordered view.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"nusachat/backend/internal/model"
)

const streamPath = "/api/v1/chats/messages/stream"

// SendParams is the request shape accepted by the streaming endpoint.
type SendParams struct {
	ChatID   string `json:"chatId,omitempty"`
	Content  string `json:"content"`
	Model    string `json:"model,omitempty"`
	Language string `json:"language,omitempty"`
}

// Callbacks receive the parsed wire events in arrival order. Nil callbacks
// are skipped.
type Callbacks struct {
	OnConnected func(newChatID string)
	OnToken     func(token string)
	OnError     func(message string)
	OnDone      func(userMessageID, aiMessageID, newChatID string)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserID attaches a caller identity to every request.
func WithUserID(userID string) Option {
	return func(c *Client) { c.userID = userID }
}

// Client issues streaming sends against a chat server.
type Client struct {
	http    *http.Client
	baseURL string
	userID  string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		// No overall timeout: the connection is held open for the whole
		// generation.
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StreamMessage sends one message and consumes the event stream until it
// ends. A non-2xx pre-stream response is returned as an error with the
// server's reason; in-stream errors arrive through OnError and do not fail
// the call.
func (c *Client) StreamMessage(ctx context.Context, params SendParams, cb Callbacks) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return fmt.Errorf("server rejected request: %s", errResp.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	// One event per line, `data: <json>`; empty lines are ignored.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var event model.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			return fmt.Errorf("could not decode stream event: %w", err)
		}

		switch {
		case event.Connected:
			if cb.OnConnected != nil {
				cb.OnConnected(event.NewChatID)
			}
		case event.Token != "":
			if cb.OnToken != nil {
				cb.OnToken(event.Token)
			}
		case event.Error != "":
			if cb.OnError != nil {
				cb.OnError(event.Error)
			}
		case event.Done:
			if cb.OnDone != nil {
				cb.OnDone(event.UserMessageID, event.AIMessageID, event.NewChatID)
			}
		}
	}
	return scanner.Err()
}
