package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com"

// geminiClient talks to the Google generative language API (gemini* models).
// Gemini has no system-role slot in this API shape, so the system
// instruction is prepended to the user text instead.
type geminiClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func newGeminiClient(client *http.Client, baseURL, apiKey string) *geminiClient {
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	return &geminiClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (r *geminiResponse) text() string {
	var sb strings.Builder
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func (c *geminiClient) post(ctx context.Context, model, action, query string, prompt string) (*http.Response, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:%s?%skey=%s", c.baseURL, model, action, query, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return resp, nil
}

func (c *geminiClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("Google API key not found")
	}

	resp, err := c.post(ctx, model, "generateContent", "", prompt)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	return genResp.text(), nil
}

func (c *geminiClient) StreamCompletion(ctx context.Context, model, system, user string, ch chan<- Fragment) error {
	defer close(ch)

	if c.apiKey == "" {
		return fmt.Errorf("Google API key not found")
	}

	prompt := user
	if system != "" {
		prompt = system + "\n\n" + user
	}

	resp, err := c.post(ctx, model, "streamGenerateContent", "alt=sse&", prompt)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")

		var chunk geminiResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fmt.Errorf("could not decode stream chunk: %w", err)
		}
		text := chunk.text()
		if text == "" {
			continue
		}

		select {
		case ch <- Fragment{Text: text}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
