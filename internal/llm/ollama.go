package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed reply is kept in the error message.
const maxErrorBody = 512

// OllamaClient implements Client against an Ollama /api/chat endpoint.
type OllamaClient struct {
	httpClient *http.Client
	config     *Config
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewOllamaClient creates a client for the configured endpoint.
func NewOllamaClient(config *Config) *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// Complete posts a non-streaming chat request and returns the assistant content.
func (c *OllamaClient) Complete(ctx context.Context, systemPrompt string, userPayload any) (string, error) {
	content, err := payloadText(userPayload)
	if err != nil {
		return "", c.fail(0, err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: content},
		},
		Stream: false,
	})
	if err != nil {
		return "", c.fail(0, fmt.Errorf("failed to marshal request: %w", err))
	}

	url := strings.TrimRight(c.config.Endpoint, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", c.fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.fail(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", c.fail(resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(raw))))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", c.fail(resp.StatusCode, fmt.Errorf("failed to decode reply envelope: %w", err))
	}

	return decoded.Message.Content, nil
}

// Model returns the configured model name
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP transport is shared.
func (c *OllamaClient) Close() error {
	return nil
}

func (c *OllamaClient) fail(status int, cause error) error {
	return &RemoteCallError{Provider: ProviderOllama, StatusCode: status, Cause: cause}
}
