package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client is an abstraction over inference providers.
// Complete sends a system prompt and a user payload and returns the raw reply text.
// Any failure is reported as an error matching ErrRemoteCallFailed.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, userPayload any) (string, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Normalize(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return NewOllamaClient(config), nil
	}
}

// payloadText renders the user payload as message content.
// Strings and byte slices pass through verbatim; everything else is JSON encoded.
func payloadText(userPayload any) (string, error) {
	switch v := userPayload.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal payload: %w", err)
		}
		return string(data), nil
	}
}
