// Package llm provides the remote inference client used by the domain adapters.
// The default provider is a locally hosted Ollama server; Gemini is available as an alternative.
package llm

import (
	"fmt"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOllama is a local Ollama server speaking /api/chat
	ProviderOllama Provider = "ollama"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the local model.
const (
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "llama3.2:1b"
	DefaultTimeout  = 120 * time.Second
	defaultGemini   = "gemini-2.5-flash"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Endpoint string
	Model    string
	Timeout  time.Duration
	APIKey   string
}

// DefaultConfig returns the local Ollama configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		Timeout:  DefaultTimeout,
	}
}

// Normalize fills unset fields with provider defaults and rejects unknown providers.
func (c *Config) Normalize() error {
	if c.Provider == "" {
		c.Provider = ProviderOllama
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	switch c.Provider {
	case ProviderOllama:
		if c.Endpoint == "" {
			c.Endpoint = DefaultEndpoint
		}
		if c.Model == "" {
			c.Model = DefaultModel
		}
	case ProviderGemini:
		if c.Model == "" {
			c.Model = defaultGemini
		}
	default:
		return fmt.Errorf("unsupported LLM provider %q", c.Provider)
	}
	return nil
}

// WithModel returns a copy of the config using a different model.
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}
