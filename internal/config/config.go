// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/career-compass/internal/llm"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Defaults applied by Default and by Load for unset fields.
const (
	DefaultPort        = 8080
	DefaultCORSOrigin  = "http://localhost:3000"
	DefaultFallbackTTL = 30 * time.Second
)

// Config is the full process configuration. It can be loaded from a JSON or YAML
// file and is then overlaid with environment variables.
type Config struct {
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	CORSOrigin string `json:"cors_origin,omitempty" yaml:"cors_origin,omitempty"`
	Verbose    bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	LLM LLMConfig `json:"llm" yaml:"llm"`

	StorageBackend string `json:"storage_backend,omitempty" yaml:"storage_backend,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	RedisURL       string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	// FallbackTTL is how long fallback results stay cached; 0 disables caching them.
	FallbackTTL Duration `json:"fallback_ttl,omitempty" yaml:"fallback_ttl,omitempty"`

	JWTSecret          string `json:"-" yaml:"-"`
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty" yaml:"jwt_expiration_hours,omitempty"`
}

// LLMConfig selects and configures the model provider.
type LLMConfig struct {
	Provider string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Endpoint string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Model    string   `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout  Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	APIKey   string   `json:"-" yaml:"-"`
}

// Duration is a time.Duration that reads "30s" style strings from JSON and YAML.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(data))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns a configuration that runs against a local Ollama with in-memory storage.
func Default() *Config {
	return &Config{
		Port:       DefaultPort,
		CORSOrigin: DefaultCORSOrigin,
		LLM: LLMConfig{
			Provider: string(llm.ProviderOllama),
			Endpoint: llm.DefaultEndpoint,
			Model:    llm.DefaultModel,
			Timeout:  Duration(llm.DefaultTimeout),
		},
		StorageBackend:     BackendMemory,
		FallbackTTL:        Duration(DefaultFallbackTTL),
		JWTExpirationHours: 24,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return cfg, nil
}

// Load reads path when given (defaults otherwise), loads .env if present and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays set environment variables onto c.
func (c *Config) ApplyEnv() error {
	if err := envInt("PORT", &c.Port); err != nil {
		return err
	}
	envString("CORS_ORIGIN", &c.CORSOrigin)
	envString("LLM_PROVIDER", &c.LLM.Provider)
	envString("LLM_ENDPOINT", &c.LLM.Endpoint)
	envString("LLM_MODEL", &c.LLM.Model)
	if err := envDuration("LLM_TIMEOUT", &c.LLM.Timeout); err != nil {
		return err
	}
	envString("GEMINI_API_KEY", &c.LLM.APIKey)
	envString("STORAGE_BACKEND", &c.StorageBackend)
	envString("DATABASE_URL", &c.DatabaseURL)
	envString("REDIS_URL", &c.RedisURL)
	if err := envDuration("FALLBACK_TTL", &c.FallbackTTL); err != nil {
		return err
	}
	envString("JWT_SECRET", &c.JWTSecret)
	return envInt("JWT_EXPIRATION_HOURS", &c.JWTExpirationHours)
}

func envString(key string, dst *string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func envInt(key string, dst *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	if err := dst.parse(value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// Validate checks ranges and that the chosen backends have what they need.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.FallbackTTL < 0 {
		return fmt.Errorf("config error: 'fallback_ttl' must be non-negative")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be non-negative")
	}

	switch c.StorageBackend {
	case "", BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: storage backend %q requires DATABASE_URL", c.StorageBackend)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: storage backend %q requires REDIS_URL", c.StorageBackend)
		}
	default:
		return fmt.Errorf("config error: unknown storage backend %q", c.StorageBackend)
	}

	if _, err := c.LLMClientConfig(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.JWTSecret != "" {
		if _, err := c.JWT(); err != nil {
			return err
		}
	}
	return nil
}

// LLMClientConfig converts the LLM section into a normalized client configuration.
func (c *Config) LLMClientConfig() (*llm.Config, error) {
	cfg := &llm.Config{
		Provider: llm.Provider(c.LLM.Provider),
		Endpoint: c.LLM.Endpoint,
		Model:    c.LLM.Model,
		Timeout:  time.Duration(c.LLM.Timeout),
		APIKey:   c.LLM.APIKey,
	}
	// The Ollama defaults from Default mean nothing to Gemini.
	if cfg.Provider == llm.ProviderGemini && cfg.Model == llm.DefaultModel {
		cfg.Model = ""
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if cfg.Provider == llm.ProviderGemini && cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %q requires GEMINI_API_KEY", cfg.Provider)
	}
	return cfg, nil
}
