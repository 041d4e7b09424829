package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ProviderKind selects an embedding backend
type ProviderKind string

// Supported embedding backends
const (
	// ProviderGemini is the Google Gemini embedding API
	ProviderGemini ProviderKind = "gemini"
	// ProviderOllama is a local Ollama server
	ProviderOllama ProviderKind = "ollama"
	// ProviderHashing is the offline feature-hashing embedder
	ProviderHashing ProviderKind = "hashing"
)

// Config holds the embedding provider configuration
type Config struct {
	Provider   ProviderKind
	Model      string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	BatchSize  int
	CacheSize  int
	Dimensions int
	// Logger receives provider records; nil uses slog.Default()
	Logger *slog.Logger
}

// defaultModels maps each provider to its default model
var defaultModels = map[ProviderKind]string{
	ProviderGemini:  "text-embedding-004",
	ProviderOllama:  "nomic-embed-text",
	ProviderHashing: "fnv-bow",
}

// DefaultConfig returns the offline configuration, which needs no credentials
func DefaultConfig() *Config {
	return &Config{
		Provider:   ProviderHashing,
		Model:      defaultModels[ProviderHashing],
		BaseURL:    "http://localhost:11434",
		Timeout:    30 * time.Second,
		BatchSize:  100,
		CacheSize:  1024,
		Dimensions: 512,
	}
}

// GetModel returns the configured model, falling back to the provider default
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// WithProvider returns a copy of the config targeting another provider with its default model
func (c *Config) WithProvider(kind ProviderKind) *Config {
	next := *c
	next.Provider = kind
	next.Model = defaultModels[kind]
	return &next
}

// NewProvider builds the provider selected by config, wrapped in an LRU cache when CacheSize > 0
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		provider Provider
		err      error
	)
	switch config.Provider {
	case ProviderGemini:
		provider, err = NewGeminiProvider(ctx, config)
	case ProviderOllama:
		ollama := NewOllamaProvider(config.BaseURL, config.GetModel(), config.Timeout)
		if config.Logger != nil {
			ollama.Logger = config.Logger
		}
		provider = ollama
	case ProviderHashing, "":
		provider = NewHashingProvider(config.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.CacheSize > 0 {
		return NewCachedProvider(provider, config.CacheSize, config.Logger)
	}
	return provider, nil
}
