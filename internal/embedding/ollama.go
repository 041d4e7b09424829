package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements Provider against a local Ollama server
type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewOllamaProvider creates an Ollama provider. A non-positive timeout defaults to 30s.
func NewOllamaProvider(baseURL, model string, timeout time.Duration) *OllamaProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OllamaProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  &http.Client{Timeout: timeout},
		Logger:  slog.Default(),
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Encode posts all texts to /api/embed in a single request
func (p *OllamaProvider) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	p.Logger.Debug("ollama_embed_started",
		slog.Int("text_count", len(texts)),
		slog.String("model", p.Model),
		slog.String("url", p.BaseURL),
	)
	start := time.Now()

	body, err := json.Marshal(ollamaEmbedRequest{Model: p.Model, Input: texts})
	if err != nil {
		return nil, &ProviderError{Provider: p.Version(), Message: "failed to marshal request", Cause: err}
	}

	url := fmt.Sprintf("%s/api/embed", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.Version(), Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		p.Logger.Error("ollama_embed_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, &ProviderError{Provider: p.Version(), Message: "failed to call ollama", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		p.Logger.Error("ollama_embed_bad_status",
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, &ProviderError{Provider: p.Version(), Message: fmt.Sprintf("ollama returned status %d", resp.StatusCode)}
	}

	var decoded ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Provider: p.Version(), Message: "failed to decode response", Cause: err}
	}
	if len(decoded.Embeddings) != len(texts) {
		return nil, &ProviderError{
			Provider: p.Version(),
			Message:  fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(decoded.Embeddings)),
		}
	}

	p.Logger.Debug("ollama_embed_completed",
		slog.Int("embedding_count", len(decoded.Embeddings)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return decoded.Embeddings, nil
}

// Version returns the provider and model name
func (p *OllamaProvider) Version() string {
	return "ollama/" + p.Model
}

var _ Provider = (*OllamaProvider)(nil)
