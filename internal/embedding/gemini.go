package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// maxGeminiBatch is the largest batch accepted by BatchEmbedContents
const maxGeminiBatch = 100

// GeminiProvider implements Provider for the Google Gemini embedding API
type GeminiProvider struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	modelName string
	batchSize int
	logger    *slog.Logger
}

// NewGeminiProvider creates a Gemini embedding provider
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	batchSize := config.BatchSize
	if batchSize <= 0 || batchSize > maxGeminiBatch {
		batchSize = maxGeminiBatch
	}

	modelName := config.GetModel()
	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeSemanticSimilarity

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GeminiProvider{
		client:    client,
		model:     model,
		modelName: modelName,
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// Encode embeds texts in chunks of batchSize, issuing the chunks concurrently
func (p *GeminiProvider) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vectors := make([][]float32, len(texts))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for lo := 0; lo < len(texts); lo += p.batchSize {
		hi := min(lo+p.batchSize, len(texts))
		g.Go(func() error {
			batch := p.model.NewBatch()
			for _, text := range texts[lo:hi] {
				batch.AddContent(genai.Text(text))
			}

			resp, err := p.model.BatchEmbedContents(gCtx, batch)
			if err != nil {
				return &ProviderError{Provider: p.Version(), Message: "batch embed failed", Cause: err}
			}
			if len(resp.Embeddings) != hi-lo {
				return &ProviderError{
					Provider: p.Version(),
					Message:  fmt.Sprintf("expected %d embeddings, got %d", hi-lo, len(resp.Embeddings)),
				}
			}
			for i, emb := range resp.Embeddings {
				if emb == nil {
					return &ProviderError{Provider: p.Version(), Message: "empty embedding in response"}
				}
				vectors[lo+i] = emb.Values
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Error("gemini_embed_failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}

	p.logger.Debug("gemini_embed_completed",
		slog.Int("embedding_count", len(vectors)),
		slog.String("model", p.modelName),
		slog.Duration("elapsed", time.Since(start)),
	)
	return vectors, nil
}

// Version returns the provider and model name
func (p *GeminiProvider) Version() string {
	return "gemini/" + p.modelName
}

// Close releases resources held by the client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ Provider = (*GeminiProvider)(nil)
