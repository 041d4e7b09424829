// Package embedding provides text embedding providers and vector similarity helpers.
package embedding

import (
	"context"
	"errors"
	"fmt"
)

// Provider maps texts to fixed-size dense vectors.
// Implementations return exactly one vector per input text, in input order.
type Provider interface {
	// Encode embeds every text in a single logical batch
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	// Version identifies the provider and model, e.g. "gemini/text-embedding-004"
	Version() string
}

// ErrEmbeddingUnavailable matches any failure to obtain embeddings from a provider.
var ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

// ProviderError represents a failed or malformed embedding call
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding provider %s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Is makes every ProviderError match ErrEmbeddingUnavailable.
func (e *ProviderError) Is(target error) bool {
	return target == ErrEmbeddingUnavailable
}

// EncodeChecked calls p.Encode and verifies the response shape.
// Any error is returned as a *ProviderError.
func EncodeChecked(ctx context.Context, p Provider, texts []string) ([][]float32, error) {
	vectors, err := p.Encode(ctx, texts)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &ProviderError{Provider: p.Version(), Message: "encode failed", Cause: err}
	}
	if len(vectors) != len(texts) {
		return nil, &ProviderError{
			Provider: p.Version(),
			Message:  fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(vectors)),
		}
	}
	return vectors, nil
}
