package embedding

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider memoizes embeddings of another provider in an LRU cache.
// Only texts missing from the cache are sent to the wrapped provider, in one call.
// Entries are keyed by text alone: a cache wraps exactly one provider, whose version never changes.
type CachedProvider struct {
	inner  Provider
	cache  *lru.Cache[string, []float32]
	logger *slog.Logger
}

// NewCachedProvider wraps inner with a cache holding up to size embeddings.
// A nil logger uses slog.Default().
func NewCachedProvider(inner Provider, size int, logger *slog.Logger) (*CachedProvider, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProvider{inner: inner, cache: cache, logger: logger}, nil
}

// Encode serves cached vectors and fetches the rest from the wrapped provider
func (p *CachedProvider) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	missing := make([]string, 0)
	pending := make(map[string][]int)

	for i, text := range texts {
		if vec, ok := p.cache.Get(text); ok {
			vectors[i] = vec
			continue
		}
		if _, seen := pending[text]; !seen {
			missing = append(missing, text)
		}
		pending[text] = append(pending[text], i)
	}

	if len(missing) > 0 {
		fetched, err := EncodeChecked(ctx, p.inner, missing)
		if err != nil {
			return nil, err
		}
		for j, text := range missing {
			p.cache.Add(text, fetched[j])
			for _, i := range pending[text] {
				vectors[i] = fetched[j]
			}
		}
	}

	p.logger.Debug("embedding_cache_lookup",
		slog.Int("requested", len(texts)),
		slog.Int("fetched", len(missing)),
		slog.String("provider", p.inner.Version()),
	)
	return vectors, nil
}

// Version returns the wrapped provider's version; caching does not change the vectors
func (p *CachedProvider) Version() string {
	return p.inner.Version()
}

// Len returns the number of cached embeddings
func (p *CachedProvider) Len() int {
	return p.cache.Len()
}

// Close closes the wrapped provider when it holds resources
func (p *CachedProvider) Close() error {
	if c, ok := p.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ Provider = (*CachedProvider)(nil)
