package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashingProvider is an offline embedder that hashes word unigrams and bigrams into a
// fixed number of signed buckets. Texts sharing vocabulary land close together; it has no
// notion of synonyms.
type HashingProvider struct {
	dims int
}

// NewHashingProvider creates a hashing provider. Non-positive dims default to 512.
func NewHashingProvider(dims int) *HashingProvider {
	if dims <= 0 {
		dims = 512
	}
	return &HashingProvider{dims: dims}
}

// Encode embeds each text independently. It never fails unless ctx is done.
func (p *HashingProvider) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, &ProviderError{Provider: p.Version(), Message: "encode cancelled", Cause: err}
		}
		vectors[i] = p.embed(text)
	}
	return vectors, nil
}

func (p *HashingProvider) embed(text string) []float32 {
	vec := make([]float32, p.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})

	for i, w := range words {
		p.add(vec, w, 1)
		if i > 0 {
			p.add(vec, words[i-1]+" "+w, 0.5)
		}
	}

	Normalize(vec)
	return vec
}

func (p *HashingProvider) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(p.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// Version returns the provider name and dimensionality
func (p *HashingProvider) Version() string {
	return fmt.Sprintf("hashing/fnv-bow-%d", p.dims)
}

var _ Provider = (*HashingProvider)(nil)
