package ranking

import (
	"context"

	"github.com/jonathan/resume-screener/internal/embedding"
)

// textBatch collects distinct non-empty texts for a single provider call
type textBatch struct {
	texts []string
	index map[string]int
}

func newTextBatch() *textBatch {
	return &textBatch{index: make(map[string]int)}
}

// add queues text unless it is empty or already queued
func (b *textBatch) add(text string) {
	if text == "" {
		return
	}
	if _, ok := b.index[text]; ok {
		return
	}
	b.index[text] = len(b.texts)
	b.texts = append(b.texts, text)
}

// embeddings maps batched texts to their vectors
type embeddings struct {
	batch   *textBatch
	vectors [][]float32
}

// encode embeds the batch with one provider call. An empty batch makes no call.
func (b *textBatch) encode(ctx context.Context, provider embedding.Provider) (*embeddings, error) {
	if len(b.texts) == 0 {
		return &embeddings{batch: b}, nil
	}
	vectors, err := embedding.EncodeChecked(ctx, provider, b.texts)
	if err != nil {
		return nil, err
	}
	return &embeddings{batch: b, vectors: vectors}, nil
}

// lookup returns the vector of text, or nil for empty or unknown texts
func (e *embeddings) lookup(text string) []float32 {
	i, ok := e.batch.index[text]
	if !ok {
		return nil
	}
	return e.vectors[i]
}
