package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"moodrec/internal/adapter/analyzer"
)

// HashEmbedder is a deterministic, offline bag-of-words embedder. Each token
// is hashed into a signed bucket and the result is L2-normalized, so texts
// sharing words land close together. Useful without network access.
type HashEmbedder struct {
	dimension int
	tokenizer *analyzer.Tokenizer
}

// HashOption configures a HashEmbedder.
type HashOption func(*HashEmbedder)

// WithStemming reduces tokens to their Porter stems before hashing.
func WithStemming() HashOption {
	return func(e *HashEmbedder) {
		e.tokenizer = analyzer.NewTokenizer(true)
	}
}

func NewHashEmbedder(dimension int, opts ...HashOption) *HashEmbedder {
	if dimension <= 0 {
		dimension = 384
	}
	e := &HashEmbedder{
		dimension: dimension,
		tokenizer: analyzer.NewTokenizer(false),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

func (e *HashEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)
	for _, tok := range e.tokenizer.Tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		idx := int(sum % uint64(e.dimension))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// ModelName distinguishes stemmed from unstemmed vectors so an index built
// with one is never queried with the other.
func (e *HashEmbedder) ModelName() string {
	if e.tokenizer.Stemming() {
		return "hash-porter"
	}
	return "hash"
}
