package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

const (
	DefaultSearchResults    = 5
	DefaultRecommendResults = 10
)

// RetrieveUseCase handles similarity search over the catalog index.
type RetrieveUseCase struct {
	index    port.Index
	embedder port.Embedder
	log      zerolog.Logger
}

// NewRetrieveUseCase creates a new retrieve use case. Pass a cached embedder
// to memoize query vectors.
func NewRetrieveUseCase(index port.Index, embedder port.Embedder, log zerolog.Logger) *RetrieveUseCase {
	return &RetrieveUseCase{
		index:    index,
		embedder: embedder,
		log:      log,
	}
}

// Search returns up to n hits for query, closest first. A non-positive n uses
// DefaultSearchResults. An empty slice with a nil error means no hits.
func (u *RetrieveUseCase) Search(ctx context.Context, query string, n int) ([]domain.SearchResult, error) {
	if n <= 0 {
		n = DefaultSearchResults
	}
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}

	vectors, err := u.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 query", len(vectors))
	}

	hits, err := u.index.Query(ctx, vectors[0], n)
	if err != nil {
		return nil, fmt.Errorf("index query failed: %w", err)
	}

	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{
			Item:     domain.ItemFromMetadata(h.Metadata),
			Document: h.Document,
			Distance: h.Distance,
		}
	}
	return results, nil
}

// SearchOrEmpty is Search with errors logged and reported as no hits.
func (u *RetrieveUseCase) SearchOrEmpty(ctx context.Context, query string, n int) []domain.SearchResult {
	results, err := u.Search(ctx, query, n)
	if err != nil {
		u.log.Warn().Err(err).Str("query", query).Msg("search failed, treating as no results")
		return []domain.SearchResult{}
	}
	return results
}

// Details returns the closest catalog entry to titleQuery, or
// domain.ErrNoResults.
func (u *RetrieveUseCase) Details(ctx context.Context, titleQuery string) (domain.SearchResult, error) {
	hits, err := u.Search(ctx, titleQuery, 1)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if len(hits) == 0 {
		return domain.SearchResult{}, domain.ErrNoResults
	}
	return hits[0], nil
}
