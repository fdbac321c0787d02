package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

// DefaultBatchSize is the number of catalog items embedded and added per batch.
const DefaultBatchSize = 500

// ProgressFunc is called after each committed batch with the 1-based batch
// number and the total number of batches.
type ProgressFunc func(batch, total int)

// IndexUseCase populates the similarity index from a catalog.
type IndexUseCase struct {
	index     port.Index
	embedder  port.Embedder
	batchSize int
	log       zerolog.Logger
}

// NewIndexUseCase creates a new index use case. A non-positive batchSize
// uses DefaultBatchSize.
func NewIndexUseCase(index port.Index, embedder port.Embedder, batchSize int, log zerolog.Logger) *IndexUseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &IndexUseCase{
		index:     index,
		embedder:  embedder,
		batchSize: batchSize,
		log:       log,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Skipped bool // index was already populated
	Count   int  // entries in the index afterwards
	Added   int
	Batches int // committed batches
}

// EnsureIndexed populates the index with every catalog item unless it already
// holds entries. Batches run sequentially; the first failure aborts and
// batches committed before it stay in the index.
func (u *IndexUseCase) EnsureIndexed(ctx context.Context, catalog *domain.Catalog, progress ProgressFunc) (*IndexResult, error) {
	count, err := u.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count index entries: %w", err)
	}

	if count > 0 {
		u.log.Info().
			Str("collection", u.index.Name()).
			Int("count", count).
			Msg("using existing index")
		return &IndexResult{Skipped: true, Count: count}, nil
	}

	result := &IndexResult{}
	items := catalog.Items
	total := (len(items) + u.batchSize - 1) / u.batchSize

	for i := 0; i < len(items); i += u.batchSize {
		end := i + u.batchSize
		if end > len(items) {
			end = len(items)
		}
		batchNum := i/u.batchSize + 1

		if err := u.addBatch(ctx, items[i:end]); err != nil {
			u.log.Error().Err(err).
				Int("batch", batchNum).
				Int("total", total).
				Int("added", result.Added).
				Msg("indexing aborted")
			result.Count = result.Added
			return result, fmt.Errorf("batch %d/%d: %w", batchNum, total, err)
		}

		result.Added += end - i
		result.Batches++
		u.log.Debug().Int("batch", batchNum).Int("total", total).Msg("batch committed")

		if progress != nil {
			progress(batchNum, total)
		}
	}

	result.Count = result.Added
	u.log.Info().
		Str("collection", u.index.Name()).
		Int("count", result.Count).
		Int("batches", result.Batches).
		Msg("index populated")

	return result, nil
}

// addBatch embeds one batch in a single call and stores it in a single Add.
func (u *IndexUseCase) addBatch(ctx context.Context, batch []domain.CatalogItem) error {
	texts := make([]string, len(batch))
	for j, item := range batch {
		texts[j] = item.Overview
	}

	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
	}

	entries := make([]port.IndexEntry, len(batch))
	for j, item := range batch {
		entries[j] = port.IndexEntry{
			ID:       item.DocID(),
			Vector:   vectors[j],
			Document: item.Overview,
			Metadata: item.Metadata(),
		}
	}

	if err := u.index.Add(ctx, entries); err != nil {
		return fmt.Errorf("failed to store batch: %w", err)
	}
	return nil
}
