package port

import "context"

// Index is a named collection inside a persistent similarity store.
type Index interface {
	// Count returns the number of entries in the collection.
	Count(ctx context.Context) (int, error)

	// Add inserts one batch atomically: either every entry is stored or none is.
	Add(ctx context.Context, batch []IndexEntry) error

	// Query returns the n nearest entries to vector, closest first.
	Query(ctx context.Context, vector []float32, n int) ([]IndexHit, error)

	// Name returns the collection name.
	Name() string
}

// IndexOpener creates or gets a collection by name.
type IndexOpener interface {
	Collection(name string, model ModelInfo) (Index, error)

	// Drop deletes a collection. Dropping a missing collection is not an error.
	Drop(name string) error

	Close() error
}

// ModelInfo identifies the embedding model a collection is bound to.
type ModelInfo struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
}

// IndexEntry is one (id, vector, text, metadata) tuple.
type IndexEntry struct {
	ID       string
	Vector   []float32
	Document string
	Metadata map[string]string
}

// IndexHit is one ranked query result. Lower distance is closer.
type IndexHit struct {
	ID       string
	Distance float64
	Document string
	Metadata map[string]string
}
