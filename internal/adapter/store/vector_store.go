package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
	"moodrec/internal/adapter/vector"
	"moodrec/internal/port"
)

// BoltCollection implements port.Index on one collection bucket.
// Uses brute-force search over an in-memory mirror of the bucket.
type BoltCollection struct {
	db       *bbolt.DB
	name     string
	model    port.ModelInfo
	distance vector.DistanceFunc

	mu      sync.RWMutex
	entries map[string]storedEntry
}

type storedEntry struct {
	Vector   []float32         `json:"v"`
	Document string            `json:"d"`
	Metadata map[string]string `json:"m,omitempty"`
}

func newBoltCollection(db *bbolt.DB, name string, model port.ModelInfo, metric string) (*BoltCollection, error) {
	distance, err := vector.ParseMetric(metric)
	if err != nil {
		return nil, err
	}

	c := &BoltCollection{
		db:       db,
		name:     name,
		model:    model,
		distance: distance,
		entries:  make(map[string]storedEntry),
	}

	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", name, err)
	}
	return c, nil
}

func (c *BoltCollection) vectors(tx *bbolt.Tx) *bbolt.Bucket {
	coll := tx.Bucket(bucketCollections).Bucket([]byte(c.name))
	if coll == nil {
		return nil
	}
	return coll.Bucket(bucketVectors)
}

// load mirrors all stored entries into memory.
func (c *BoltCollection) load() error {
	return c.db.View(func(tx *bbolt.Tx) error {
		b := c.vectors(tx)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var e storedEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("corrupt entry %s: %w", k, err)
			}
			c.entries[string(k)] = e
			return nil
		})
	})
}

func (c *BoltCollection) Name() string {
	return c.name
}

func (c *BoltCollection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Add stores the batch in a single transaction. Duplicate or already stored
// ids and dimension mismatches reject the whole batch.
func (c *BoltCollection) Add(ctx context.Context, batch []port.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(batch))
	for _, item := range batch {
		if len(item.Vector) != c.model.Dimension {
			return fmt.Errorf("vector dimension mismatch for %s: expected %d, got %d", item.ID, c.model.Dimension, len(item.Vector))
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate id in batch: %s", item.ID)
		}
		if _, exists := c.entries[item.ID]; exists {
			return fmt.Errorf("id already in collection %s: %s", c.name, item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := c.vectors(tx)
		if b == nil {
			return fmt.Errorf("collection %s not found", c.name)
		}

		for _, item := range batch {
			data, err := json.Marshal(storedEntry{
				Vector:   item.Vector,
				Document: item.Document,
				Metadata: item.Metadata,
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, item := range batch {
		c.entries[item.ID] = storedEntry{
			Vector:   item.Vector,
			Document: item.Document,
			Metadata: item.Metadata,
		}
	}
	return nil
}

// Query finds the n nearest entries to the query vector.
func (c *BoltCollection) Query(ctx context.Context, query []float32, n int) ([]port.IndexHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(query) != c.model.Dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", c.model.Dimension, len(query))
	}

	if len(c.entries) == 0 || n <= 0 {
		return nil, nil
	}

	cands := make([]vector.Candidate, 0, len(c.entries))
	for id, e := range c.entries {
		cands = append(cands, vector.Candidate{ID: id, Distance: c.distance(query, e.Vector)})
	}

	top := vector.TopN(cands, n)
	hits := make([]port.IndexHit, len(top))
	for i, cand := range top {
		e := c.entries[cand.ID]
		hits[i] = port.IndexHit{
			ID:       cand.ID,
			Distance: cand.Distance,
			Document: e.Document,
			Metadata: e.Metadata,
		}
	}
	return hits, nil
}

var _ port.Index = (*BoltCollection)(nil)
