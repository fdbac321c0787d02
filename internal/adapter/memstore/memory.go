package memstore

import (
	"context"
	"fmt"
	"sync"

	"moodrec/internal/adapter/vector"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

// MemoryStore is an ephemeral port.IndexOpener. Contents are lost on Close.
type MemoryStore struct {
	mu          sync.Mutex
	metric      string
	collections map[string]*MemoryCollection
}

func NewMemoryStore(metric string) (*MemoryStore, error) {
	if _, err := vector.ParseMetric(metric); err != nil {
		return nil, err
	}
	return &MemoryStore{
		metric:      metric,
		collections: make(map[string]*MemoryCollection),
	}, nil
}

func (s *MemoryStore) Collection(name string, model port.ModelInfo) (port.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		if c.model != model {
			return nil, fmt.Errorf("%w: collection %s uses %s/%d", domain.ErrModelMismatch, name, c.model.Name, c.model.Dimension)
		}
		return c, nil
	}

	distance, _ := vector.ParseMetric(s.metric)
	c := &MemoryCollection{
		name:     name,
		model:    model,
		distance: distance,
		entries:  make(map[string]port.IndexEntry),
	}
	s.collections[name] = c
	return c, nil
}

func (s *MemoryStore) Drop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]*MemoryCollection)
	return nil
}

type MemoryCollection struct {
	name     string
	model    port.ModelInfo
	distance vector.DistanceFunc

	mu      sync.RWMutex
	entries map[string]port.IndexEntry
}

func (c *MemoryCollection) Name() string {
	return c.name
}

func (c *MemoryCollection) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *MemoryCollection) Add(ctx context.Context, batch []port.IndexEntry) error {
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

	for _, item := range batch {
		c.entries[item.ID] = item
	}
	return nil
}

func (c *MemoryCollection) Query(ctx context.Context, query []float32, n int) ([]port.IndexHit, error) {
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
		hits[i] = port.IndexHit{ID: cand.ID, Distance: cand.Distance, Document: e.Document, Metadata: e.Metadata}
	}
	return hits, nil
}

var (
	_ port.IndexOpener = (*MemoryStore)(nil)
	_ port.Index       = (*MemoryCollection)(nil)
)
