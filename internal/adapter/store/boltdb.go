package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"moodrec/internal/adapter/vector"
	"moodrec/internal/port"
)

// DBFileName is the bolt file created inside the index directory.
const DBFileName = "index.db"

var (
	bucketCollections = []byte("collections")
	bucketMeta        = []byte("meta")
	bucketVectors     = []byte("vectors")
	keyModel          = []byte("model")
	keyMetric         = []byte("metric")
)

// BoltStore is a path-addressed persistent store holding named collections.
type BoltStore struct {
	db     *bbolt.DB
	metric string

	mu          sync.Mutex
	collections map[string]*BoltCollection
}

// NewBoltStore opens (creating if needed) the store under dir.
func NewBoltStore(dir string, metric string) (*BoltStore, error) {
	if _, err := vector.ParseMetric(metric); err != nil {
		return nil, err
	}
	if metric == "" {
		metric = vector.MetricL2
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, DBFileName), 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCollections); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketCollections, err)
		}
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketMeta, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{
		db:          db,
		metric:      metric,
		collections: make(map[string]*BoltCollection),
	}

	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Collection creates or gets the named collection, binding it to model on
// creation. Opening an existing collection with another model fails with
// domain.ErrModelMismatch.
func (s *BoltStore) Collection(name string, model port.ModelInfo) (port.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		if c.model != model {
			return nil, modelMismatch(name, c.model, model)
		}
		return c, nil
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(bucketCollections).CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
		if _, err := b.CreateBucketIfNotExists(bucketVectors); err != nil {
			return err
		}
		return bindModel(b, name, model, s.metric)
	})
	if err != nil {
		return nil, err
	}

	c, err := newBoltCollection(s.db, name, model, s.metric)
	if err != nil {
		return nil, err
	}
	s.collections[name] = c
	return c, nil
}

// Drop deletes a collection and all its entries.
func (s *BoltStore) Drop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, name)
	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.Bucket(bucketCollections).DeleteBucket([]byte(name))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

// Collections lists the collection names in the store.
func (s *BoltStore) Collections() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCollections).ForEach(func(k, v []byte) error {
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ port.IndexOpener = (*BoltStore)(nil)
