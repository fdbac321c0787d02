package store

import (
	"fmt"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// checkSchema stamps a fresh store and refuses stores written by a newer version.
func (s *BoltStore) checkSchema() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		data := b.Get(keySchemaVersion)
		if data == nil {
			v, _ := json.Marshal(CurrentSchemaVersion)
			return b.Put(keySchemaVersion, v)
		}

		var version int
		if err := json.Unmarshal(data, &version); err != nil {
			return fmt.Errorf("corrupt schema version: %w", err)
		}
		if version > CurrentSchemaVersion {
			return fmt.Errorf("index created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
		}
		return nil
	})
}

// bindModel records model and metric on a new collection bucket, or checks
// them against what an existing collection was built with.
func bindModel(b *bbolt.Bucket, name string, model port.ModelInfo, metric string) error {
	data := b.Get(keyModel)
	if data == nil {
		encoded, err := json.Marshal(model)
		if err != nil {
			return err
		}
		if err := b.Put(keyModel, encoded); err != nil {
			return err
		}
		return b.Put(keyMetric, []byte(metric))
	}

	var stored port.ModelInfo
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("corrupt model info for collection %s: %w", name, err)
	}
	if stored != model {
		return modelMismatch(name, stored, model)
	}
	if m := b.Get(keyMetric); m != nil && string(m) != metric {
		return fmt.Errorf("collection %s was built with metric %q, configured %q", name, m, metric)
	}
	return nil
}

func modelMismatch(name string, stored, requested port.ModelInfo) error {
	return fmt.Errorf("%w: collection %s uses %s/%d, configured %s/%d",
		domain.ErrModelMismatch, name, stored.Name, stored.Dimension, requested.Name, requested.Dimension)
}
