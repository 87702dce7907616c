package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when an entity is absent from the snapshot.
var ErrNotFound = errors.New("not found")

var (
	bucketProducts   = []byte("products")
	bucketBrands     = []byte("brands")
	bucketPosters    = []byte("posters")
	bucketCategories = []byte("categories")
	bucketMeta       = []byte("meta")
)

const (
	keySchemaVersion = "schema_version"
	keyBrandsOrder   = "brands_order"
	keyPostersOrder  = "posters_order"

	schemaVersion = 2
)

// Store is the embedded local database: the offline record of catalog
// entities and the last-known-good fallback when no backend is reachable.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store at path and runs pending schema
// migrations.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the buckets and applies schema upgrades. Version 2 added
// the product brand field; existing records are backfilled with "".
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProducts, bucketBrands, bucketPosters, bucketCategories, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketMeta)
		version := 0
		if raw := meta.Get([]byte(keySchemaVersion)); raw != nil {
			if err := json.Unmarshal(raw, &version); err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
		} else {
			// Fresh database, nothing to upgrade.
			version = schemaVersion
		}

		if version < 2 {
			if err := backfillBrandField(tx.Bucket(bucketProducts)); err != nil {
				return err
			}
			version = 2
		}

		raw, _ := json.Marshal(version)
		return meta.Put([]byte(keySchemaVersion), raw)
	})
}

func backfillBrandField(b *bolt.Bucket) error {
	type kv struct {
		key []byte
		val []byte
	}
	var updates []kv

	err := b.ForEach(func(k, v []byte) error {
		var rec map[string]any
		if err := json.Unmarshal(v, &rec); err != nil {
			return fmt.Errorf("migrate product %s: %w", k, err)
		}
		if _, ok := rec["brand"]; ok {
			return nil
		}
		rec["brand"] = ""
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		updates = append(updates, kv{key: append([]byte(nil), k...), val: raw})
		return nil
	})
	if err != nil {
		return err
	}

	for _, u := range updates {
		if err := b.Put(u.key, u.val); err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion reports the stored schema version.
func (s *Store) SchemaVersion() (int, error) {
	version := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketMeta).Get([]byte(keySchemaVersion))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &version)
	})
	return version, err
}

// generic bucket helpers

func listBucket[T any](s *Store, bucket []byte) ([]T, error) {
	var out []T
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			out = append(out, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getBucket[T any](s *Store, bucket []byte, id string) (T, error) {
	var item T
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &item)
	})
	return item, err
}

func putBucket[T any](s *Store, bucket []byte, id string, item T) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(id), raw)
	})
}

func deleteBucket(s *Store, bucket []byte, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func replaceBucket[T any](s *Store, bucket []byte, items []T, idOf func(T) string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucket)
		if err != nil {
			return err
		}
		for _, item := range items {
			raw, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(idOf(item)), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) getOrder(key string) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketMeta).Get([]byte(key))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &ids)
	})
	return ids, err
}

func (s *Store) setOrder(key string, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put([]byte(key), raw)
	})
}
