package blobcache

import (
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"youtools-catalog/internal/catalog"
	"youtools-catalog/internal/logger"
)

// Kind selects the blob bucket.
type Kind string

const (
	Logos   Kind = "logos"
	Posters Kind = "posters"
)

// Cache keeps large data-URI payloads out of the primary snapshot while still
// letting the UI render full images without a backend round trip. It is
// best-effort everywhere: Save failures are logged and swallowed, Get
// failures read as misses. A nil *Cache is valid and acts as an always-miss
// cache.
type Cache struct {
	db *bolt.DB
}

// Open opens (or creates) the blob cache at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open blob cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, kind := range []Kind{Logos, Posters} {
			if _, err := tx.CreateBucketIfNotExists([]byte(kind)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init blob cache: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache file.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Save upserts a blob under key.
func (c *Cache) Save(kind Kind, key, dataURI string) {
	if c == nil || key == "" || dataURI == "" {
		return
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(kind)).Put([]byte(key), []byte(dataURI))
	})
	if err != nil {
		logger.Warnf("blob cache save %s/%s: %v", kind, key, err)
	}
}

// Get returns the cached blob, or "" on miss or error.
func (c *Cache) Get(kind Kind, key string) string {
	if c == nil || key == "" {
		return ""
	}
	var out string
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(kind)).Get([]byte(key)); v != nil {
			out = string(v)
		}
		return nil
	})
	if err != nil {
		return ""
	}
	return out
}

// EnsureBrandLogos replaces each brand's logo with the cached blob when one
// exists (self-healing if the primary record was pruned of its inline image),
// and otherwise opportunistically populates the cache from data-URI logos.
func (c *Cache) EnsureBrandLogos(brands []catalog.Brand) []catalog.Brand {
	for i := range brands {
		key := brands[i].ID
		if key == "" {
			key = brands[i].Slug
		}
		if cached := c.Get(Logos, key); cached != "" {
			brands[i].Logo = cached
			continue
		}
		if strings.HasPrefix(brands[i].Logo, "data:") {
			c.Save(Logos, key, brands[i].Logo)
		}
	}
	return brands
}

// EnsurePosterImages is the poster counterpart of EnsureBrandLogos.
func (c *Cache) EnsurePosterImages(posters []catalog.Poster) []catalog.Poster {
	for i := range posters {
		key := posters[i].ID
		if cached := c.Get(Posters, key); cached != "" {
			posters[i].ImageURL = cached
			continue
		}
		if strings.HasPrefix(posters[i].ImageURL, "data:") {
			c.Save(Posters, key, posters[i].ImageURL)
		}
	}
	return posters
}
