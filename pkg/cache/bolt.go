package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"
)

var bucketEntries = []byte("entries")

// BoltCache keeps all entries in one bbolt database file. It suits a
// long-running server on a single host better than thousands of small files.
type BoltCache struct {
	db *bbolt.DB
}

// NewBoltCache opens or creates the database at path.
func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltCache{db: db}, nil
}

// Get implements Cache. Expired entries are deleted lazily.
func (c *BoltCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		e     entry
		found bool
	)
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction; Unmarshal copies it.
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements Cache.
func (c *BoltCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	raw, err := json.Marshal(newEntry(data, ttl))
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), raw)
	})
}

// Delete implements Cache.
func (c *BoltCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEntries).Delete([]byte(key))
	})
}

// Prune removes expired entries and returns how many were dropped.
func (c *BoltCache) Prune() (int, error) {
	now := time.Now()
	n := 0
	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		cur := b.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var e entry
			if json.Unmarshal(v, &e) == nil && !e.expired(now) {
				continue
			}
			if err := cur.Delete(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// Close implements Cache.
func (c *BoltCache) Close() error { return c.db.Close() }

var _ Cache = (*BoltCache)(nil)
