// Package cache stores feed API responses in a bbolt database with a time-to-live.
//
// An empty path gives a memory-only store, which is what tests and credential-less runs use.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketResponses = []byte("responses")

// entry is the stored form of a cached value.
type entry struct {
	StoredAt time.Time `json:"stored_at"`
	Data     []byte    `json:"data"`
}

// Store is a TTL cache of raw response bodies keyed by request.
type Store struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	mu  sync.RWMutex
	mem map[string]entry
}

// Open opens (or creates) the cache at path. A non-positive ttl disables expiry.
func Open(path string, ttl time.Duration) (*Store, error) {
	s := &Store{ttl: ttl, now: time.Now, mem: make(map[string]entry)}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResponses)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	s.db = db
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the cached body for key when it exists and has not expired.
// A stored entry that cannot be read or decoded is reported as an error.
func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.mem[key]
	s.mu.RUnlock()

	if !ok && s.db != nil {
		var raw []byte
		err := s.db.View(func(tx *bolt.Tx) error {
			if v := tx.Bucket(bucketResponses).Get([]byte(key)); v != nil {
				raw = make([]byte, len(v))
				copy(raw, v)
			}
			return nil
		})
		if err != nil {
			return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
		}
		if raw == nil {
			return nil, false, nil
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
		}

		s.mu.Lock()
		s.mem[key] = e
		s.mu.Unlock()
		ok = true
	}

	if !ok || s.expired(e) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set stores data under key.
func (s *Store) Set(key string, data []byte) error {
	e := entry{StoredAt: s.now(), Data: data}

	s.mu.Lock()
	s.mem[key] = e
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResponses).Put([]byte(key), raw)
	})
}

// Clear drops every cached response and returns how many were removed.
func (s *Store) Clear() (int, error) {
	s.mu.Lock()
	n := len(s.mem)
	s.mem = make(map[string]entry)
	s.mu.Unlock()

	if s.db == nil {
		return n, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketResponses).Stats().KeyN
		if err := tx.DeleteBucket(bucketResponses); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketResponses)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return n, nil
}

// Prune removes expired entries from disk and memory.
func (s *Store) Prune() (int, error) {
	removed := 0

	s.mu.Lock()
	for k, e := range s.mem {
		if s.expired(e) {
			delete(s.mem, k)
			if s.db == nil {
				removed++
			}
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return removed, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResponses)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var e entry
			if json.Unmarshal(v, &e) != nil || s.expired(e) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	return removed, nil
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.StoredAt) > s.ttl
}
