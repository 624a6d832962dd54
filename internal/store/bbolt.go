// Package store provides bbolt-based persistence for mapedit.
// It holds the map elements with their back-reference indexes, the edit
// queue and the provisional id counters in a single embedded bbolt file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the store.
var (
	bucketElements        = []byte("elements")
	bucketWayNodes        = []byte("way_nodes")        // "{node}:{way}" -> empty
	bucketRelationMembers = []byte("relation_members") // "{node}:{relation}" -> empty
	bucketEdits           = []byte("edits")
	bucketEditIndex       = []byte("edit_index") // edit id -> seq key
	bucketCounters        = []byte("counters")
	bucketKV              = []byte("kv")
)

// DefaultCacheSize is the number of elements kept in the read cache
const DefaultCacheSize = 4096

// Store represents the bbolt database store.
type Store struct {
	db    *bolt.DB
	cache *lru.Cache[models.ElementKey, *models.Element]
	log   zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for commit diagnostics
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New opens or creates a bbolt database at the given path.
func New(dbPath string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cache, err := lru.New[models.ElementKey, *models.Element](DefaultCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create element cache: %w", err)
	}

	s := &Store{db: db, cache: cache, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates all required buckets.
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketElements,
			bucketWayNodes,
			bucketRelationMembers,
			bucketEdits,
			bucketEditIndex,
			bucketCounters,
			bucketKV,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// GetValue gets a value from the key-value bucket.
func (s *Store) GetValue(key string) (string, error) {
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			val = string(v)
		}
		return nil
	})
	return val, err
}

// SetValue sets a value in the key-value bucket.
func (s *Store) SetValue(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return fmt.Errorf("kv bucket not found")
		}
		return b.Put([]byte(key), []byte(value))
	})
}
