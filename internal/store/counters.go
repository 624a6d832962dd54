package store

import (
	"fmt"
	"strconv"

	"github.com/kilupskalvis/mapedit/internal/models"
	bolt "go.etcd.io/bbolt"
)

// Counter keys: "max:{type}" holds the highest permanent id stored,
// "provisional:{type}" the number of provisional ids handed out.
func maxIDKey(t models.ElementType) []byte {
	return []byte("max:" + string(t))
}

func provisionalKey(t models.ElementType) []byte {
	return []byte("provisional:" + string(t))
}

func readCounter(b *bolt.Bucket, key []byte) (int64, error) {
	data := b.Get(key)
	if data == nil {
		return 0, nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", key, err)
	}
	return n, nil
}

func writeCounter(b *bolt.Bucket, key []byte, n int64) error {
	if err := b.Put(key, []byte(strconv.FormatInt(n, 10))); err != nil {
		return fmt.Errorf("update counter %s: %w", key, err)
	}
	return nil
}

// NextID allocates a new provisional (negative) id for an element of type t.
// Provisional ids are never reused.
func (s *Store) NextID(t models.ElementType) (int64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("invalid element type %q", t)
	}

	var id int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCounters)
		n, err := readCounter(b, provisionalKey(t))
		if err != nil {
			return err
		}
		n++
		id = -n
		return writeCounter(b, provisionalKey(t), n)
	})
	return id, err
}

// nextPermanentID returns the id for a newly created element of type t
func nextPermanentID(tx *bolt.Tx, t models.ElementType) (int64, error) {
	n, err := readCounter(tx.Bucket(bucketCounters), maxIDKey(t))
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// raisePermanentID records id as used
func raisePermanentID(tx *bolt.Tx, t models.ElementType, id int64) error {
	b := tx.Bucket(bucketCounters)
	n, err := readCounter(b, maxIDKey(t))
	if err != nil {
		return err
	}
	if id <= n {
		return nil
	}
	return writeCounter(b, maxIDKey(t), id)
}
