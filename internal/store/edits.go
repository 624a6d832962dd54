package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kilupskalvis/mapedit/internal/models"
	bolt "go.etcd.io/bbolt"
)

// editKey builds the bbolt key for an edit: its zero-padded sequence number,
// so that cursor order is queue order.
func editKey(seq int) []byte {
	return []byte(fmt.Sprintf("%010d", seq))
}

// AddEdit appends an edit to the queue. It assigns the id, sequence number
// and creation time if they are unset.
func (s *Store) AddEdit(edit *models.ElementEdit) error {
	if edit.ID == "" {
		edit.ID = uuid.NewString()
	}
	if edit.CreatedAt.IsZero() {
		edit.CreatedAt = time.Now().UTC()
	}
	if edit.State == "" {
		edit.State = models.EditPending
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEdits)
		idx := tx.Bucket(bucketEditIndex)
		if idx.Get([]byte(edit.ID)) != nil {
			return fmt.Errorf("edit %s already exists", edit.ID)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next edit sequence: %w", err)
		}
		edit.Seq = int(seq)

		data, err := json.Marshal(edit)
		if err != nil {
			return fmt.Errorf("marshal edit: %w", err)
		}
		if err := b.Put(editKey(edit.Seq), data); err != nil {
			return err
		}
		return idx.Put([]byte(edit.ID), editKey(edit.Seq))
	})
}

// GetEdit retrieves an edit by id. Returns (nil, nil) if not found.
func (s *Store) GetEdit(id string) (*models.ElementEdit, error) {
	var edit *models.ElementEdit
	err := s.db.View(func(tx *bolt.Tx) error {
		seqKey := tx.Bucket(bucketEditIndex).Get([]byte(id))
		if seqKey == nil {
			return nil
		}
		data := tx.Bucket(bucketEdits).Get(seqKey)
		if data == nil {
			return fmt.Errorf("edit index points to missing edit %s", id)
		}
		edit = &models.ElementEdit{}
		return json.Unmarshal(data, edit)
	})
	if err != nil {
		return nil, err
	}
	return edit, nil
}

// FindEdit resolves an edit from a full id or a unique id prefix.
// Returns (nil, nil) if nothing matches.
func (s *Store) FindEdit(prefix string) (*models.ElementEdit, error) {
	if prefix == "" {
		return nil, fmt.Errorf("empty edit id")
	}

	var match string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEditIndex).Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			if match != "" {
				return fmt.Errorf("edit id %q is ambiguous", prefix)
			}
			match = string(k)
		}
		return nil
	})
	if err != nil || match == "" {
		return nil, err
	}
	return s.GetEdit(match)
}

// ListEdits returns the edits in queue order. With states given, only edits
// in one of those states are returned.
func (s *Store) ListEdits(states ...models.EditState) ([]*models.ElementEdit, error) {
	var edits []*models.ElementEdit
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEdits).ForEach(func(_, v []byte) error {
			var edit models.ElementEdit
			if err := json.Unmarshal(v, &edit); err != nil {
				return fmt.Errorf("unmarshal edit: %w", err)
			}
			if len(states) > 0 && !slices.Contains(states, edit.State) {
				return nil
			}
			edits = append(edits, &edit)
			return nil
		})
	})
	return edits, err
}

// UpdateEdit overwrites a stored edit. The edit must exist.
func (s *Store) UpdateEdit(edit *models.ElementEdit) error {
	return s.UpdateEdits(edit)
}

// UpdateEdits overwrites several stored edits in one transaction. All edits
// must exist.
func (s *Store) UpdateEdits(edits ...*models.ElementEdit) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, edit := range edits {
			if err := putEdit(tx, edit); err != nil {
				return err
			}
		}
		return nil
	})
}

func putEdit(tx *bolt.Tx, edit *models.ElementEdit) error {
	seqKey := tx.Bucket(bucketEditIndex).Get([]byte(edit.ID))
	if seqKey == nil {
		return fmt.Errorf("edit not found: %s", edit.ID)
	}
	data, err := json.Marshal(edit)
	if err != nil {
		return fmt.Errorf("marshal edit: %w", err)
	}
	return tx.Bucket(bucketEdits).Put(seqKey, data)
}
