package store

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/kilupskalvis/mapedit/internal/models"
	bolt "go.etcd.io/bbolt"
)

var (
	// ErrVersionMismatch is returned by Commit when an element was changed
	// since the version the changes were computed on.
	ErrVersionMismatch = errors.New("element version mismatch")
	// ErrElementNotFound is returned by Commit when deleting an element that does not exist
	ErrElementNotFound = errors.New("element not found")
)

// elementKey builds the bbolt key for an element: "{type}/{id}".
func elementKey(key models.ElementKey) []byte {
	return []byte(key.String())
}

// refKey builds the key of a back-reference index entry: "{node}:{parent}".
func refKey(nodeID, parentID int64) []byte {
	return []byte(fmt.Sprintf("%d:%d", nodeID, parentID))
}

func refPrefix(nodeID int64) []byte {
	return []byte(fmt.Sprintf("%d:", nodeID))
}

// GetElement retrieves an element. Returns (nil, nil) if not found.
func (s *Store) GetElement(_ context.Context, key models.ElementKey) (*models.Element, error) {
	if el, ok := s.cache.Get(key); ok {
		return el.Copy(), nil
	}

	var el *models.Element
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		el, err = getElement(tx, key)
		return err
	})
	if err != nil || el == nil {
		return nil, err
	}

	s.cache.Add(key, el)
	return el.Copy(), nil
}

// GetNode retrieves a node by id. Returns (nil, nil) if not found.
func (s *Store) GetNode(ctx context.Context, id int64) (*models.Element, error) {
	return s.GetElement(ctx, models.ElementKey{Type: models.ElementNode, ID: id})
}

// GetWaysForNode returns all ways referencing the node, sorted by id.
func (s *Store) GetWaysForNode(_ context.Context, id int64) ([]*models.Element, error) {
	return s.parentsOf(bucketWayNodes, models.ElementWay, id)
}

// GetRelationsForNode returns all relations having the node as member, sorted by id.
func (s *Store) GetRelationsForNode(_ context.Context, id int64) ([]*models.Element, error) {
	return s.parentsOf(bucketRelationMembers, models.ElementRelation, id)
}

func (s *Store) parentsOf(index []byte, parentType models.ElementType, nodeID int64) ([]*models.Element, error) {
	var parents []*models.Element
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(index).Cursor()
		prefix := refPrefix(nodeID)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			parentID, err := strconv.ParseInt(string(k[len(prefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("parse index key %q: %w", k, err)
			}
			el, err := getElement(tx, models.ElementKey{Type: parentType, ID: parentID})
			if err != nil {
				return err
			}
			if el != nil {
				parents = append(parents, el)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(parents, func(a, b *models.Element) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return parents, nil
}

// PutElements stores elements as they are, replacing existing ones. It is
// used to import map data and keeps the reference indexes up to date.
func (s *Store) PutElements(_ context.Context, els []*models.Element) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, el := range els {
			if !el.Type.Valid() {
				return fmt.Errorf("invalid element type %q", el.Type)
			}
			if el.ID <= 0 {
				return fmt.Errorf("import %s: ids must be positive", el.Key())
			}
			if err := putElement(tx, el); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, el := range els {
		s.cache.Remove(el.Key())
	}
	return nil
}

// Commit applies map data changes in a single transaction. Creations with a
// provisional id get a new permanent id; the returned map holds the id
// assigned to each provisional key. Modified and deleted elements must carry
// the version currently stored; every write increments the version.
func (s *Store) Commit(ctx context.Context, changes *models.MapDataChanges) (map[models.ElementKey]int64, error) {
	return s.CommitEdits(ctx, changes, nil)
}

// CommitEdits commits map data changes like Commit and, in the same
// transaction, stores the edits returned by update. update is called with
// the ids assigned to provisional elements, so that edits referring to them
// can be rewritten. Either all of it is stored or none of it.
func (s *Store) CommitEdits(_ context.Context, changes *models.MapDataChanges, update func(updated map[models.ElementKey]int64) ([]*models.ElementEdit, error)) (map[models.ElementKey]int64, error) {
	updated := make(map[models.ElementKey]int64)

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := commitChanges(tx, changes, updated); err != nil {
			return err
		}
		if update == nil {
			return nil
		}
		eds, err := update(updated)
		if err != nil {
			return err
		}
		for _, edit := range eds {
			if err := putEdit(tx, edit); err != nil {
				return err
			}
		}
		return nil
	})
	// bbolt rolled back, but cached copies may be stale either way
	s.cache.Purge()
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("creations", len(changes.Creations)).
		Int("modifications", len(changes.Modifications)).
		Int("deletions", len(changes.Deletions)).
		Msg("committed map data changes")
	return updated, nil
}

func commitChanges(tx *bolt.Tx, changes *models.MapDataChanges, updated map[models.ElementKey]int64) error {
	// nodes first, so ways and relations can be remapped to them
	creations := slices.Clone(changes.Creations)
	slices.SortStableFunc(creations, func(a, b *models.Element) int {
		return typeOrder(a.Type) - typeOrder(b.Type)
	})

	for _, el := range creations {
		created := remapRefs(el, updated)
		if created.ID <= 0 {
			id, err := nextPermanentID(tx, created.Type)
			if err != nil {
				return err
			}
			updated[el.Key()] = id
			created.ID = id
		}
		created.Version = 1
		if err := putElement(tx, created); err != nil {
			return err
		}
	}

	for _, el := range changes.Modifications {
		modified := remapRefs(el, updated)
		current, err := getElement(tx, modified.Key())
		if err != nil {
			return err
		}
		// a modification of an absent element restores it
		if current != nil && current.Version != modified.Version {
			return fmt.Errorf("modify %s: %w: have %d, got %d", modified.Key(), ErrVersionMismatch, current.Version, modified.Version)
		}
		modified.Version++
		if err := putElement(tx, modified); err != nil {
			return err
		}
	}

	for _, el := range changes.Deletions {
		current, err := getElement(tx, el.Key())
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("delete %s: %w", el.Key(), ErrElementNotFound)
		}
		if current.Version != el.Version {
			return fmt.Errorf("delete %s: %w: have %d, got %d", el.Key(), ErrVersionMismatch, current.Version, el.Version)
		}
		if err := deleteElement(tx, current); err != nil {
			return err
		}
	}
	return nil
}

func typeOrder(t models.ElementType) int {
	switch t {
	case models.ElementNode:
		return 0
	case models.ElementWay:
		return 1
	}
	return 2
}

func remapRefs(el *models.Element, updated map[models.ElementKey]int64) *models.Element {
	c := el.Copy()
	for i, ref := range c.NodeIDs {
		if id, ok := updated[models.ElementKey{Type: models.ElementNode, ID: ref}]; ok {
			c.NodeIDs[i] = id
		}
	}
	for i, m := range c.Members {
		if id, ok := updated[models.ElementKey{Type: m.Type, ID: m.Ref}]; ok {
			c.Members[i].Ref = id
		}
	}
	return c
}

func getElement(tx *bolt.Tx, key models.ElementKey) (*models.Element, error) {
	data := tx.Bucket(bucketElements).Get(elementKey(key))
	if data == nil {
		return nil, nil
	}
	var el models.Element
	if err := json.Unmarshal(data, &el); err != nil {
		return nil, fmt.Errorf("unmarshal element %s: %w", key, err)
	}
	return &el, nil
}

// putElement writes el and replaces the index entries of its previous version
func putElement(tx *bolt.Tx, el *models.Element) error {
	previous, err := getElement(tx, el.Key())
	if err != nil {
		return err
	}
	if previous != nil {
		if err := unindex(tx, previous); err != nil {
			return err
		}
	}

	data, err := json.Marshal(el)
	if err != nil {
		return fmt.Errorf("marshal element %s: %w", el.Key(), err)
	}
	if err := tx.Bucket(bucketElements).Put(elementKey(el.Key()), data); err != nil {
		return err
	}
	if err := raisePermanentID(tx, el.Type, el.ID); err != nil {
		return err
	}
	return index(tx, el)
}

func deleteElement(tx *bolt.Tx, el *models.Element) error {
	if err := unindex(tx, el); err != nil {
		return err
	}
	return tx.Bucket(bucketElements).Delete(elementKey(el.Key()))
}

func index(tx *bolt.Tx, el *models.Element) error {
	return eachRef(tx, el, func(b *bolt.Bucket, key []byte) error {
		return b.Put(key, []byte{})
	})
}

func unindex(tx *bolt.Tx, el *models.Element) error {
	return eachRef(tx, el, func(b *bolt.Bucket, key []byte) error {
		return b.Delete(key)
	})
}

// eachRef calls fn for the index entry of every node referenced by el
func eachRef(tx *bolt.Tx, el *models.Element, fn func(b *bolt.Bucket, key []byte) error) error {
	switch el.Type {
	case models.ElementWay:
		b := tx.Bucket(bucketWayNodes)
		for _, ref := range el.NodeIDs {
			if err := fn(b, refKey(ref, el.ID)); err != nil {
				return err
			}
		}
	case models.ElementRelation:
		b := tx.Bucket(bucketRelationMembers)
		for _, m := range el.Members {
			if m.Type != models.ElementNode {
				continue
			}
			if err := fn(b, refKey(m.Ref, el.ID)); err != nil {
				return err
			}
		}
	}
	return nil
}
