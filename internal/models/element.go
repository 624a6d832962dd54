// Package models defines the core data structures used throughout mapedit
// including map elements, element keys, edits and map data changes.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ElementType is the kind of a map element
type ElementType string

const (
	ElementNode     ElementType = "node"
	ElementWay      ElementType = "way"
	ElementRelation ElementType = "relation"
)

// Valid reports whether t is one of the known element types
func (t ElementType) Valid() bool {
	switch t {
	case ElementNode, ElementWay, ElementRelation:
		return true
	}
	return false
}

// ElementKey identifies an element across all element types
type ElementKey struct {
	Type ElementType `json:"type"`
	ID   int64       `json:"id"`
}

// String returns the key as "type/id", e.g. "node/12"
func (k ElementKey) String() string {
	return string(k.Type) + "/" + strconv.FormatInt(k.ID, 10)
}

// IsProvisional returns true for elements created locally that have not been
// assigned a real id yet.
func (k ElementKey) IsProvisional() bool {
	return k.ID < 0
}

// ParseElementKey parses a key in the "type/id" form
func ParseElementKey(s string) (ElementKey, error) {
	typ, id, ok := strings.Cut(s, "/")
	if !ok {
		return ElementKey{}, fmt.Errorf("invalid element key %q: expected type/id", s)
	}
	t := ElementType(typ)
	if !t.Valid() {
		return ElementKey{}, fmt.Errorf("invalid element type %q", typ)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ElementKey{}, fmt.Errorf("invalid element id %q: %w", id, err)
	}
	return ElementKey{Type: t, ID: n}, nil
}

// LatLon is a WGS84 coordinate
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RelationMember is a single member reference of a relation
type RelationMember struct {
	Type ElementType `json:"type"`
	Ref  int64       `json:"ref"`
	Role string      `json:"role"`
}

// Element is a snapshot of a node, way or relation. Snapshots are never
// mutated in place; use Copy before transforming one.
type Element struct {
	Type            ElementType       `json:"type"`
	ID              int64             `json:"id"`
	Version         int               `json:"version"`
	Tags            map[string]string `json:"tags,omitempty"`
	Position        *LatLon           `json:"position,omitempty"` // nodes only
	NodeIDs         []int64           `json:"nodes,omitempty"`    // ways only
	Members         []RelationMember  `json:"members,omitempty"`  // relations only
	TimestampEdited int64             `json:"timestamp_edited"`   // epoch milliseconds
}

// Key returns the element key of this element
func (e *Element) Key() ElementKey {
	return ElementKey{Type: e.Type, ID: e.ID}
}

// IsArea returns true for closed ways
func (e *Element) IsArea() bool {
	n := len(e.NodeIDs)
	return e.Type == ElementWay && n >= 4 && e.NodeIDs[0] == e.NodeIDs[n-1]
}

// Copy returns a deep copy of the element
func (e *Element) Copy() *Element {
	c := *e
	c.Tags = CopyTags(e.Tags)
	if e.Position != nil {
		p := *e.Position
		c.Position = &p
	}
	if e.NodeIDs != nil {
		c.NodeIDs = append([]int64(nil), e.NodeIDs...)
	}
	if e.Members != nil {
		c.Members = append([]RelationMember(nil), e.Members...)
	}
	return &c
}

// CopyTags returns an independent copy of a tag map. A nil map copies to an
// empty one.
func CopyTags(tags map[string]string) map[string]string {
	c := make(map[string]string, len(tags))
	for k, v := range tags {
		c[k] = v
	}
	return c
}
