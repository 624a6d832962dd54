// Package changes computes minimal tag diffs between two tag maps and applies
// them back. A ChangeSet holds at most one change per key, so applying it is
// independent of the order of its entries.
package changes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ChangeType is the kind of a single tag change
type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeModify ChangeType = "modify"
	ChangeDelete ChangeType = "delete"
)

// ErrChangeMismatch is returned when a change is applied to tags that do not
// hold the state the change was computed against.
var ErrChangeMismatch = errors.New("tag change does not match tags")

// Change is a single atomic change of one tag
type Change struct {
	Type        ChangeType `json:"type"`
	Key         string     `json:"key"`
	ValueBefore string     `json:"value_before,omitempty"` // modify, delete
	Value       string     `json:"value,omitempty"`        // add, modify
}

// Add returns a change adding key=value
func Add(key, value string) Change {
	return Change{Type: ChangeAdd, Key: key, Value: value}
}

// Modify returns a change from key=before to key=value
func Modify(key, before, value string) Change {
	return Change{Type: ChangeModify, Key: key, ValueBefore: before, Value: value}
}

// Delete returns a change removing key=before
func Delete(key, before string) Change {
	return Change{Type: ChangeDelete, Key: key, ValueBefore: before}
}

// String renders the change like "+key=value", "~key=old->new" or "-key=old"
func (c Change) String() string {
	switch c.Type {
	case ChangeAdd:
		return fmt.Sprintf("+%s=%s", c.Key, c.Value)
	case ChangeModify:
		return fmt.Sprintf("~%s=%s->%s", c.Key, c.ValueBefore, c.Value)
	case ChangeDelete:
		return fmt.Sprintf("-%s=%s", c.Key, c.ValueBefore)
	}
	return fmt.Sprintf("?%s", c.Key)
}

// Reversed returns the change that undoes c
func (c Change) Reversed() Change {
	switch c.Type {
	case ChangeAdd:
		return Delete(c.Key, c.Value)
	case ChangeDelete:
		return Add(c.Key, c.ValueBefore)
	default:
		return Modify(c.Key, c.Value, c.ValueBefore)
	}
}

// matchesBefore reports whether tags hold the state c expects before applying
func (c Change) matchesBefore(tags map[string]string) bool {
	v, ok := tags[c.Key]
	switch c.Type {
	case ChangeAdd:
		return !ok
	default:
		return ok && v == c.ValueBefore
	}
}

// matchesAfter reports whether tags already hold the state c produces
func (c Change) matchesAfter(tags map[string]string) bool {
	v, ok := tags[c.Key]
	if c.Type == ChangeDelete {
		return !ok
	}
	return ok && v == c.Value
}

// validate checks the invariants of a single change
func (c Change) validate() error {
	switch c.Type {
	case ChangeAdd, ChangeDelete:
		return nil
	case ChangeModify:
		if c.ValueBefore == c.Value {
			return fmt.Errorf("modify of %q keeps value %q", c.Key, c.Value)
		}
		return nil
	}
	return fmt.Errorf("unknown change type %q", c.Type)
}

// ChangeSet is a set of tag changes with unique keys, sorted by key
type ChangeSet []Change

// NewChangeSet builds a ChangeSet from changes. It fails if two changes share
// a key or a change is malformed.
func NewChangeSet(changes ...Change) (ChangeSet, error) {
	seen := make(map[string]bool, len(changes))
	cs := make(ChangeSet, 0, len(changes))
	for _, c := range changes {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if seen[c.Key] {
			return nil, fmt.Errorf("duplicate change for key %q", c.Key)
		}
		seen[c.Key] = true
		cs = append(cs, c)
	}
	cs.sort()
	return cs, nil
}

func (cs ChangeSet) sort() {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Key < cs[j].Key })
}

// IsEmpty returns true if the set contains no changes
func (cs ChangeSet) IsEmpty() bool {
	return len(cs) == 0
}

// Keys returns the changed keys in order
func (cs ChangeSet) Keys() []string {
	keys := make([]string, len(cs))
	for i, c := range cs {
		keys[i] = c.Key
	}
	return keys
}

// Get returns the change for key, if any
func (cs ChangeSet) Get(key string) (Change, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Key >= key })
	if i < len(cs) && cs[i].Key == key {
		return cs[i], true
	}
	return Change{}, false
}

// Equal reports set equality
func (cs ChangeSet) Equal(other ChangeSet) bool {
	if len(cs) != len(other) {
		return false
	}
	for _, c := range cs {
		o, ok := other.Get(c.Key)
		if !ok || o != c {
			return false
		}
	}
	return true
}

// String renders the set as space separated changes
func (cs ChangeSet) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Reversed returns the set undoing cs
func (cs ChangeSet) Reversed() ChangeSet {
	r := make(ChangeSet, len(cs))
	for i, c := range cs {
		r[i] = c.Reversed()
	}
	return r
}

// ApplyTo returns a new tag map with all changes applied. Every change must
// find its expected previous state in tags, otherwise ErrChangeMismatch is
// returned and tags are left as they were.
func (cs ChangeSet) ApplyTo(tags map[string]string) (map[string]string, error) {
	result := copyTags(tags)
	for _, c := range cs {
		if !c.matchesBefore(tags) {
			return nil, fmt.Errorf("%w: %s", ErrChangeMismatch, c)
		}
		apply(result, c)
	}
	return result, nil
}

// ConflictsWith returns the changes that can neither be applied to tags nor
// are already reflected in them.
func (cs ChangeSet) ConflictsWith(tags map[string]string) []Change {
	var conflicts []Change
	for _, c := range cs {
		if !c.matchesBefore(tags) && !c.matchesAfter(tags) {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// ApplyLenient applies all changes that do not conflict with tags, skipping
// the ones whose result is already present. It returns the new tags and the
// conflicting changes that were left out.
func (cs ChangeSet) ApplyLenient(tags map[string]string) (map[string]string, []Change) {
	result := copyTags(tags)
	var conflicts []Change
	for _, c := range cs {
		switch {
		case c.matchesAfter(tags):
		case c.matchesBefore(tags):
			apply(result, c)
		default:
			conflicts = append(conflicts, c)
		}
	}
	return result, conflicts
}

func apply(tags map[string]string, c Change) {
	if c.Type == ChangeDelete {
		delete(tags, c.Key)
		return
	}
	tags[c.Key] = c.Value
}

func copyTags(tags map[string]string) map[string]string {
	c := make(map[string]string, len(tags))
	for k, v := range tags {
		c[k] = v
	}
	return c
}
