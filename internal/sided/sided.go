// Package sided applies answers for attributes that exist once per side of a
// way, such as the surface of the left and right sidewalk. Both sides are
// written as a single "both" key when they agree and split into "left" and
// "right" keys when they differ.
package sided

import (
	"time"

	"github.com/kilupskalvis/mapedit/internal/changes"
)

// Side names used in tag keys
const (
	Left  = "left"
	Right = "right"
	Both  = "both"
)

// CheckDateLayout is the date format of check_date tags
const CheckDateLayout = "2006-01-02"

// Today returns the current date formatted for check_date tags
func Today() string {
	return time.Now().Format(CheckDateLayout)
}

// LeftAndRight holds the answered value per side. A nil side was not
// answered and is left untouched.
type LeftAndRight struct {
	Left  *string
	Right *string
}

// Same returns a LeftAndRight with value on both sides
func Same(value string) LeftAndRight {
	return LeftAndRight{Left: &value, Right: &value}
}

// Split returns a LeftAndRight with a different value per side
func Split(left, right string) LeftAndRight {
	return LeftAndRight{Left: &left, Right: &right}
}

// Attribute describes a sided attribute: keys are "<Prefix>:<side>:<Name>".
// Dependents are attributes of the same prefix that describe the quality of
// Name (e.g. smoothness of a surface) and become invalid when it changes.
type Attribute struct {
	Prefix     string
	Name       string
	Dependents []string
}

// Key returns the tag key of name on side
func (a Attribute) Key(side, name string) string {
	return a.Prefix + ":" + side + ":" + name
}

// CheckDateKey returns the freshness marker key of the attribute
func (a Attribute) CheckDateKey() string {
	return "check_date:" + a.Prefix + ":" + a.Name
}

// Tags gives read access to tags; *changes.Builder implements it.
type Tags interface {
	Get(key string) (string, bool)
}

// Effective returns the value applying to side, taking a "both" key into
// account.
func (a Attribute) Effective(tags Tags, side string) (string, bool) {
	if v, ok := tags.Get(a.Key(side, a.Name)); ok {
		return v, true
	}
	return tags.Get(a.Key(Both, a.Name))
}

// ApplyTo records the answer v on b.
//
// Sides whose value changes lose their dependent attributes and the check
// date of the attribute is removed. If no side changes, an existing check
// date is set to today; a missing one is not created.
func (a Attribute) ApplyTo(b *changes.Builder, v LeftAndRight, today string) {
	leftChanged := a.changed(b, Left, v.Left)
	rightChanged := a.changed(b, Right, v.Right)

	a.expand(b, a.Name)
	for _, dep := range a.Dependents {
		a.expand(b, dep)
	}

	a.setSide(b, Left, v.Left, leftChanged)
	a.setSide(b, Right, v.Right, rightChanged)

	a.merge(b, a.Name)
	for _, dep := range a.Dependents {
		a.merge(b, dep)
	}

	if leftChanged || rightChanged {
		b.Remove(a.CheckDateKey())
	} else if b.Contains(a.CheckDateKey()) {
		b.Set(a.CheckDateKey(), today)
	}
}

// changed reports whether answering value changes the effective value of side
func (a Attribute) changed(b *changes.Builder, side string, value *string) bool {
	if value == nil {
		return false
	}
	current, ok := a.Effective(b, side)
	return !ok || current != *value
}

func (a Attribute) setSide(b *changes.Builder, side string, value *string, changed bool) {
	if value == nil {
		return
	}
	b.Set(a.Key(side, a.Name), *value)
	if changed {
		for _, dep := range a.Dependents {
			b.Remove(a.Key(side, dep))
		}
	}
}

// expand replaces a "both" key of name with a left and a right key. Existing
// side keys take precedence.
func (a Attribute) expand(b *changes.Builder, name string) {
	both := a.Key(Both, name)
	v, ok := b.Get(both)
	if !ok {
		return
	}
	b.Remove(both)
	if !b.Contains(a.Key(Left, name)) {
		b.Set(a.Key(Left, name), v)
	}
	if !b.Contains(a.Key(Right, name)) {
		b.Set(a.Key(Right, name), v)
	}
}

// merge replaces equal left and right keys of name with a "both" key
func (a Attribute) merge(b *changes.Builder, name string) {
	left, lok := b.Get(a.Key(Left, name))
	right, rok := b.Get(a.Key(Right, name))
	if !lok || !rok || left != right {
		return
	}
	b.Remove(a.Key(Left, name))
	b.Remove(a.Key(Right, name))
	b.Set(a.Key(Both, name), left)
}
