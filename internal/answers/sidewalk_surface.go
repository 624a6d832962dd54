package answers

import (
	"errors"

	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/sided"
)

var sidewalkSurface = sided.Attribute{
	Prefix:     "sidewalk",
	Name:       "surface",
	Dependents: []string{"smoothness"},
}

// SidewalkSurface is the answer to the surface of the sidewalks of a road.
// A nil side was not answered.
type SidewalkSurface struct {
	Left  *Surface
	Right *Surface
}

// Validate checks that at least one side is answered with a known surface
func (s SidewalkSurface) Validate() error {
	if s.Left == nil && s.Right == nil {
		return errors.New("no sidewalk surface given")
	}
	for _, v := range []*Surface{s.Left, s.Right} {
		if v == nil {
			continue
		}
		if _, err := ParseSurface(string(*v)); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo records the answer on b
func (s SidewalkSurface) ApplyTo(b *changes.Builder, today string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var v sided.LeftAndRight
	if s.Left != nil {
		left := string(*s.Left)
		v.Left = &left
	}
	if s.Right != nil {
		right := string(*s.Right)
		v.Right = &right
	}
	sidewalkSurface.ApplyTo(b, v, today)
	return nil
}
