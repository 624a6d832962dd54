package edits

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// ConflictKind identifies why an action could not be applied
type ConflictKind string

const (
	ConflictElementDeleted   ConflictKind = "element_deleted"   // Element no longer exists
	ConflictGeometryDiverged ConflictKind = "geometry_diverged" // Element moved or was reshaped
	ConflictTagsConflicted   ConflictKind = "tags_conflicted"   // Tags were changed in between
	ConflictElementInUse     ConflictKind = "element_in_use"    // Element became part of a way or relation
)

// ConflictError reports that the map data diverged from the state an action
// was made on. It is recoverable: the caller may discard the action or make
// it again on fresh data.
type ConflictError struct {
	Kind   ConflictKind
	Key    models.ElementKey
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Key, e.Detail)
}

func newConflict(kind ConflictKind, key models.ElementKey, detail string) *ConflictError {
	return &ConflictError{Kind: kind, Key: key, Detail: detail}
}

// IsConflict returns true if err is or wraps a *ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// ConflictKindOf returns the kind of a conflict error
func ConflictKindOf(err error) (ConflictKind, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// IsGeometrySubstantiallyDifferent reports whether current is so different
// from original that an edit made on original should not be applied to it.
// Nodes may move up to tolerance meters. Ways must reference the same nodes
// and relations the same members.
func IsGeometrySubstantiallyDifferent(original, current *models.Element, tolerance float64) bool {
	if original.Type != current.Type {
		return true
	}
	switch original.Type {
	case models.ElementNode:
		if original.Position == nil || current.Position == nil {
			return original.Position != current.Position
		}
		return geo.Distance(toPoint(original.Position), toPoint(current.Position)) > tolerance
	case models.ElementWay:
		return !slices.Equal(original.NodeIDs, current.NodeIDs)
	case models.ElementRelation:
		return !slices.Equal(original.Members, current.Members)
	}
	return false
}

func toPoint(p *models.LatLon) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}
