// Package edits implements edit actions: units of work that turn an answer or
// a user edit into concrete element creations, modifications and deletions
// against the current state of the map data, after checking that the element
// has not diverged too far from the state the edit was made on.
package edits

import (
	"context"
	"errors"
	"time"

	"github.com/kilupskalvis/mapedit/internal/models"
)

// ErrNotRevertable is returned when undo is requested for an action that has
// no inverse.
var ErrNotRevertable = errors.New("action cannot be reverted")

// MapDataRepository provides read access to the current map data.
// Get methods return (nil, nil) when the element does not exist.
type MapDataRepository interface {
	GetElement(ctx context.Context, key models.ElementKey) (*models.Element, error)
	GetWaysForNode(ctx context.Context, id int64) ([]*models.Element, error)
	GetRelationsForNode(ctx context.Context, id int64) ([]*models.Element, error)
}

// IDProvider allocates provisional (negative) ids for new elements.
type IDProvider interface {
	NextID(t models.ElementType) (int64, error)
}

// Action is an edit on one or more elements.
type Action interface {
	// ElementKeys returns the keys of the elements this action refers to.
	ElementKeys() []models.ElementKey
	// IDsUpdatesApplied returns a copy of the action with provisional ids
	// replaced by the ids in updated.
	IDsUpdatesApplied(updated map[models.ElementKey]int64) Action
	// CreateUpdates computes the changes to commit against the current map
	// data. It returns a *ConflictError if the action cannot be applied as-is.
	CreateUpdates(ctx context.Context, repo MapDataRepository, ids IDProvider) (*models.MapDataChanges, error)
}

// Revertable is an action that can produce its inverse.
type Revertable interface {
	Action
	CreateReverted(ids IDProvider) (Action, error)
}

// Revert returns the inverse of a, or ErrNotRevertable.
func Revert(a Action, ids IDProvider) (Action, error) {
	r, ok := a.(Revertable)
	if !ok {
		return nil, ErrNotRevertable
	}
	return r.CreateReverted(ids)
}

// now is replaced in tests
var now = time.Now

func nowMillis() int64 {
	return now().UnixMilli()
}

// DefaultNodeMoveTolerance is the distance in meters a node may have moved
// since an edit was made before the edit is considered conflicting.
const DefaultNodeMoveTolerance = 20.0

type toleranceKey struct{}

// WithNodeMoveTolerance returns a context carrying the node move tolerance
func WithNodeMoveTolerance(ctx context.Context, meters float64) context.Context {
	return context.WithValue(ctx, toleranceKey{}, meters)
}

// NodeMoveTolerance returns the node move tolerance of ctx, or the default
func NodeMoveTolerance(ctx context.Context) float64 {
	if v, ok := ctx.Value(toleranceKey{}).(float64); ok && v > 0 {
		return v
	}
	return DefaultNodeMoveTolerance
}

// getCurrent fetches the current version of original and runs the conflict
// checks shared by all actions on existing elements.
func getCurrent(ctx context.Context, repo MapDataRepository, original *models.Element, checkGeometry bool) (*models.Element, error) {
	current, err := repo.GetElement(ctx, original.Key())
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, newConflict(ConflictElementDeleted, original.Key(), "element deleted")
	}
	if checkGeometry && IsGeometrySubstantiallyDifferent(original, current, NodeMoveTolerance(ctx)) {
		return nil, newConflict(ConflictGeometryDiverged, original.Key(), "element geometry changed substantially")
	}
	return current, nil
}

// remapElement returns a copy of el with provisional ids replaced, including
// the ids it references.
func remapElement(el *models.Element, updated map[models.ElementKey]int64) *models.Element {
	if len(updated) == 0 {
		return el
	}
	c := el.Copy()
	if id, ok := updated[el.Key()]; ok {
		c.ID = id
	}
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
