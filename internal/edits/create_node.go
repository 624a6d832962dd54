package edits

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/mapedit/internal/models"
)

// CreateNode creates a new free-standing node. The node carries a
// provisional id until it has been committed.
type CreateNode struct {
	Node *models.Element `json:"node"`
}

// NewCreateNode creates the action with a provisional id from ids
func NewCreateNode(pos models.LatLon, tags map[string]string, ids IDProvider) (CreateNode, error) {
	id, err := ids.NextID(models.ElementNode)
	if err != nil {
		return CreateNode{}, fmt.Errorf("allocate node id: %w", err)
	}
	return CreateNode{Node: &models.Element{
		Type:     models.ElementNode,
		ID:       id,
		Tags:     models.CopyTags(tags),
		Position: &pos,
	}}, nil
}

func (a CreateNode) ElementKeys() []models.ElementKey {
	return []models.ElementKey{a.Node.Key()}
}

func (a CreateNode) IDsUpdatesApplied(updated map[models.ElementKey]int64) Action {
	return CreateNode{Node: remapElement(a.Node, updated)}
}

func (a CreateNode) CreateUpdates(_ context.Context, _ MapDataRepository, ids IDProvider) (*models.MapDataChanges, error) {
	node := a.Node.Copy()
	if node.ID == 0 {
		id, err := ids.NextID(models.ElementNode)
		if err != nil {
			return nil, fmt.Errorf("allocate node id: %w", err)
		}
		node.ID = id
	}
	node.Version = 0
	node.TimestampEdited = nowMillis()
	return &models.MapDataChanges{Creations: []*models.Element{node}}, nil
}

// CreateReverted fails while the node still has its provisional id: there is
// nothing to delete before it has been created.
func (a CreateNode) CreateReverted(_ IDProvider) (Action, error) {
	if a.Node.Key().IsProvisional() || a.Node.ID == 0 {
		return nil, fmt.Errorf("%w: %s has not been created yet", ErrNotRevertable, a.Node.Key())
	}
	return RevertCreateNode{Node: a.Node.Copy()}, nil
}

// RevertCreateNode deletes a node made by CreateNode.
type RevertCreateNode struct {
	Node *models.Element `json:"node"`
}

func (a RevertCreateNode) ElementKeys() []models.ElementKey {
	return []models.ElementKey{a.Node.Key()}
}

func (a RevertCreateNode) IDsUpdatesApplied(updated map[models.ElementKey]int64) Action {
	return RevertCreateNode{Node: remapElement(a.Node, updated)}
}

func (a RevertCreateNode) CreateUpdates(ctx context.Context, repo MapDataRepository, _ IDProvider) (*models.MapDataChanges, error) {
	current, err := getCurrent(ctx, repo, a.Node, true)
	if err != nil {
		return nil, err
	}

	ways, err := repo.GetWaysForNode(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("get ways for node %d: %w", current.ID, err)
	}
	if len(ways) > 0 {
		return nil, newConflict(ConflictElementInUse, current.Key(), "node is now part of a way")
	}
	relations, err := repo.GetRelationsForNode(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("get relations for node %d: %w", current.ID, err)
	}
	if len(relations) > 0 {
		return nil, newConflict(ConflictElementInUse, current.Key(), "node is now member of a relation")
	}

	return &models.MapDataChanges{Deletions: []*models.Element{current}}, nil
}
