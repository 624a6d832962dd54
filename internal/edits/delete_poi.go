package edits

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/mapedit/internal/models"
)

// FixmeDeletedNodeInRelation is set on a node that was to be deleted but has a
// role in a relation, so that a mapper decides what to do with it.
const FixmeDeletedNodeInRelation = "object not found on a survey, check if it should be deleted or deleted from the relation"

// DeletePoiNode deletes a point of interest node.
//
// Only nodes are supported. If the node is a vertex of a way or a member of
// a relation it is not deleted but degraded to an untagged vertex; as a
// relation member it keeps a fixme tag.
type DeletePoiNode struct {
	OriginalNode *models.Element `json:"original_node"`
}

// NewDeletePoiNode creates the action for the given node snapshot
func NewDeletePoiNode(node *models.Element) (DeletePoiNode, error) {
	if node.Type != models.ElementNode {
		return DeletePoiNode{}, fmt.Errorf("cannot delete %s as point: only nodes are supported", node.Key())
	}
	return DeletePoiNode{OriginalNode: node.Copy()}, nil
}

func (a DeletePoiNode) ElementKeys() []models.ElementKey {
	return []models.ElementKey{a.OriginalNode.Key()}
}

func (a DeletePoiNode) IDsUpdatesApplied(updated map[models.ElementKey]int64) Action {
	return DeletePoiNode{OriginalNode: remapElement(a.OriginalNode, updated)}
}

func (a DeletePoiNode) CreateUpdates(ctx context.Context, repo MapDataRepository, _ IDProvider) (*models.MapDataChanges, error) {
	current, err := getCurrent(ctx, repo, a.OriginalNode, true)
	if err != nil {
		return nil, err
	}

	ways, err := repo.GetWaysForNode(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("get ways for node %d: %w", current.ID, err)
	}
	relations, err := repo.GetRelationsForNode(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("get relations for node %d: %w", current.ID, err)
	}

	if len(ways) == 0 && len(relations) == 0 {
		return &models.MapDataChanges{Deletions: []*models.Element{current}}, nil
	}

	vertex := current.Copy()
	vertex.Tags = map[string]string{}
	if len(relations) > 0 {
		vertex.Tags["fixme"] = FixmeDeletedNodeInRelation
	}
	vertex.TimestampEdited = nowMillis()
	return &models.MapDataChanges{Modifications: []*models.Element{vertex}}, nil
}

func (a DeletePoiNode) CreateReverted(_ IDProvider) (Action, error) {
	return RevertDeletePoiNode{OriginalNode: a.OriginalNode.Copy()}, nil
}

// RevertDeletePoiNode restores a node deleted or degraded by DeletePoiNode.
type RevertDeletePoiNode struct {
	OriginalNode *models.Element `json:"original_node"`
}

func (a RevertDeletePoiNode) ElementKeys() []models.ElementKey {
	return []models.ElementKey{a.OriginalNode.Key()}
}

func (a RevertDeletePoiNode) IDsUpdatesApplied(updated map[models.ElementKey]int64) Action {
	return RevertDeletePoiNode{OriginalNode: remapElement(a.OriginalNode, updated)}
}

func (a RevertDeletePoiNode) CreateUpdates(ctx context.Context, repo MapDataRepository, _ IDProvider) (*models.MapDataChanges, error) {
	current, err := repo.GetElement(ctx, a.OriginalNode.Key())
	if err != nil {
		return nil, err
	}

	restored := a.OriginalNode.Copy()
	restored.TimestampEdited = nowMillis()
	// a deleted node is restored with the version it was deleted at
	if current != nil {
		restored.Version = current.Version
	}
	return &models.MapDataChanges{Modifications: []*models.Element{restored}}, nil
}
