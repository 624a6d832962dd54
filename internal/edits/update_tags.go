package edits

import (
	"context"
	"fmt"
	"maps"

	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/models"
)

// UpdateElementTags applies tag changes to an element.
type UpdateElementTags struct {
	OriginalElement *models.Element   `json:"original_element"`
	Changes         changes.ChangeSet `json:"changes"`
}

// NewUpdateElementTags creates the action. The changes must apply to the
// tags of the element snapshot.
func NewUpdateElementTags(el *models.Element, cs changes.ChangeSet) (UpdateElementTags, error) {
	if cs.IsEmpty() {
		return UpdateElementTags{}, fmt.Errorf("no tag changes for %s", el.Key())
	}
	if _, err := cs.ApplyTo(el.Tags); err != nil {
		return UpdateElementTags{}, fmt.Errorf("changes for %s: %w", el.Key(), err)
	}
	return UpdateElementTags{OriginalElement: el.Copy(), Changes: cs}, nil
}

func (a UpdateElementTags) ElementKeys() []models.ElementKey {
	return []models.ElementKey{a.OriginalElement.Key()}
}

func (a UpdateElementTags) IDsUpdatesApplied(updated map[models.ElementKey]int64) Action {
	return UpdateElementTags{OriginalElement: remapElement(a.OriginalElement, updated), Changes: a.Changes}
}

func (a UpdateElementTags) CreateUpdates(ctx context.Context, repo MapDataRepository, _ IDProvider) (*models.MapDataChanges, error) {
	return updateTags(ctx, repo, a.OriginalElement, a.Changes, true)
}

func (a UpdateElementTags) CreateReverted(_ IDProvider) (Action, error) {
	return RevertUpdateElementTags{
		OriginalElement: a.OriginalElement.Copy(),
		Changes:         a.Changes.Reversed(),
	}, nil
}

// RevertUpdateElementTags undoes UpdateElementTags. Unlike the forward
// action it does not check the geometry, the revert should go through even
// if the element was moved since.
type RevertUpdateElementTags struct {
	OriginalElement *models.Element   `json:"original_element"`
	Changes         changes.ChangeSet `json:"changes"`
}

func (a RevertUpdateElementTags) ElementKeys() []models.ElementKey {
	return []models.ElementKey{a.OriginalElement.Key()}
}

func (a RevertUpdateElementTags) IDsUpdatesApplied(updated map[models.ElementKey]int64) Action {
	return RevertUpdateElementTags{OriginalElement: remapElement(a.OriginalElement, updated), Changes: a.Changes}
}

func (a RevertUpdateElementTags) CreateUpdates(ctx context.Context, repo MapDataRepository, _ IDProvider) (*models.MapDataChanges, error) {
	return updateTags(ctx, repo, a.OriginalElement, a.Changes, false)
}

func updateTags(ctx context.Context, repo MapDataRepository, original *models.Element, cs changes.ChangeSet, checkGeometry bool) (*models.MapDataChanges, error) {
	current, err := getCurrent(ctx, repo, original, checkGeometry)
	if err != nil {
		return nil, err
	}

	if conflicts := cs.ConflictsWith(current.Tags); len(conflicts) > 0 {
		return nil, newConflict(ConflictTagsConflicted, original.Key(),
			fmt.Sprintf("tags changed in the meantime: %s", changes.ChangeSet(conflicts)))
	}

	tags, _ := cs.ApplyLenient(current.Tags)
	if maps.Equal(tags, current.Tags) {
		return &models.MapDataChanges{}, nil
	}

	modified := current.Copy()
	modified.Tags = tags
	modified.TimestampEdited = nowMillis()
	return &models.MapDataChanges{Modifications: []*models.Element{modified}}, nil
}
