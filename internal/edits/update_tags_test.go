package edits

import (
	"context"
	"testing"

	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateElementTags_Applies(t *testing.T) {
	freezeTime(t)
	ctx := context.Background()
	w := way(1, []int64{1, 2, 3}, map[string]string{"highway": "residential", "surface": "asphalt"})
	repo := NewMockRepository(w)

	cs := changes.Diff(w.Tags, map[string]string{"highway": "residential", "surface": "gravel", "lit": "yes"})
	action, err := NewUpdateElementTags(w, cs)
	require.NoError(t, err)

	result, err := action.CreateUpdates(ctx, repo, &MockIDProvider{})
	require.NoError(t, err)
	require.Len(t, result.Modifications, 1)
	assert.Equal(t, map[string]string{"highway": "residential", "surface": "gravel", "lit": "yes"}, result.Modifications[0].Tags)
	assert.Equal(t, fixedNow.UnixMilli(), result.Modifications[0].TimestampEdited)
}

func TestUpdateElementTags_KeepsUnrelatedConcurrentChanges(t *testing.T) {
	ctx := context.Background()
	w := way(1, []int64{1, 2}, map[string]string{"highway": "residential"})
	current := way(1, []int64{1, 2}, map[string]string{"highway": "residential", "name": "Main Street"})
	repo := NewMockRepository(current)

	action, err := NewUpdateElementTags(w, changes.ChangeSet{changes.Add("lit", "yes")})
	require.NoError(t, err)

	result, err := action.CreateUpdates(ctx, repo, &MockIDProvider{})
	require.NoError(t, err)
	require.Len(t, result.Modifications, 1)
	assert.Equal(t, map[string]string{"highway": "residential", "name": "Main Street", "lit": "yes"}, result.Modifications[0].Tags)
}

func TestUpdateElementTags_TagsConflicted(t *testing.T) {
	ctx := context.Background()
	w := way(1, []int64{1, 2}, map[string]string{"surface": "asphalt"})
	repo := NewMockRepository(way(1, []int64{1, 2}, map[string]string{"surface": "concrete"}))

	action, err := NewUpdateElementTags(w, changes.ChangeSet{changes.Modify("surface", "asphalt", "gravel")})
	require.NoError(t, err)

	_, err = action.CreateUpdates(ctx, repo, &MockIDProvider{})
	kind, ok := ConflictKindOf(err)
	require.True(t, ok)
	assert.Equal(t, ConflictTagsConflicted, kind)
}

func TestUpdateElementTags_AlreadyApplied(t *testing.T) {
	ctx := context.Background()
	w := way(1, []int64{1, 2}, map[string]string{})
	repo := NewMockRepository(way(1, []int64{1, 2}, map[string]string{"lit": "yes"}))

	action, err := NewUpdateElementTags(w, changes.ChangeSet{changes.Add("lit", "yes")})
	require.NoError(t, err)

	result, err := action.CreateUpdates(ctx, repo, &MockIDProvider{})
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestUpdateElementTags_WayReshaped(t *testing.T) {
	ctx := context.Background()
	w := way(1, []int64{1, 2, 3}, map[string]string{"highway": "path"})
	repo := NewMockRepository(way(1, []int64{1, 4, 3}, map[string]string{"highway": "path"}))

	action, err := NewUpdateElementTags(w, changes.ChangeSet{changes.Add("surface", "dirt")})
	require.NoError(t, err)

	_, err = action.CreateUpdates(ctx, repo, &MockIDProvider{})
	kind, ok := ConflictKindOf(err)
	require.True(t, ok)
	assert.Equal(t, ConflictGeometryDiverged, kind)
}

func TestNewUpdateElementTags_Validation(t *testing.T) {
	w := way(1, []int64{1, 2}, map[string]string{"surface": "asphalt"})

	_, err := NewUpdateElementTags(w, changes.ChangeSet{})
	assert.Error(t, err)

	_, err = NewUpdateElementTags(w, changes.ChangeSet{changes.Delete("surface", "gravel")})
	assert.ErrorIs(t, err, changes.ErrChangeMismatch)
}

func TestUpdateElementTags_RevertSkipsGeometryCheck(t *testing.T) {
	ctx := context.Background()
	n := node(1, 52.5, 13.4, map[string]string{"amenity": "bench"})
	repo := NewMockRepository(n)

	action, err := NewUpdateElementTags(n, changes.ChangeSet{changes.Add("backrest", "yes")})
	require.NoError(t, err)
	result, err := action.CreateUpdates(ctx, repo, &MockIDProvider{})
	require.NoError(t, err)
	repo.Apply(result)

	// someone moves the bench far away
	moved := repo.Elements[nodeKey(1)].Copy()
	moved.Position = &models.LatLon{Lat: 52.6, Lon: 13.4}
	repo.Put(moved)

	revert, err := Revert(action, &MockIDProvider{})
	require.NoError(t, err)

	reverted, err := revert.CreateUpdates(ctx, repo, &MockIDProvider{})
	require.NoError(t, err)
	require.Len(t, reverted.Modifications, 1)
	assert.Equal(t, map[string]string{"amenity": "bench"}, reverted.Modifications[0].Tags)
	assert.Equal(t, 52.6, reverted.Modifications[0].Position.Lat)
}

func TestUpdateElementTags_IDsUpdatesAppliedRemapsReferences(t *testing.T) {
	w := way(-2, []int64{-1, 5}, map[string]string{"highway": "path"})
	action, err := NewUpdateElementTags(w, changes.ChangeSet{changes.Add("lit", "no")})
	require.NoError(t, err)

	updated := action.IDsUpdatesApplied(map[models.ElementKey]int64{
		nodeKey(-1): 11,
		{Type: models.ElementWay, ID: -2}: 22,
	}).(UpdateElementTags)

	assert.Equal(t, int64(22), updated.OriginalElement.ID)
	assert.Equal(t, []int64{11, 5}, updated.OriginalElement.NodeIDs)
	assert.Equal(t, action.Changes, updated.Changes)
	assert.Equal(t, []int64{-1, 5}, action.OriginalElement.NodeIDs)
}
