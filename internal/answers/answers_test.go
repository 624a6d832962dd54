package answers

import (
	"testing"

	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surfacePtr(s Surface) *Surface { return &s }

func intPtr(i int) *int { return &i }

func TestBuildingLevels_ApplyTo(t *testing.T) {
	t.Run("levels only", func(t *testing.T) {
		b := changes.NewBuilder(map[string]string{"building": "residential"})
		require.NoError(t, BuildingLevels{Levels: 5}.ApplyTo(b))
		assert.Equal(t, changes.ChangeSet{changes.Add("building:levels", "5")}, b.Changes())
	})

	t.Run("levels and roof levels", func(t *testing.T) {
		b := changes.NewBuilder(map[string]string{})
		require.NoError(t, BuildingLevels{Levels: 5, RoofLevels: intPtr(0)}.ApplyTo(b))
		assert.ElementsMatch(t, []changes.Change{
			changes.Add("building:levels", "5"),
			changes.Add("roof:levels", "0"),
		}, b.Changes())
	})

	t.Run("negative levels rejected", func(t *testing.T) {
		b := changes.NewBuilder(map[string]string{})
		assert.Error(t, BuildingLevels{Levels: -1}.ApplyTo(b))
		assert.Error(t, BuildingLevels{Levels: 1, RoofLevels: intPtr(-2)}.ApplyTo(b))
		assert.False(t, b.HasChanges())
	})
}

func TestIsBuildingLevelsApplicable(t *testing.T) {
	way := func(tags map[string]string) *models.Element {
		return &models.Element{Type: models.ElementWay, ID: 1, NodeIDs: []int64{1, 2, 3, 4, 1}, Tags: tags}
	}

	assert.False(t, IsBuildingLevelsApplicable(way(map[string]string{"building": "industrial"})))
	assert.True(t, IsBuildingLevelsApplicable(way(map[string]string{"building": "residential"})))
	assert.False(t, IsBuildingLevelsApplicable(way(map[string]string{"building": "residential", "building:levels": "3"})))
	assert.False(t, IsBuildingLevelsApplicable(way(map[string]string{"highway": "residential"})))
	assert.False(t, IsBuildingLevelsApplicable(&models.Element{Type: models.ElementNode, Tags: map[string]string{"building": "yes"}}))

	open := &models.Element{Type: models.ElementWay, ID: 2, NodeIDs: []int64{1, 2, 3}, Tags: map[string]string{"building": "yes"}}
	assert.False(t, IsBuildingLevelsApplicable(open))

	rel := &models.Element{Type: models.ElementRelation, ID: 3, Tags: map[string]string{"building": "yes", "type": "multipolygon"}}
	assert.True(t, IsBuildingLevelsApplicable(rel))
}

func TestSidewalkSurface_ApplyTo(t *testing.T) {
	b := changes.NewBuilder(map[string]string{
		"sidewalk:both:surface":    "asphalt",
		"sidewalk:both:smoothness": "excellent",
	})
	answer := SidewalkSurface{Left: surfacePtr(SurfacePavingStones), Right: surfacePtr(SurfacePavingStones)}
	require.NoError(t, answer.ApplyTo(b, "2024-05-01"))

	assert.ElementsMatch(t, []changes.Change{
		changes.Delete("sidewalk:both:smoothness", "excellent"),
		changes.Modify("sidewalk:both:surface", "asphalt", "paving_stones"),
	}, b.Changes())
}

func TestSidewalkSurface_Validate(t *testing.T) {
	assert.Error(t, SidewalkSurface{}.Validate())
	assert.Error(t, SidewalkSurface{Left: surfacePtr("lava")}.Validate())
	assert.NoError(t, SidewalkSurface{Right: surfacePtr(SurfaceGravel)}.Validate())
}

func TestParseSurface(t *testing.T) {
	s, err := ParseSurface("asphalt")
	require.NoError(t, err)
	assert.Equal(t, SurfaceAsphalt, s)

	_, err = ParseSurface("chocolate")
	assert.Error(t, err)

	assert.Contains(t, KnownSurfaces(), "paving_stones")
}
