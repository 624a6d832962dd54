package edits

import (
	"testing"
	"time"

	"github.com/kilupskalvis/mapedit/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// freezeTime makes nowMillis deterministic for the duration of a test.
func freezeTime(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() { now = prev })
}

func node(id int64, lat, lon float64, tags map[string]string) *models.Element {
	return &models.Element{
		Type:     models.ElementNode,
		ID:       id,
		Version:  1,
		Tags:     tags,
		Position: &models.LatLon{Lat: lat, Lon: lon},
	}
}

func way(id int64, nodes []int64, tags map[string]string) *models.Element {
	return &models.Element{Type: models.ElementWay, ID: id, Version: 1, NodeIDs: nodes, Tags: tags}
}

func relation(id int64, members ...models.RelationMember) *models.Element {
	return &models.Element{Type: models.ElementRelation, ID: id, Version: 1, Members: members}
}

func nodeKey(id int64) models.ElementKey {
	return models.ElementKey{Type: models.ElementNode, ID: id}
}
