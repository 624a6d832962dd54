package answers

import (
	"fmt"
	"strconv"

	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/models"
)

// BuildingLevels is the answer to how many levels a building has
type BuildingLevels struct {
	Levels     int
	RoofLevels *int
}

// ApplyTo records the answer on b
func (a BuildingLevels) ApplyTo(b *changes.Builder) error {
	if a.Levels < 0 {
		return fmt.Errorf("building levels must not be negative: %d", a.Levels)
	}
	if a.RoofLevels != nil && *a.RoofLevels < 0 {
		return fmt.Errorf("roof levels must not be negative: %d", *a.RoofLevels)
	}
	b.Set("building:levels", strconv.Itoa(a.Levels))
	if a.RoofLevels != nil {
		b.Set("roof:levels", strconv.Itoa(*a.RoofLevels))
	}
	return nil
}

// buildings whose levels are not meaningful to count from outside
var buildingsWithoutLevels = map[string]bool{
	"industrial":        true,
	"construction":      true,
	"roof":              true,
	"carport":           true,
	"bunker":            true,
	"hut":               true,
	"shed":              true,
	"greenhouse":        true,
	"storage_tank":      true,
	"ruins":             true,
	"transformer_tower": true,
}

// IsBuildingLevelsApplicable reports whether the element is a building whose
// levels can be asked for. Building ways must be closed.
func IsBuildingLevelsApplicable(el *models.Element) bool {
	if el.Type == models.ElementNode {
		return false
	}
	// an unclosed building outline is broken data
	if el.Type == models.ElementWay && !el.IsArea() {
		return false
	}
	building, ok := el.Tags["building"]
	if !ok || building == "no" {
		return false
	}
	if buildingsWithoutLevels[building] {
		return false
	}
	_, hasLevels := el.Tags["building:levels"]
	return !hasLevels
}
