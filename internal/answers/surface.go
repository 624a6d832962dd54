// Package answers turns answers to survey questions into tag changes.
package answers

import (
	"fmt"
	"sort"
)

// Surface is a value of the surface key
type Surface string

const (
	SurfaceAsphalt           Surface = "asphalt"
	SurfaceConcrete          Surface = "concrete"
	SurfaceConcretePlates    Surface = "concrete:plates"
	SurfacePavingStones      Surface = "paving_stones"
	SurfaceSett              Surface = "sett"
	SurfaceUnhewnCobblestone Surface = "unhewn_cobblestone"
	SurfaceWood              Surface = "wood"
	SurfaceMetal             Surface = "metal"
	SurfaceCompacted         Surface = "compacted"
	SurfaceFineGravel        Surface = "fine_gravel"
	SurfaceGravel            Surface = "gravel"
	SurfacePebblestone       Surface = "pebblestone"
	SurfaceGrassPaver        Surface = "grass_paver"
	SurfaceGrass             Surface = "grass"
	SurfaceDirt              Surface = "dirt"
	SurfaceSand              Surface = "sand"
	SurfaceRock              Surface = "rock"
)

var knownSurfaces = map[Surface]bool{
	SurfaceAsphalt:           true,
	SurfaceConcrete:          true,
	SurfaceConcretePlates:    true,
	SurfacePavingStones:      true,
	SurfaceSett:              true,
	SurfaceUnhewnCobblestone: true,
	SurfaceWood:              true,
	SurfaceMetal:             true,
	SurfaceCompacted:         true,
	SurfaceFineGravel:        true,
	SurfaceGravel:            true,
	SurfacePebblestone:       true,
	SurfaceGrassPaver:        true,
	SurfaceGrass:             true,
	SurfaceDirt:              true,
	SurfaceSand:              true,
	SurfaceRock:              true,
}

// ParseSurface validates s against the known surface values
func ParseSurface(s string) (Surface, error) {
	if !knownSurfaces[Surface(s)] {
		return "", fmt.Errorf("unknown surface %q", s)
	}
	return Surface(s), nil
}

// KnownSurfaces returns all known surface values, sorted
func KnownSurfaces() []string {
	values := make([]string, 0, len(knownSurfaces))
	for s := range knownSurfaces {
		values = append(values, string(s))
	}
	sort.Strings(values)
	return values
}
