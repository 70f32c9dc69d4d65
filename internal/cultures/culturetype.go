// Package cultures implements stage 13: placing culture centers on the
// most habitable, well-spaced tiles, classifying each by culture type,
// and growing their territory with the shared expansion engine.
// Grounded on the reference implementation's algorithms/cultures.rs.
package cultures

import (
	"math/rand"

	"github.com/worldforge/atlas/internal/worldmap"
)

// classifyType ports get_culture_type's decision tree exactly:
// nomadic/highland first by elevation and biome support, then lake or
// naval by water adjacency, then river, hunting, or generic by flow
// and shore distance.
func classifyType(t *worldmap.Tile, m *worldmap.TileMap, lakes *worldmap.LakeIndex, biome *worldmap.Biome, riverThreshold float64, rng *rand.Rand) worldmap.CultureType {
	if t.ElevationScaled < 70 && biome != nil && biome.SupportsNomadic {
		return worldmap.CultureNomadic
	}
	if t.ElevationScaled > 50 {
		return worldmap.CultureHighland
	}

	waterCount, lakeNeighborID := waterNeighbors(t, m)
	if waterCount > 0 {
		if lakeNeighborID != 0 {
			if lake, err := lakes.Get(lakeNeighborID); err == nil && float64(len(lake.ContainedTiles)) > 5 {
				return worldmap.CultureLake
			}
		}

		onOceanCoast := lakeNeighborID == 0 && rng.Float64() < 0.1
		goodHarbor := waterCount == 1 && rng.Float64() < 0.6
		smallIsland := t.Grouping == worldmap.GroupingIslet && rng.Float64() < 0.4
		if onOceanCoast || goodHarbor || smallIsland {
			return worldmap.CultureNaval
		}
	}

	switch {
	case t.WaterFlow > riverThreshold:
		return worldmap.CultureRiver
	case t.ShoreDistance > 2 && biome != nil && biome.SupportsHunting:
		return worldmap.CultureHunting
	default:
		return worldmap.CultureGeneric
	}
}

// waterNeighbors counts adjacent water (tile-kind) neighbors and
// returns the lake id of the first lake neighbor found, if any.
func waterNeighbors(t *worldmap.Tile, m *worldmap.TileMap) (count int, lakeID worldmap.LakeID) {
	for _, n := range t.Neighbors {
		if n.Neighbor.Kind != worldmap.NeighborTile {
			continue
		}
		neighbor, err := m.Get(worldmap.TileID(n.Neighbor.ID))
		if err != nil {
			continue
		}
		if !neighbor.Grouping.IsWater() {
			continue
		}
		count++
		if neighbor.Grouping == worldmap.GroupingLake && lakeID == 0 {
			lakeID = neighbor.LakeID
		}
	}
	return count, lakeID
}

// generateExpansionism ports CultureType::generate_expansionism: a
// per-type base multiplier scaled by a random size-variance factor.
func generateExpansionism(t worldmap.CultureType, rng *rand.Rand, sizeVariance float64) float64 {
	base := map[worldmap.CultureType]float64{
		worldmap.CultureLake:     0.8,
		worldmap.CultureNaval:    1.5,
		worldmap.CultureRiver:    0.9,
		worldmap.CultureNomadic:  1.5,
		worldmap.CultureHunting:  0.7,
		worldmap.CultureHighland: 1.2,
		worldmap.CultureGeneric:  1.0,
	}[t]
	return ((rng.Float64() * sizeVariance / 2.0) + 1.0) * base
}
