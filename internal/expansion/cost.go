// Package expansion implements the reusable Dijkstra-like flood used
// by cultures, nations, and subnations to grow territory outward from
// seed tiles (§4.5). The cost functions are read verbatim from the
// reference implementation's get_biome_cost/get_height_cost/
// get_river_cost/get_shore_cost (cultures.rs and civilization.rs carry
// near-identical copies; this package keeps a single shared version).
package expansion

import "github.com/worldforge/atlas/internal/worldmap"

var forestBiomes = map[string]bool{
	"Tropical seasonal forest":   true,
	"Temperate deciduous forest": true,
	"Tropical rainforest":        true,
	"Temperate rainforest":       true,
	"Taiga":                      true,
}

// biomeCost penalizes a neighbor whose biome differs from the seed's
// native biome; the penalty scales by the neighbor's movement_cost and
// a per-culture-type multiplier.
func biomeCost(seedBiome string, neighborBiome *worldmap.Biome, t worldmap.CultureType) float64 {
	if neighborBiome == nil {
		return 0
	}
	if seedBiome == neighborBiome.Name {
		return 10
	}
	switch t {
	case worldmap.CultureHunting:
		return neighborBiome.MovementCost * 5
	case worldmap.CultureNomadic:
		if forestBiomes[neighborBiome.Name] {
			return neighborBiome.MovementCost * 10
		}
		return neighborBiome.MovementCost * 2
	default:
		return neighborBiome.MovementCost * 2
	}
}

// heightCost penalizes crossing water, mountains, and hills, with
// Highland cultures inverting the lowland/highland preference.
func heightCost(n *worldmap.Tile, t worldmap.CultureType) float64 {
	switch t {
	case worldmap.CultureLake:
		switch {
		case n.HasLake():
			return 10
		case n.Grouping.IsWater():
			return n.Area * 6
		case n.ElevationScaled >= 67:
			return 200
		case n.ElevationScaled > 44:
			return 30
		default:
			return 0
		}
	case worldmap.CultureNaval:
		switch {
		case n.Grouping.IsWater():
			return n.Area * 2
		case n.ElevationScaled >= 67:
			return 200
		case n.ElevationScaled > 44:
			return 30
		default:
			return 0
		}
	case worldmap.CultureNomadic:
		switch {
		case n.Grouping.IsWater():
			return n.Area * 50
		case n.ElevationScaled >= 67:
			return 200
		case n.ElevationScaled > 44:
			return 30
		default:
			return 0
		}
	case worldmap.CultureHighland:
		switch {
		case n.Grouping.IsWater():
			return n.Area * 6
		case n.ElevationScaled < 44:
			return 3000
		case n.ElevationScaled < 62:
			return 200
		default:
			return 0
		}
	default: // Generic, River, Hunting
		switch {
		case n.Grouping.IsWater():
			return n.Area * 6
		case n.ElevationScaled >= 67:
			return 200
		case n.ElevationScaled > 44:
			return 30
		default:
			return 0
		}
	}
}

// riverCost penalizes River cultures for straying off a river, and
// other cultures for crossing a heavily-flowing one.
func riverCost(n *worldmap.Tile, riverThreshold float64, t worldmap.CultureType) float64 {
	if t == worldmap.CultureRiver {
		if n.WaterFlow > riverThreshold {
			return 0
		}
		return 100
	}
	if n.WaterFlow <= riverThreshold {
		return 0
	}
	cost := n.WaterFlow / 10
	if cost < 20 {
		cost = 20
	}
	if cost > 100 {
		cost = 100
	}
	return cost
}

// shoreCost rewards or penalizes proximity to shore depending on
// culture type: Lake and Naval cultures favor it, Nomadic avoids it,
// Generic pays a small coastal penalty.
func shoreCost(n *worldmap.Tile, t worldmap.CultureType) float64 {
	switch t {
	case worldmap.CultureLake:
		switch n.ShoreDistance {
		case 1, 2, -1:
			return 0
		default:
			return 100
		}
	case worldmap.CultureNaval:
		switch n.ShoreDistance {
		case 1, -1:
			return 0
		case 2:
			return 30
		default:
			return 100
		}
	case worldmap.CultureNomadic:
		switch n.ShoreDistance {
		case 1:
			return 60
		case 2:
			return 30
		default:
			return 0
		}
	default:
		switch n.ShoreDistance {
		case 1:
			return 20
		default:
			return 0
		}
	}
}

// cultureCost rewards a nation expanding into its founding culture's
// own tiles and penalizes expanding into a different one, exactly
// mirroring expand_nations's inline culture_cost term.
func cultureCost(seedCulture, neighborCulture worldmap.CultureID) float64 {
	if seedCulture == neighborCulture {
		return -9
	}
	return 100
}

// populationCost is the nation-only component: cheap on habitable
// land, free on water (nations don't avoid their own coastline the
// way cultures do), and prohibitive on uninhabitable land.
func populationCost(n *worldmap.Tile) float64 {
	if n.Grouping.IsWater() {
		return 0
	}
	if n.Habitability > 0 {
		cost := 20 - n.Habitability
		if cost < 0 {
			return 0
		}
		return cost
	}
	return 5000
}
