// Package population implements stage 12: deriving habitability and
// population from each tile's biome, water/shore state, and area
// (§4, table row 12). The reference implementation's population
// generator itself was not present in the retrieved source; this is
// built from its consumers (civilization.rs's expansion cost, which
// treats habitability as a 0-100 value and water tiles as
// unconditionally uninhabitable) plus the spec's declared inputs.
package population

import (
	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// shoreBonus and riverBonus reward coastal and river tiles, the two
// non-biome factors civilization.rs's cost function treats specially
// (shore/river costs are cheaper for most culture types).
const (
	shoreBonus = 15.0
	riverBonus = 5.0
)

// Habitability assigns every tile a 0-100 habitability score: zero
// for water, otherwise its biome's base habitability plus coastal and
// river bonuses, clamped to 100.
func Habitability(m *worldmap.TileMap, biomes map[worldmap.BiomeID]*worldmap.Biome, obs progress.Observer) {
	obs.StartKnown("Scoring habitability", m.Len())
	i := 0
	m.Each(func(t *worldmap.Tile) {
		t.Habitability = habitabilityFor(t, biomes)
		i++
		obs.Update(i)
	})
	obs.Finish()
}

func habitabilityFor(t *worldmap.Tile, biomes map[worldmap.BiomeID]*worldmap.Biome) float64 {
	if t.Grouping.IsWater() {
		return 0
	}
	biome, ok := biomes[t.Biome]
	if !ok || biome.Habitability <= 0 {
		return 0
	}

	score := biome.Habitability
	if t.ShoreDistance == 1 {
		score += shoreBonus
	}
	if len(t.Rivers) > 0 {
		score += riverBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Populate derives each tile's population from its habitability and
// area once Habitability has run.
func Populate(m *worldmap.TileMap, cfg config.PopulationConfig, obs progress.Observer) {
	obs.StartKnown("Estimating population", m.Len())
	i := 0
	m.Each(func(t *worldmap.Tile) {
		if t.Habitability <= 0 {
			t.Population = 0
		} else {
			t.Population = t.Habitability * t.Area * cfg.DensityFactor
		}
		i++
		obs.Update(i)
	})
	obs.Finish()
}
