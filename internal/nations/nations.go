// Package nations implements stage 15: one nation per capital town,
// named and typed through its founding culture, grown over the map
// with the shared expansion engine including the population and
// same-culture affinity cost terms. Grounded on the reference
// implementation's algorithms/civilization.rs
// (generate_nations/expand_nations).
package nations

import (
	"math/rand"

	"github.com/worldforge/atlas/internal/expansion"
	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/palette"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// CultureInfo is the subset of a culture's record nations need: its
// namer language and culture type (inherited by the nation it founds).
type CultureInfo struct {
	Namer string
	Type  worldmap.CultureType
}

// CultureLookup resolves a culture by id; ok is false for an unset or
// unknown culture.
type CultureLookup func(c worldmap.CultureID) (CultureInfo, bool)

// Options configures naming and expansion.
type Options struct {
	SizeVariance   float64
	RiverThreshold float64
	LimitFactor    float64
	DefaultNamer   string
}

// Generate creates one nation per capital town, then floods territory
// outward from each nation's capital tile with population and
// culture-affinity costs active, finally assigning
// worldmap.Tile.NationID across the map.
func Generate(m *worldmap.TileMap, towns []*worldmap.Town, biomes map[worldmap.BiomeID]*worldmap.Biome, namers *naming.NamerSet, lookup CultureLookup, opts Options, rng *rand.Rand, obs progress.Observer) []*worldmap.Nation {
	var capitals []*worldmap.Town
	for _, t := range towns {
		if t.IsCapital {
			capitals = append(capitals, t)
		}
	}
	if len(capitals) == 0 {
		obs.Warning("no capitals available to found nations")
		return nil
	}

	obs.StartKnown("Founding nations", len(capitals))
	colors := palette.Generate(len(capitals))
	nations := make([]*worldmap.Nation, 0, len(capitals))

	for i, capital := range capitals {
		info, _ := lookup(capital.Culture)
		namerName := info.Namer
		if namerName == "" {
			namerName = opts.DefaultNamer
		}
		var name string
		if namer, err := namers.Prepare(namerName); err == nil {
			name = namer.MakeStateName(rng)
		}

		ct := info.Type
		if ct == "" {
			ct = worldmap.CultureGeneric
		}
		expansionism := (rng.Float64()*0.9+0.1)*opts.SizeVariance + 1.0

		nations = append(nations, &worldmap.Nation{
			ID:           worldmap.NationID(i + 1),
			Name:         name,
			Culture:      capital.Culture,
			Center:       capital.Tile,
			Type:         ct,
			Expansionism: expansionism,
			Capital:      capital.ID,
			Color:        colors[i],
		})
		obs.Update(i + 1)
	}
	obs.Finish()

	seeds := make([]expansion.Seed, 0, len(nations))
	for _, n := range nations {
		seeds = append(seeds, expansion.Seed{
			Owner:        int64(n.ID),
			Tile:         n.Center,
			Type:         n.Type,
			Expansionism: n.Expansionism,
			NativeBiome:  biomeName(biomes, m, n.Center),
			Culture:      n.Culture,
		})
	}
	result := expansion.Expand(m, seeds, biomes, expansion.Options{
		RiverThreshold:  opts.RiverThreshold,
		PopulationCost:  true,
		CultureAffinity: true,
		TileCount:       m.Len(),
		LimitFactor:     opts.LimitFactor,
	})

	for tid, owner := range result.Owner {
		t, err := m.Get(tid)
		if err != nil || t.Grouping.IsOcean() {
			continue
		}
		t.NationID = worldmap.NationID(owner)
	}

	return nations
}

func biomeName(biomes map[worldmap.BiomeID]*worldmap.Biome, m *worldmap.TileMap, tile worldmap.TileID) string {
	t, err := m.Get(tile)
	if err != nil {
		return ""
	}
	if b, ok := biomes[t.Biome]; ok {
		return b.Name
	}
	return ""
}
