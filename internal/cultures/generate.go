package cultures

import (
	"math"
	"math/rand"
	"sort"

	"github.com/worldforge/atlas/internal/expansion"
	"github.com/worldforge/atlas/internal/palette"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// Source is one entry from a curated culture name set (e.g. "Roman",
// "Keltic"), pairing a display name with the namer language it draws
// settlement/state names from. The reference implementation's
// CultureSet carries a per-source terrain preference weighting (the
// "preferences" scoring used to sort candidate tiles); that weighting
// table was not present in the retrieved source, so center placement
// here is biased by habitability alone rather than per-source terrain
// affinity — documented as a simplification.
type Source struct {
	Name  string
	Namer string
}

// Options configures placement and expansion.
type Options struct {
	Count          int
	SizeVariance   float64
	RiverThreshold float64
	LimitFactor    float64
	MapWidth       float64
	MapHeight      float64

	// BiasPower steepens the preference toward top-ranked tiles when
	// picking a center candidate; the reference implementation's
	// choose_biased_index uses 5.
	BiasPower float64
}

const maxPlacementAttempts = 100

// Generate places up to opts.Count culture centers (at most one per
// source, and at most one per 25 culturable tiles), classifies each
// one's type, grows its territory with the shared expansion engine, and
// assigns worldmap.Tile.Culture across the map.
func Generate(m *worldmap.TileMap, lakes *worldmap.LakeIndex, biomes map[worldmap.BiomeID]*worldmap.Biome, sources []Source, opts Options, rng *rand.Rand, obs progress.Observer) []*worldmap.Culture {
	if opts.BiasPower <= 0 {
		opts.BiasPower = 5
	}

	populated := culturableTiles(m)
	count := opts.Count
	if count > len(sources) {
		count = len(sources)
	}
	if populated != nil && count*25 > len(populated) {
		count = len(populated) / 25
	}
	if count <= 0 {
		obs.Warning("not enough habitable tiles to support any cultures")
		return nil
	}

	sort.Slice(populated, func(i, j int) bool {
		return populated[i].Habitability > populated[j].Habitability
	})

	spacing := (opts.MapWidth + opts.MapHeight) / 2 / float64(count)
	maxChoice := len(populated) / 2
	if maxChoice < 1 {
		maxChoice = len(populated)
	}

	obs.StartKnown("Placing culture centers", count)

	var placedSites []worldmap.TileID
	cultures := make([]*worldmap.Culture, 0, count)
	names := map[string][]int{}
	colors := palette.Generate(count)

	for i := 0; i < count; i++ {
		src := sources[i%len(sources)]

		curSpacing := spacing
		var center *worldmap.Tile
		for attempt := 0; ; attempt++ {
			if len(populated) == 0 {
				break
			}
			idx := chooseBiasedIndex(rng, len(populated), maxChoice, opts.BiasPower)
			candidate := populated[idx]
			if attempt > maxPlacementAttempts || !tooClose(m, placedSites, candidate.ID, curSpacing) {
				center = candidate
				populated = append(populated[:idx], populated[idx+1:]...)
				break
			}
			curSpacing *= 0.9
		}
		if center == nil {
			break
		}
		placedSites = append(placedSites, center.ID)

		ct := classifyType(center, m, lakes, biomes[center.Biome], opts.RiverThreshold, rng)
		expansionism := generateExpansionism(ct, rng, opts.SizeVariance)

		cultures = append(cultures, &worldmap.Culture{
			ID:           worldmap.CultureID(i + 1),
			Name:         src.Name,
			Namer:        src.Namer,
			Type:         ct,
			Expansionism: expansionism,
			Center:       center.ID,
			Color:        colors[i],
		})
		names[src.Name] = append(names[src.Name], i)
		obs.Update(i + 1)
	}
	obs.Finish()

	for _, indexes := range names {
		if len(indexes) < 2 {
			continue
		}
		for suffix, idx := range indexes {
			cultures[idx].Name += " " + toRoman(suffix+1)
		}
	}

	seeds := make([]expansion.Seed, 0, len(cultures))
	for _, c := range cultures {
		seeds = append(seeds, expansion.Seed{
			Owner:        int64(c.ID),
			Tile:         c.Center,
			Type:         c.Type,
			Expansionism: c.Expansionism,
			NativeBiome:  biomeName(biomes, m, c.Center),
		})
	}
	result := expansion.Expand(m, seeds, biomes, expansion.Options{
		RiverThreshold: opts.RiverThreshold,
		PopulationCost: false,
		TileCount:      m.Len(),
		LimitFactor:    opts.LimitFactor,
	})

	for tid, owner := range result.Owner {
		t, err := m.Get(tid)
		if err != nil || t.Population <= 0 {
			continue // the tile still counted toward the flood, it just can't host a culture
		}
		t.Culture = worldmap.CultureID(owner)
	}

	return cultures
}

func culturableTiles(m *worldmap.TileMap) []*worldmap.Tile {
	var out []*worldmap.Tile
	m.Each(func(t *worldmap.Tile) {
		if t.Population > 0 {
			out = append(out, t)
		}
	})
	return out
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

// chooseBiasedIndex picks a random index in [0,n), biased toward the
// front of the slice (the most-preferred candidates) by raising a
// uniform draw to biasPower before scaling it across [0,limit).
func chooseBiasedIndex(rng *rand.Rand, n, limit int, biasPower float64) int {
	if limit <= 0 || limit > n {
		limit = n
	}
	idx := int(math.Pow(rng.Float64(), biasPower) * float64(limit))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// tooClose reports whether candidate lies within spacing of any
// already-placed center.
func tooClose(m *worldmap.TileMap, placed []worldmap.TileID, candidate worldmap.TileID, spacing float64) bool {
	c, err := m.Get(candidate)
	if err != nil {
		return false
	}
	for _, p := range placed {
		pt, err := m.Get(p)
		if err != nil {
			continue
		}
		dx := c.Site[0] - pt.Site[0]
		dy := c.Site[1] - pt.Site[1]
		if math.Sqrt(dx*dx+dy*dy) < spacing {
			return true
		}
	}
	return false
}
