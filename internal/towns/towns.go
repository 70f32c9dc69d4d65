// Package towns implements stage 14: scoring habitable tiles for
// capital- and town-worthiness, placing spaced-out settlements, and
// naming them through each tile's culture namer. Grounded on the
// reference implementation's algorithms/civilization.rs
// (generate_towns/place_towns/generate_capitals/gather_tiles_for_towns).
package towns

import (
	"math"
	"math/rand"
	"sort"

	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// scoredTile carries a tile's two independent site-worthiness scores:
// capital_score favors the most habitable tiles outright, town_score
// spreads a wider, noisier net so mid-habitability tiles still have a
// shot at becoming a town.
type scoredTile struct {
	tile         *worldmap.Tile
	capitalScore float64
	townScore    float64
}

// Options configures placement and naming.
type Options struct {
	CapitalCount int
	TownCount    int // 0 means auto-derive from populated tile count, as the reference implementation does
	MapWidth     float64
	MapHeight    float64
	DefaultNamer string
}

// CultureLookup resolves a culture's namer language; ok is false when
// the tile has no assigned culture or the culture is unknown.
type CultureLookup func(c worldmap.CultureID) (namer string, ok bool)

func gatherScored(m *worldmap.TileMap, rng *rand.Rand) []scoredTile {
	var out []scoredTile
	m.Each(func(t *worldmap.Tile) {
		if t.Habitability <= 0 {
			return
		}
		capitalScore := t.Habitability * (0.5 + rng.Float64()*0.5)
		townScore := clamp(t.Habitability*(1.0+rng.NormFloat64()*3.0), 0, 20)
		if capitalScore > 0 || townScore > 0 {
			out = append(out, scoredTile{tile: t, capitalScore: capitalScore, townScore: townScore})
		}
	})
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dist(a, b *worldmap.Tile) float64 {
	dx := a.Site[0] - b.Site[0]
	dy := a.Site[1] - b.Site[1]
	return dx*dx + dy*dy // squared; callers compare against spacing^2
}

func within(sites []*worldmap.Tile, candidate *worldmap.Tile, spacing float64) bool {
	sp2 := spacing * spacing
	for _, s := range sites {
		if dist(s, candidate) < sp2 {
			return true
		}
	}
	return false
}

const maxSpacingRounds = 40

// placeCapitals ports generate_capitals: sort by capital_score
// descending, greedily take the top tile that clears the current
// spacing from every already-placed capital, shrinking spacing by a
// factor of 1/1.2 whenever a full pass can't place enough.
func placeCapitals(tiles []scoredTile, count int, width, height float64) (capitals []scoredTile, remaining []scoredTile) {
	if count > len(tiles) {
		if len(tiles) < count*10 {
			count = len(tiles) / 10
		}
	}
	if count <= 0 {
		return nil, tiles
	}

	spacing := (width + height) / 2 / float64(count)
	pool := append([]scoredTile(nil), tiles...)

	for round := 0; round < maxSpacingRounds; round++ {
		sort.Slice(pool, func(i, j int) bool { return pool[i].capitalScore > pool[j].capitalScore })
		var placed []scoredTile
		var placedSites []*worldmap.Tile
		var left []scoredTile
		for _, st := range pool {
			if len(placed) < count && !within(placedSites, st.tile, spacing) {
				placed = append(placed, st)
				placedSites = append(placedSites, st.tile)
			} else {
				left = append(left, st)
			}
		}
		if len(placed) >= count {
			return placed, left
		}
		pool = append(placed, left...)
		spacing /= 1.2
	}
	return pool[:min(count, len(pool))], pool[min(count, len(pool)):]
}

// placeTowns ports place_towns: same greedy spaced-placement idea,
// but spacing is perturbed per-candidate by a noisy factor (so towns
// don't form an unnaturally regular grid) and capital sites also
// count as exclusion points.
func placeTowns(tiles []scoredTile, capitalSites []*worldmap.Tile, count int, width, height float64, rng *rand.Rand) []scoredTile {
	if count > len(tiles) {
		count = len(tiles)
	}
	if count <= 0 {
		return nil
	}

	spacing := (width + height) / 150 / (pow(float64(count), 0.7) / 66)
	pool := append([]scoredTile(nil), tiles...)

	for round := 0; round < maxSpacingRounds; round++ {
		sort.Slice(pool, func(i, j int) bool { return pool[i].townScore > pool[j].townScore })
		placedSites := append([]*worldmap.Tile(nil), capitalSites...)
		var placed []scoredTile
		var left []scoredTile
		for _, st := range pool {
			s := spacing * clamp(1.0+rng.NormFloat64()*0.3, 0.2, 2.0)
			if len(placed) < count && !within(placedSites, st.tile, s) {
				placed = append(placed, st)
				placedSites = append(placedSites, st.tile)
			} else {
				left = append(left, st)
			}
		}
		if len(placed) >= count {
			return placed
		}
		pool = append(placed, left...)
		spacing /= 2
		if spacing <= 1 {
			return placed
		}
	}
	return pool[:min(count, len(pool))]
}

func pow(x, y float64) float64 { return math.Pow(x, y) }

// Generate places capitals then ordinary towns, names each through
// its tile's culture namer (falling back to DefaultNamer), and
// assigns worldmap.Tile.TownID across the map.
func Generate(m *worldmap.TileMap, namers *naming.NamerSet, lookup CultureLookup, opts Options, rng *rand.Rand, obs progress.Observer) []*worldmap.Town {
	scored := gatherScored(m, rng)
	if len(scored) == 0 {
		obs.Warning("no habitable tiles available to place towns")
		return nil
	}

	capitals, remaining := placeCapitals(scored, opts.CapitalCount, opts.MapWidth, opts.MapHeight)

	townCount := opts.TownCount
	if townCount == 0 {
		townCount = len(remaining) / 5
	}
	var capitalSites []*worldmap.Tile
	for _, c := range capitals {
		capitalSites = append(capitalSites, c.tile)
	}
	townTiles := placeTowns(remaining, capitalSites, townCount, opts.MapWidth, opts.MapHeight, rng)

	obs.StartKnown("Naming towns", len(capitals)+len(townTiles))
	var result []*worldmap.Town
	id := worldmap.TownID(1)

	place := func(st scoredTile, capital bool) {
		namerName, ok := lookup(st.tile.Culture)
		if !ok {
			namerName = opts.DefaultNamer
		}
		namer, err := namers.Prepare(namerName)
		var name string
		if err == nil {
			name = namer.MakeName(rng)
		}
		town := &worldmap.Town{
			ID:         id,
			Name:       name,
			Culture:    st.tile.Culture,
			IsCapital:  capital,
			Tile:       st.tile.ID,
			Grouping:   st.tile.Grouping,
			Population: st.tile.Population,
			IsPort:     st.tile.ShoreDistance == 1,
		}
		st.tile.TownID = id
		result = append(result, town)
		id++
		obs.Update(len(result))
	}

	for _, c := range capitals {
		place(c, true)
	}
	for _, t := range townTiles {
		place(t, false)
	}
	obs.Finish()

	return result
}
