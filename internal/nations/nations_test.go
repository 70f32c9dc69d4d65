package nations

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

func chainMap(n int) *worldmap.TileMap {
	tiles := make([]*worldmap.Tile, n)
	for i := 0; i < n; i++ {
		tiles[i] = &worldmap.Tile{
			ID:            worldmap.TileID(i + 1),
			Site:          orb.Point{float64(i), 0},
			Grouping:      worldmap.GroupingContinent,
			Population:    10,
			Habitability:  50,
			ShoreDistance: 5,
		}
		var neighbors []worldmap.NeighborAndBearing
		if i > 0 {
			neighbors = append(neighbors, worldmap.NeighborAndBearing{Neighbor: worldmap.TileNeighbor(worldmap.TileID(i)), Bearing: 270})
		}
		if i+1 < n {
			neighbors = append(neighbors, worldmap.NeighborAndBearing{Neighbor: worldmap.TileNeighbor(worldmap.TileID(i + 2)), Bearing: 90})
		}
		tiles[i].Neighbors = neighbors
	}
	return worldmap.NewTileMap(tiles)
}

func TestGenerateFoundsOneNationPerCapital(t *testing.T) {
	m := chainMap(30)
	towns := []*worldmap.Town{
		{ID: 1, Tile: 1, IsCapital: true, Culture: 1},
		{ID: 2, Tile: 20, IsCapital: true, Culture: 2},
		{ID: 3, Tile: 10, IsCapital: false, Culture: 1},
	}
	namers := naming.NewNamerSet()
	namers.AddSource(naming.NamerSource{
		Name:         "generic",
		MarkovConfig: naming.MarkovConfig{MinLen: 4, CutoffLen: 10, SeedWords: []string{"anora", "corwin", "dalmoria"}},
		StateSuffix:  naming.StateSuffixBehavior{Kind: naming.SuffixDefault},
	})
	rng := rand.New(rand.NewSource(5))

	result := Generate(m, towns, map[worldmap.BiomeID]*worldmap.Biome{}, namers,
		func(worldmap.CultureID) (CultureInfo, bool) { return CultureInfo{Namer: "generic", Type: worldmap.CultureGeneric}, true },
		Options{SizeVariance: 1, RiverThreshold: 10, LimitFactor: 1, DefaultNamer: "generic"},
		rng, progress.Noop{})

	if len(result) != 2 {
		t.Fatalf("expected 2 nations, got %d", len(result))
	}
	claimed := 0
	m.Each(func(t *worldmap.Tile) {
		if t.NationID != 0 {
			claimed++
		}
	})
	if claimed == 0 {
		t.Fatalf("expected some tiles to be claimed by a nation")
	}
}
