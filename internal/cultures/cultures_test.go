package cultures

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

func lineMap(n int) *worldmap.TileMap {
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

func TestGeneratePlacesOneCulturePerSource(t *testing.T) {
	m := lineMap(50)
	lakes := worldmap.NewLakeIndex()
	biomes := map[worldmap.BiomeID]*worldmap.Biome{}
	sources := []Source{{Name: "Roman", Namer: "latin"}, {Name: "Frankish", Namer: "frankish"}}
	rng := rand.New(rand.NewSource(3))

	result := Generate(m, lakes, biomes, sources, Options{
		Count:          2,
		SizeVariance:   1,
		RiverThreshold: 10,
		LimitFactor:    1,
		MapWidth:       50,
		MapHeight:      1,
	}, rng, progress.Noop{})

	if len(result) != 2 {
		t.Fatalf("expected 2 cultures, got %d", len(result))
	}

	assigned := 0
	m.Each(func(t *worldmap.Tile) {
		if t.Culture != 0 {
			assigned++
		}
	})
	if assigned == 0 {
		t.Fatalf("expected some tiles to be claimed by a culture")
	}
}

func TestTooCloseRespectsSpacing(t *testing.T) {
	m := lineMap(5)
	if !tooClose(m, []worldmap.TileID{1}, 2, 5) {
		t.Fatalf("expected tile 2 to be too close to tile 1 at spacing 5")
	}
	if tooClose(m, []worldmap.TileID{1}, 5, 1) {
		t.Fatalf("expected tile 5 to clear spacing 1 from tile 1")
	}
}
