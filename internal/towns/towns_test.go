package towns

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

func gridMap(n int) *worldmap.TileMap {
	tiles := make([]*worldmap.Tile, n)
	for i := 0; i < n; i++ {
		tiles[i] = &worldmap.Tile{
			ID:            worldmap.TileID(i + 1),
			Site:          orb.Point{float64(i % 10), float64(i / 10)},
			Habitability:  40,
			Population:    5,
			ShoreDistance: 5,
			Grouping:      worldmap.GroupingContinent,
		}
	}
	return worldmap.NewTileMap(tiles)
}

func testNamers() *naming.NamerSet {
	set := naming.NewNamerSet()
	set.AddSource(naming.NamerSource{
		Name: "generic",
		MarkovConfig: naming.MarkovConfig{
			MinLen:    4,
			CutoffLen: 10,
			SeedWords: []string{"anora", "bethel", "corwin", "dalmoria"},
		},
	})
	return set
}

func TestGeneratePlacesCapitalsAndTowns(t *testing.T) {
	m := gridMap(100)
	namers := testNamers()
	rng := rand.New(rand.NewSource(11))

	result := Generate(m, namers, func(worldmap.CultureID) (string, bool) { return "", false }, Options{
		CapitalCount: 3,
		MapWidth:     10,
		MapHeight:    10,
		DefaultNamer: "generic",
	}, rng, progress.Noop{})

	if len(result) == 0 {
		t.Fatalf("expected at least one settlement")
	}
	capitals := 0
	for _, town := range result {
		if town.IsCapital {
			capitals++
		}
		if town.Name == "" {
			t.Fatalf("expected every town to have a name")
		}
	}
	if capitals == 0 {
		t.Fatalf("expected at least one capital")
	}
}
