package subnations

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

func chainMap(n int, nation worldmap.NationID) *worldmap.TileMap {
	tiles := make([]*worldmap.Tile, n)
	for i := 0; i < n; i++ {
		tiles[i] = &worldmap.Tile{
			ID:              worldmap.TileID(i + 1),
			Site:            orb.Point{float64(i), 0},
			Grouping:        worldmap.GroupingContinent,
			Population:      10,
			Habitability:    50,
			ShoreDistance:   5,
			ElevationScaled: 40,
			NationID:        nation,
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

func testNamerSet() *naming.NamerSet {
	set := naming.NewNamerSet()
	set.AddSource(naming.NamerSource{
		Name: "generic",
		MarkovConfig: naming.MarkovConfig{
			MinLen:    4,
			CutoffLen: 10,
			SeedWords: []string{"anora", "bethel", "corwin", "dalmoria"},
		},
		StateSuffix: naming.StateSuffixBehavior{Kind: naming.SuffixDefault},
	})
	return set
}

func lookupGeneric(worldmap.CultureID) (CultureInfo, bool) {
	return CultureInfo{Namer: "generic", Type: worldmap.CultureGeneric}, true
}

func TestGenerateSeedsAtLeastTwoSubnationsPerEligibleNation(t *testing.T) {
	m := chainMap(20, 1)
	towns := []*worldmap.Town{
		{ID: 1, Tile: 1, Name: "Anora", IsCapital: true, Population: 30},
		{ID: 2, Tile: 5, Name: "Bethel", Population: 20},
		{ID: 3, Tile: 10, Name: "Corwin", Population: 10},
	}
	nations := []*worldmap.Nation{{ID: 1, Color: "#abcdef"}}
	namers := testNamerSet()
	rng := rand.New(rand.NewSource(7))

	subs := Generate(m, towns, nations, namers, lookupGeneric, Options{Percentage: 100, DefaultNamer: "generic"}, rng, progress.Noop{})

	if len(subs) < 2 {
		t.Fatalf("expected at least 2 subnations, got %d", len(subs))
	}
	for _, s := range subs {
		if s.Name == "" {
			t.Fatalf("expected every subnation to have a name")
		}
		if s.Nation != 1 {
			t.Fatalf("expected subnation to belong to nation 1, got %d", s.Nation)
		}
	}
}

func TestExpandClaimsTilesWithinTheOwningNation(t *testing.T) {
	m := chainMap(20, 1)
	subs := []*worldmap.Subnation{
		{ID: 1, Center: 1, Nation: 1},
		{ID: 2, Center: 15, Nation: 1},
	}
	rng := rand.New(rand.NewSource(3))

	Expand(m, subs, 100, rng, progress.Noop{})

	claimed := 0
	m.Each(func(t *worldmap.Tile) {
		if t.SubnationID != 0 {
			claimed++
		}
	})
	if claimed == 0 {
		t.Fatalf("expected some tiles to be claimed by a subnation")
	}
}

func TestFillEmptySeedsRemainingNationTiles(t *testing.T) {
	m := chainMap(10, 1)
	nations := []*worldmap.Nation{{ID: 1, Color: "#112233"}}
	towns := []*worldmap.Town{{ID: 1, Tile: 1, Name: "Anora"}}
	namers := testNamerSet()
	rng := rand.New(rand.NewSource(9))

	t1, _ := m.Get(1)
	t1.TownID = 1

	created := FillEmpty(m, nations, towns, namers, lookupGeneric, Options{Percentage: 100, DefaultNamer: "generic"}, rng, progress.Noop{})

	if len(created) == 0 {
		t.Fatalf("expected FillEmpty to seed at least one subnation")
	}
	unassigned := 0
	m.Each(func(t *worldmap.Tile) {
		if t.NationID != 0 && t.SubnationID == 0 {
			unassigned++
		}
	})
	if unassigned != 0 {
		t.Fatalf("expected every national tile to be covered, %d left unassigned", unassigned)
	}
}

func TestNormalizeLeavesTownTilesUntouched(t *testing.T) {
	m := chainMap(5, 1)
	for i := 1; i <= 5; i++ {
		tile, _ := m.Get(worldmap.TileID(i))
		if i <= 2 {
			tile.SubnationID = 1
		} else {
			tile.SubnationID = 2
		}
	}
	town, _ := m.Get(2)
	town.TownID = 1

	Normalize(m)

	after, _ := m.Get(2)
	if after.SubnationID != 1 {
		t.Fatalf("expected town tile's subnation to stay put, got %d", after.SubnationID)
	}
}
