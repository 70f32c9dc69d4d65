package coastline

import (
	"testing"

	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// chain builds a 1-D strip of tiles id 1..n, each linked to its
// immediate left/right neighbor, with groupings assigned by fn.
func chain(n int, fn func(i int) worldmap.Grouping) *worldmap.TileMap {
	tiles := make([]*worldmap.Tile, n)
	for i := 0; i < n; i++ {
		tiles[i] = &worldmap.Tile{ID: worldmap.TileID(i + 1), Grouping: fn(i)}
	}
	for i := 0; i < n; i++ {
		var neighbors []worldmap.NeighborAndBearing
		if i > 0 {
			neighbors = append(neighbors, worldmap.NeighborAndBearing{Neighbor: worldmap.TileNeighbor(tiles[i-1].ID)})
		}
		if i < n-1 {
			neighbors = append(neighbors, worldmap.NeighborAndBearing{Neighbor: worldmap.TileNeighbor(tiles[i+1].ID)})
		}
		tiles[i].Neighbors = neighbors
	}
	return worldmap.NewTileMap(tiles)
}

func TestClassifyAssignsSignedShoreDistanceAlongAChain(t *testing.T) {
	// ocean, ocean, land, land, land, land, ocean
	groupings := []worldmap.Grouping{
		worldmap.GroupingOcean, worldmap.GroupingOcean,
		worldmap.GroupingContinent, worldmap.GroupingContinent,
		worldmap.GroupingContinent, worldmap.GroupingContinent,
		worldmap.GroupingOcean,
	}
	m := chain(len(groupings), func(i int) worldmap.Grouping { return groupings[i] })

	Classify(m, progress.Noop{})

	want := map[worldmap.TileID]int{
		1: -2, 2: -1, 3: 1, 4: 2, 5: 2, 6: 1, 7: -1,
	}
	for id, wantDist := range want {
		tile, err := m.Get(id)
		if err != nil {
			t.Fatalf("tile %d: %v", id, err)
		}
		if tile.ShoreDistance != wantDist {
			t.Errorf("tile %d: got ShoreDistance %d, want %d", id, tile.ShoreDistance, wantDist)
		}
	}
}

func TestClassifyReclassifiesSmallLandmassAsIslet(t *testing.T) {
	// ocean, land, land, ocean — a 2-tile landmass, well under isletMax.
	groupings := []worldmap.Grouping{
		worldmap.GroupingOcean, worldmap.GroupingContinent,
		worldmap.GroupingContinent, worldmap.GroupingOcean,
	}
	m := chain(len(groupings), func(i int) worldmap.Grouping { return groupings[i] })

	Classify(m, progress.Noop{})

	for _, id := range []worldmap.TileID{2, 3} {
		tile, err := m.Get(id)
		if err != nil {
			t.Fatalf("tile %d: %v", id, err)
		}
		if tile.Grouping != worldmap.GroupingIslet {
			t.Errorf("tile %d: got Grouping %q, want Islet", id, tile.Grouping)
		}
	}
}

func TestClassifyLeavesLargeLandmassAsContinent(t *testing.T) {
	n := 40
	m := chain(n, func(i int) worldmap.Grouping {
		if i == 0 || i == n-1 {
			return worldmap.GroupingOcean
		}
		return worldmap.GroupingContinent
	})

	Classify(m, progress.Noop{})

	mid, err := m.Get(worldmap.TileID(n / 2))
	if err != nil {
		t.Fatal(err)
	}
	if mid.Grouping != worldmap.GroupingContinent {
		t.Errorf("got Grouping %q, want Continent", mid.Grouping)
	}
}

func TestClassifyTagsLandBorderingOnlyLakeAsLakeIsland(t *testing.T) {
	// lake, land, land, lake — land touches lake water on both sides, no ocean.
	groupings := []worldmap.Grouping{
		worldmap.GroupingLake, worldmap.GroupingContinent,
		worldmap.GroupingContinent, worldmap.GroupingLake,
	}
	m := chain(len(groupings), func(i int) worldmap.Grouping { return groupings[i] })

	Classify(m, progress.Noop{})

	for _, id := range []worldmap.TileID{2, 3} {
		tile, err := m.Get(id)
		if err != nil {
			t.Fatalf("tile %d: %v", id, err)
		}
		if tile.Grouping != worldmap.GroupingLakeIsland {
			t.Errorf("tile %d: got Grouping %q, want LakeIsland", id, tile.Grouping)
		}
	}
}
