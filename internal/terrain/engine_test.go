package terrain

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

// gridMap builds an nx-by-ny rectangular grid of tiles spanning ext,
// wired to their 4-directional (N/E/S/W) neighbors. It mirrors the
// small hand-wired fixtures used elsewhere in the suite (see
// internal/hydrology's chainMap), scaled up to exercise the recipe
// engine's point-index lookups.
func gridMap(nx, ny int, ext geometry.Extent) (*worldmap.TileMap, map[[2]int]worldmap.TileID) {
	dx := ext.Width() / float64(nx)
	dy := ext.Height() / float64(ny)

	at := make(map[[2]int]worldmap.TileID, nx*ny)
	tiles := make([]*worldmap.Tile, 0, nx*ny)
	id := worldmap.TileID(1)
	for row := 0; row < ny; row++ {
		for col := 0; col < nx; col++ {
			x := ext.West + dx*(float64(col)+0.5)
			y := ext.South + dy*(float64(row)+0.5)
			tiles = append(tiles, &worldmap.Tile{
				ID:       id,
				Site:     orb.Point{x, y},
				Grouping: worldmap.GroupingContinent,
			})
			at[[2]int{col, row}] = id
			id++
		}
	}

	get := func(col, row int) (worldmap.TileID, bool) {
		if col < 0 || col >= nx || row < 0 || row >= ny {
			return 0, false
		}
		return at[[2]int{col, row}], true
	}

	for row := 0; row < ny; row++ {
		for col := 0; col < nx; col++ {
			t := tiles[row*nx+col]
			type step struct {
				dc, dr  int
				bearing float64
			}
			for _, s := range []step{{0, 1, 0}, {1, 0, 90}, {0, -1, 180}, {-1, 0, 270}} {
				if nid, ok := get(col+s.dc, row+s.dr); ok {
					t.Neighbors = append(t.Neighbors, worldmap.NeighborAndBearing{
						Neighbor: worldmap.TileNeighbor(nid),
						Bearing:  s.bearing,
					})
				}
			}
		}
	}

	return worldmap.NewTileMap(tiles), at
}

func newTestDriver(m *worldmap.TileMap, ext geometry.Extent, limits store.ElevationLimits) *Driver {
	p := NewParams(limits, ext, m.Len())
	return NewDriver(m, p, rand.New(rand.NewSource(1)), progress.Noop{}, nil, nil)
}

// TestAddHillProducesSingleLocalMaximum is E2E scenario #1 ("Tiny
// world", §8): a Clear followed by one AddHill must leave exactly one
// tile strictly higher than every one of its neighbors.
func TestAddHillProducesSingleLocalMaximum(t *testing.T) {
	ext := geometry.Extent{West: -180, South: -90, East: 180, North: 90}
	m, _ := gridMap(10, 10, ext)
	d := newTestDriver(m, ext, store.ElevationLimits{Min: -5000, Max: 5000})

	recipe := Recipe{
		{Kind: KindClear, Clear: &Clear{}},
		{Kind: KindAddHill, AddHill: &AddHill{
			Count:       SingleRange(1),
			HeightDelta: SingleRange(50),
			XFilter:     Range{Min: 40, Max: 60, Inclusive: true},
			YFilter:     Range{Min: 40, Max: 60, Inclusive: true},
		}},
	}
	if err := d.Run(recipe); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var peak *worldmap.Tile
	for _, tile := range m.Slice() {
		if peak == nil || tile.Elevation > peak.Elevation {
			peak = tile
		}
	}
	if peak == nil || peak.Elevation <= 0 {
		t.Fatalf("expected a positive peak, got %+v", peak)
	}
	for _, n := range peak.Neighbors {
		if n.Neighbor.Kind != worldmap.NeighborTile {
			continue
		}
		neighbor, err := m.Get(n.Neighbor.ID)
		if err != nil {
			t.Fatalf("Get neighbor: %v", err)
		}
		if neighbor.Elevation >= peak.Elevation {
			t.Fatalf("peak tile %d (elev %v) is not a strict local maximum: neighbor %d has elev %v",
				peak.ID, peak.Elevation, neighbor.ID, neighbor.Elevation)
		}
	}

	for _, tile := range m.Slice() {
		if tile.ID == peak.ID {
			continue
		}
		if tile.Elevation > peak.Elevation {
			t.Fatalf("tile %d (elev %v) exceeds the peak %d (elev %v)", tile.ID, tile.Elevation, peak.ID, peak.Elevation)
		}
	}

	maxima := 0
	for _, tile := range m.Slice() {
		highest := true
		for _, n := range tile.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			neighbor, err := m.Get(n.Neighbor.ID)
			if err != nil {
				t.Fatalf("Get neighbor: %v", err)
			}
			if neighbor.Elevation >= tile.Elevation {
				highest = false
				break
			}
		}
		if highest {
			maxima++
		}
	}
	if maxima != 1 {
		t.Fatalf("expected exactly one strict local maximum, found %d", maxima)
	}
}

// TestSeedOceanAndFloodOceanProduceContiguousOcean is E2E scenario #2
// ("Ocean seed + flood", §8): seeding an ocean tile in a connected
// sub-sea-level basin and flooding it must mark every tile in that
// basin Ocean, and nothing outside it.
func TestSeedOceanAndFloodOceanProduceContiguousOcean(t *testing.T) {
	ext := geometry.Extent{West: 0, South: 0, East: 100, North: 100}
	m, at := gridMap(5, 5, ext)
	d := newTestDriver(m, ext, store.ElevationLimits{Min: -100, Max: 100})

	// A five-tile plus-shaped basin around the grid's center (2,2),
	// connected and entirely below sea level; everything else stays
	// above sea level.
	basin := map[[2]int]float64{
		{2, 2}: -50,
		{1, 2}: -10,
		{3, 2}: -10,
		{2, 1}: -10,
		{2, 3}: -10,
	}
	for pos, id := range at {
		tile, err := m.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if e, ok := basin[pos]; ok {
			tile.Elevation = e
		} else {
			tile.Elevation = 30
		}
	}

	recipe := Recipe{
		{Kind: KindSeedOcean, SeedOcean: &SeedOcean{
			Count:   SingleRange(1),
			XFilter: SingleRange(50),
			YFilter: SingleRange(50),
		}},
		{Kind: KindFloodOcean, FloodOcean: &FloodOcean{}},
	}
	if err := d.Run(recipe); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantOcean := map[worldmap.TileID]bool{}
	for pos := range basin {
		wantOcean[at[pos]] = true
	}

	for _, tile := range m.Slice() {
		isOcean := tile.Grouping == worldmap.GroupingOcean
		if wantOcean[tile.ID] && !isOcean {
			t.Errorf("tile %d at elevation %v should have flooded to ocean", tile.ID, tile.Elevation)
		}
		if !wantOcean[tile.ID] && isOcean {
			t.Errorf("tile %d at elevation %v should not be ocean", tile.ID, tile.Elevation)
		}
		if isOcean && tile.Elevation >= 0 {
			t.Errorf("ocean tile %d has non-negative elevation %v", tile.ID, tile.Elevation)
		}
	}
}
