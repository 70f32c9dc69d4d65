package dissolve

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/worldmap"
)

func square(x, y float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
	}}
}

func TestDissolveMergesAdjacentSquaresIntoOneRing(t *testing.T) {
	left := &worldmap.Tile{ID: 1, Polygon: square(0, 0)}
	right := &worldmap.Tile{ID: 2, Polygon: square(1, 0)}

	mp := Dissolve([]*worldmap.Tile{left, right})

	if len(mp) != 1 {
		t.Fatalf("expected one merged polygon, got %d", len(mp))
	}
	// the shared edge at x=1 should have cancelled out, leaving a
	// rectangle boundary of 6 distinct vertices (7 with the closing point).
	if got := len(mp[0][0]); got != 7 {
		t.Fatalf("expected a 6-distinct-vertex ring (7 with closing point), got %d", got)
	}
}

func TestGroupAssignsFringeWaterTileToMajorityNeighborTheme(t *testing.T) {
	tiles := []*worldmap.Tile{
		{ID: 1, NationID: 5, ShoreDistance: 1},
		{ID: 2, NationID: 5, ShoreDistance: 1},
		{ID: 3, ShoreDistance: -1},
	}
	tiles[2].Neighbors = []worldmap.NeighborAndBearing{
		{Neighbor: worldmap.TileNeighbor(1)},
		{Neighbor: worldmap.TileNeighbor(2)},
	}
	m := worldmap.NewTileMap(tiles)

	groups := Group(m, NationKey)

	if len(groups[5]) != 3 {
		t.Fatalf("expected the coastal tile to join nation 5's group, got %d tiles", len(groups[5]))
	}
}

func TestSmoothPreservesRingClosure(t *testing.T) {
	mp := orb.MultiPolygon{square(0, 0)}
	out := Smooth(mp, 4)

	ring := out[0][0]
	if ring[0] != ring[len(ring)-1] {
		t.Fatalf("expected smoothed ring to remain closed")
	}
}
