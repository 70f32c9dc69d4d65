package neighbors

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/worldmap"
)

// square returns a closed unit-square polygon with corners (x,y) and
// (x+1,y+1), the minimal shape Wire needs to detect shared vertices.
func square(x, y float64) orb.Polygon {
	ring := orb.Ring{
		{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
	}
	return orb.Polygon{ring}
}

// gridTiles builds a 2x2 grid of unit-square tiles sharing edges and
// corners, the minimal fixture to exercise vertex-based adjacency.
func gridTiles() *worldmap.TileMap {
	tiles := []*worldmap.Tile{
		{ID: 1, Site: orb.Point{0.5, 0.5}, Polygon: square(0, 0)},
		{ID: 2, Site: orb.Point{1.5, 0.5}, Polygon: square(1, 0)},
		{ID: 3, Site: orb.Point{0.5, 1.5}, Polygon: square(0, 1)},
		{ID: 4, Site: orb.Point{1.5, 1.5}, Polygon: square(1, 1)},
	}
	return worldmap.NewTileMap(tiles)
}

// TestWireProducesSymmetricNeighbors is the universal "Neighbor
// symmetry" property test (§8): every Tile neighbor relationship is
// mutual, and the bearing from A to B is opposite the bearing from B
// to A within 1 degree.
func TestWireProducesSymmetricNeighbors(t *testing.T) {
	ext := geometry.Extent{West: 0, South: 0, East: 2, North: 2}
	m := gridTiles()
	Wire(m, ext, geometry.ShapeCylinder)

	for _, a := range m.Slice() {
		if len(a.Neighbors) == 0 {
			t.Fatalf("tile %d has no neighbors, expected shared edges in a 2x2 grid", a.ID)
		}
		for _, nb := range a.Neighbors {
			if nb.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			b, err := m.Get(nb.Neighbor.ID)
			if err != nil {
				t.Fatalf("Get(%d): %v", nb.Neighbor.ID, err)
			}

			found := false
			var reverseBearing float64
			for _, back := range b.Neighbors {
				if back.Neighbor.Kind == worldmap.NeighborTile && back.Neighbor.ID == a.ID {
					found = true
					reverseBearing = back.Bearing
					break
				}
			}
			if !found {
				t.Fatalf("tile %d lists %d as a neighbor, but %d does not list %d back", a.ID, b.ID, b.ID, a.ID)
			}

			delta := geometry.BearingDelta(nb.Bearing, reverseBearing)
			if diff := delta - 180; diff > 1 || diff < -1 {
				t.Errorf("bearing %d->%d is %v, %d->%d is %v: expected opposite bearings (delta %v, want ~180)",
					a.ID, b.ID, nb.Bearing, b.ID, a.ID, reverseBearing, delta)
			}
		}
	}
}

// antimeridianTiles builds two tiles on opposite sides of a
// full-longitude extent, each touching the boundary at two latitudes
// so the sweep in wireAntimeridian treats them as active over an
// overlapping latitude interval.
func antimeridianTiles() *worldmap.TileMap {
	east := &worldmap.Tile{
		ID:   1,
		Site: orb.Point{170, 0},
		Polygon: orb.Polygon{orb.Ring{
			{160, -10}, {180, -10}, {180, 10}, {160, 10}, {160, -10},
		}},
	}
	west := &worldmap.Tile{
		ID:   2,
		Site: orb.Point{-170, 0},
		Polygon: orb.Polygon{orb.Ring{
			{-180, -5}, {-160, -5}, {-160, 5}, {-180, 5}, {-180, -5},
		}},
	}
	return worldmap.NewTileMap([]*worldmap.Tile{east, west})
}

// TestWireAntimeridianWrap is E2E scenario #3 ("Antimeridian wrap",
// §8): a tile with a vertex at longitude 180 must gain a CrossMap
// neighbor tied to the tile whose vertex sits near longitude -180.
func TestWireAntimeridianWrap(t *testing.T) {
	ext := geometry.Extent{West: -180, South: -90, East: 180, North: 90}
	m := antimeridianTiles()
	Wire(m, ext, geometry.ShapeCylinder)

	east, err := m.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}

	var crossed *worldmap.Tile
	var edge worldmap.Edge
	for _, nb := range east.Neighbors {
		if nb.Neighbor.Kind == worldmap.NeighborCrossMap {
			crossed, err = m.Get(nb.Neighbor.ID)
			if err != nil {
				t.Fatalf("Get(%d): %v", nb.Neighbor.ID, err)
			}
			edge = nb.Neighbor.Edge
		}
	}
	if crossed == nil {
		t.Fatalf("tile at the east boundary (lon 180) gained no CrossMap neighbor: %+v", east.Neighbors)
	}
	if crossed.Site[0] > -160 {
		t.Errorf("CrossMap neighbor's site %v is not near longitude -180", crossed.Site)
	}
	if edge != worldmap.EdgeE {
		t.Errorf("expected the east tile's CrossMap neighbor to be tagged edge E, got %q", edge)
	}

	west, err := m.Get(2)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	backFound := false
	for _, nb := range west.Neighbors {
		if nb.Neighbor.Kind == worldmap.NeighborCrossMap && nb.Neighbor.ID == east.ID {
			backFound = true
			if nb.Neighbor.Edge != worldmap.EdgeW {
				t.Errorf("expected the west tile's CrossMap neighbor to be tagged edge W, got %q", nb.Neighbor.Edge)
			}
		}
	}
	if !backFound {
		t.Fatalf("tile at the west boundary (lon -180) did not reciprocate the CrossMap neighbor back to %d", east.ID)
	}
}
