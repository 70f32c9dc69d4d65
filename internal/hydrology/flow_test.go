package hydrology

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

func chainMap() *worldmap.TileMap {
	// Three tiles in a strictly descending line: 1 -> 2 -> 3.
	t1 := &worldmap.Tile{ID: 1, Site: orb.Point{0, 0}, Elevation: 30, Precipitation: 10}
	t2 := &worldmap.Tile{ID: 2, Site: orb.Point{1, 0}, Elevation: 20, Precipitation: 10}
	t3 := &worldmap.Tile{ID: 3, Site: orb.Point{2, 0}, Elevation: 10, Precipitation: 10, Grouping: worldmap.GroupingOcean}
	t1.Neighbors = []worldmap.NeighborAndBearing{{Neighbor: worldmap.TileNeighbor(2), Bearing: 90}}
	t2.Neighbors = []worldmap.NeighborAndBearing{
		{Neighbor: worldmap.TileNeighbor(1), Bearing: 270},
		{Neighbor: worldmap.TileNeighbor(3), Bearing: 90},
	}
	t3.Neighbors = []worldmap.NeighborAndBearing{{Neighbor: worldmap.TileNeighbor(2), Bearing: 270}}
	return worldmap.NewTileMap([]*worldmap.Tile{t1, t2, t3})
}

func TestRouteFlowPushesWaterDownhill(t *testing.T) {
	m := chainMap()
	RouteFlow(m, progress.Noop{})

	t1, _ := m.Get(1)
	t2, _ := m.Get(2)
	t3, _ := m.Get(3)

	if len(t1.FlowTo) != 1 || t1.FlowTo[0] != 2 {
		t.Fatalf("tile 1 should flow to tile 2, got %v", t1.FlowTo)
	}
	if t1.WaterAccumulation != 0 {
		t.Fatalf("tile 1 should have drained its accumulation, got %v", t1.WaterAccumulation)
	}
	if t2.WaterAccumulation <= 0 {
		t.Fatalf("tile 2 should have received inflow from tile 1")
	}
	if len(t3.FlowTo) != 0 {
		t.Fatalf("tile 3 is the basin floor, expected no outflow")
	}
}

func TestFillLakesSeedsBasinWithNoOutflow(t *testing.T) {
	// A closed basin: 1 is the low point with no strictly-lower neighbor.
	t1 := &worldmap.Tile{ID: 1, Site: orb.Point{0, 0}, Elevation: 5, Precipitation: 50, Temperature: 10}
	t2 := &worldmap.Tile{ID: 2, Site: orb.Point{1, 0}, Elevation: 15, Precipitation: 0, Temperature: 10}
	t1.Neighbors = []worldmap.NeighborAndBearing{{Neighbor: worldmap.TileNeighbor(2), Bearing: 90}}
	t2.Neighbors = []worldmap.NeighborAndBearing{{Neighbor: worldmap.TileNeighbor(1), Bearing: 270}}
	m := worldmap.NewTileMap([]*worldmap.Tile{t1, t2})

	RouteFlow(m, progress.Noop{})
	lakes := worldmap.NewLakeIndex()
	FillLakes(m, lakes, progress.Noop{})

	t1, _ = m.Get(1)
	if !t1.HasLake() {
		t.Fatalf("expected tile 1 to seed a lake")
	}
	lake, err := lakes.Get(t1.LakeID)
	if err != nil {
		t.Fatalf("lake lookup failed: %v", err)
	}
	if !lake.ContainedTiles[1] {
		t.Fatalf("expected lake to contain tile 1")
	}
}
