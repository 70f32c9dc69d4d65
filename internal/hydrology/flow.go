// Package hydrology implements stages 8-10: flow routing, lake fill,
// and river segment derivation (§4.4).
package hydrology

import (
	"sort"

	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// RouteFlow sorts tiles by elevation descending and pushes each tile's
// precipitation plus accumulated inflow downhill to every neighbor
// strictly lower in elevation, splitting the outflow equally among
// ties. A tile with no strictly-lower neighbor keeps its water as
// accumulation, the seed for lake fill.
func RouteFlow(m *worldmap.TileMap, obs progress.Observer) {
	ids := m.OrderedIDs()
	order := make([]worldmap.TileID, len(ids))
	copy(order, ids)
	sort.Slice(order, func(i, j int) bool {
		ti, _ := m.Get(order[i])
		tj, _ := m.Get(order[j])
		return ti.Elevation > tj.Elevation
	})

	obs.StartKnown("Routing water flow", len(order))
	for i, id := range order {
		t, err := m.Get(id)
		if err != nil {
			continue
		}
		t.WaterAccumulation += t.Precipitation

		var lower []worldmap.TileID
		for _, n := range t.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			other, err := m.Get(worldmap.TileID(n.Neighbor.ID))
			if err != nil {
				continue
			}
			if other.Elevation < t.Elevation {
				lower = append(lower, other.ID)
			}
		}
		sort.Slice(lower, func(a, b int) bool { return lower[a] < lower[b] })
		t.FlowTo = lower

		if len(lower) > 0 {
			share := t.WaterAccumulation / float64(len(lower))
			t.WaterFlow += t.WaterAccumulation
			for _, id := range lower {
				next, err := m.Get(id)
				if err != nil {
					continue
				}
				next.WaterAccumulation += share
			}
			t.WaterAccumulation = 0
		}
		obs.Update(i + 1)
	}
	obs.Finish()
}
