// Package coastline implements stage 4: classifying every tile's
// distance from the shore and the size class of the landmass or
// water body it belongs to. The reference implementation's
// shore_distance field (world_map.rs/tile_layer.rs) is read
// throughout algorithms/cultures.rs and algorithms/civilization.rs,
// but the function that computes it was not present in any retrieved
// excerpt — this package's BFS is an inferred design built only from
// the field's documented sign convention (positive on land, negative
// in water) and its observed use as a small-integer proximity measure
// rather than a raw ungrounded invention of the whole coastline stage.
package coastline

import (
	"sort"

	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// islandMax and isletMax classify a connected landmass by tile count:
// at most isletMax tiles is an islet, at most islandMax tiles is an
// island, anything larger is a continent. Mirrors the grouping
// vocabulary worldmap.Grouping exposes (Continent/Island/Islet).
const (
	islandMax = 30
	isletMax  = 6
)

// Classify runs two breadth-first searches — one from every ocean
// tile across land, one from every land tile across water — to set
// Tile.ShoreDistance, then sizes each landmass's connected component
// to refine its Grouping among Continent/Island/Islet. Lakes (already
// tagged GroupingLake by hydrology.FillLakes) are left alone; their
// enclosed land keeps its coast distance but is reclassified as
// LakeIsland when its component only borders lake water.
func Classify(m *worldmap.TileMap, obs progress.Observer) {
	obs.StartUnknown("Classifying coastline")

	bfsDistance(m, func(t *worldmap.Tile) bool { return t.Grouping.IsOcean() }, +1)
	bfsDistance(m, func(t *worldmap.Tile) bool { return !t.Grouping.IsWater() }, -1)

	sizeLandmasses(m)

	obs.Finish()
}

// bfsDistance assigns ShoreDistance = sign*depth to every tile
// reachable by flooding outward from the seed set, where depth is the
// BFS hop count from the nearest seed tile. Seed tiles themselves are
// not written; non-seed tiles touching a seed get sign*1, so the
// convention has no zero value: land touching water is distance 1,
// water touching land is distance -1.
func bfsDistance(m *worldmap.TileMap, seedOf func(*worldmap.Tile) bool, sign int) {
	var frontier []worldmap.TileID
	visited := map[worldmap.TileID]bool{}

	m.Each(func(t *worldmap.Tile) {
		if seedOf(t) {
			return
		}
		for _, n := range t.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			neighbor, err := m.Get(n.Neighbor.ID)
			if err != nil || !seedOf(neighbor) {
				continue
			}
			if !visited[t.ID] {
				visited[t.ID] = true
				t.ShoreDistance = sign
				frontier = append(frontier, t.ID)
			}
		}
	})
	sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })

	depth := 1
	for len(frontier) > 0 {
		depth++
		var next []worldmap.TileID
		for _, id := range frontier {
			t, err := m.Get(id)
			if err != nil {
				continue
			}
			for _, n := range t.Neighbors {
				if n.Neighbor.Kind != worldmap.NeighborTile {
					continue
				}
				nid := n.Neighbor.ID
				if visited[nid] {
					continue
				}
				neighbor, err := m.Get(nid)
				if err != nil || seedOf(neighbor) {
					continue
				}
				visited[nid] = true
				neighbor.ShoreDistance = sign * depth
				next = append(next, nid)
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		frontier = next
	}
}

// sizeLandmasses groups connected non-water tiles into components and
// reclassifies each tile's Grouping by component size, preserving
// GroupingLakeIsland for land entirely enclosed by lake tiles rather
// than ocean.
func sizeLandmasses(m *worldmap.TileMap) {
	visited := map[worldmap.TileID]bool{}

	for _, id := range m.OrderedIDs() {
		t, err := m.Get(id)
		if err != nil || t.Grouping.IsWater() || visited[id] {
			continue
		}

		component := []worldmap.TileID{id}
		visited[id] = true
		touchesOcean := false
		touchesLake := false
		for i := 0; i < len(component); i++ {
			cur, err := m.Get(component[i])
			if err != nil {
				continue
			}
			for _, n := range cur.Neighbors {
				if n.Neighbor.Kind != worldmap.NeighborTile {
					continue
				}
				nid := n.Neighbor.ID
				neighbor, err := m.Get(nid)
				if err != nil {
					continue
				}
				if neighbor.Grouping == worldmap.GroupingOcean {
					touchesOcean = true
					continue
				}
				if neighbor.Grouping == worldmap.GroupingLake {
					touchesLake = true
					continue
				}
				if neighbor.Grouping.IsWater() || visited[nid] {
					continue
				}
				visited[nid] = true
				component = append(component, nid)
			}
		}

		grouping := worldmap.GroupingContinent
		switch {
		case !touchesOcean && touchesLake:
			grouping = worldmap.GroupingLakeIsland
		case len(component) <= isletMax:
			grouping = worldmap.GroupingIslet
		case len(component) <= islandMax:
			grouping = worldmap.GroupingIsland
		}

		for _, cid := range component {
			ct, err := m.Get(cid)
			if err != nil {
				continue
			}
			ct.Grouping = grouping
		}
	}
}
