// Package neighbors implements stage 2: wiring the tile graph's
// symmetric neighbor lists, including antimeridian wrap and off-map
// boundary edges (§4.1).
package neighbors

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/worldmap"
)

// Wire computes neighbor lists for every tile in m and writes them
// back onto the tiles, sorted by neighbor id (§5's ordering guarantee).
func Wire(m *worldmap.TileMap, ext geometry.Extent, shape geometry.WorldShape) {
	adjacency := map[worldmap.TileID]map[worldmap.TileID]bool{}
	addEdge := func(a, b worldmap.TileID) {
		if a == b {
			return
		}
		if adjacency[a] == nil {
			adjacency[a] = map[worldmap.TileID]bool{}
		}
		adjacency[a][b] = true
	}

	// crossEdges records which adjacency entries were produced by the
	// antimeridian sweep rather than ordinary shared-vertex wiring, and
	// the compass edge each side reaches the other through, so the
	// materialize pass below can tag them as CrossMap instead of Tile.
	crossEdges := map[worldmap.TileID]map[worldmap.TileID]worldmap.Edge{}
	addCrossEdge := func(a, b worldmap.TileID, edge worldmap.Edge) {
		addEdge(a, b)
		if crossEdges[a] == nil {
			crossEdges[a] = map[worldmap.TileID]worldmap.Edge{}
		}
		crossEdges[a][b] = edge
	}

	vertexTiles := map[string]map[worldmap.TileID]bool{}
	m.Each(func(t *worldmap.Tile) {
		if len(t.Polygon) == 0 {
			return
		}
		for _, v := range t.Polygon[0] {
			key := vertexKey(v)
			if vertexTiles[key] == nil {
				vertexTiles[key] = map[worldmap.TileID]bool{}
			}
			vertexTiles[key][t.ID] = true
		}
	})

	for _, tileSet := range vertexTiles {
		ids := make([]worldmap.TileID, 0, len(tileSet))
		for id := range tileSet {
			ids = append(ids, id)
		}
		for i := range ids {
			for j := range ids {
				if i != j {
					addEdge(ids[i], ids[j])
				}
			}
		}
	}

	if ext.WrapsMeridian() {
		wireAntimeridian(m, ext, addCrossEdge)
	}

	// Materialize contiguous & cross-map neighbors with bearings.
	m.Each(func(t *worldmap.Tile) {
		ids := make([]worldmap.TileID, 0, len(adjacency[t.ID]))
		for id := range adjacency[t.ID] {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		list := make([]worldmap.NeighborAndBearing, 0, len(ids)+4)
		for _, id := range ids {
			other, err := m.Get(id)
			if err != nil {
				continue
			}
			bearing := geometry.Bearing(shape, t.Site, other.Site)
			neighbor := worldmap.TileNeighbor(id)
			if edge, ok := crossEdges[t.ID][id]; ok {
				neighbor = worldmap.CrossMap(id, edge)
			}
			list = append(list, worldmap.NeighborAndBearing{Neighbor: neighbor, Bearing: bearing})
		}
		t.Neighbors = list
	})

	addOffMapEdges(m, ext)
}

// wireAntimeridian implements the sweep described in §4.1: collect
// vertices lying exactly on the east or west boundary, sort by
// latitude, and walk the list treating a tile as "active" between its
// first and second boundary vertex; while active it gains every tile
// active on the opposite side as a CrossMap neighbor.
func wireAntimeridian(m *worldmap.TileMap, ext geometry.Extent, addCrossEdge func(a, b worldmap.TileID, edge worldmap.Edge)) {
	type boundaryHit struct {
		tile worldmap.TileID
		lat  float64
		west bool
	}
	const eps = 1e-6
	var hits []boundaryHit
	m.Each(func(t *worldmap.Tile) {
		if len(t.Polygon) == 0 {
			return
		}
		for _, v := range t.Polygon[0] {
			if v[0] <= ext.West+eps {
				hits = append(hits, boundaryHit{tile: t.ID, lat: v[1], west: true})
			} else if v[0] >= ext.East-eps {
				hits = append(hits, boundaryHit{tile: t.ID, lat: v[1], west: false})
			}
		}
	})
	sort.Slice(hits, func(i, j int) bool { return hits[i].lat < hits[j].lat })

	activeWest := map[worldmap.TileID]bool{}
	activeEast := map[worldmap.TileID]bool{}
	for _, h := range hits {
		if h.west {
			if activeWest[h.tile] {
				delete(activeWest, h.tile)
				continue
			}
			activeWest[h.tile] = true
			for east := range activeEast {
				addCrossEdge(h.tile, east, worldmap.EdgeW)
				addCrossEdge(east, h.tile, worldmap.EdgeE)
			}
		} else {
			if activeEast[h.tile] {
				delete(activeEast, h.tile)
				continue
			}
			activeEast[h.tile] = true
			for west := range activeWest {
				addCrossEdge(h.tile, west, worldmap.EdgeE)
				addCrossEdge(west, h.tile, worldmap.EdgeW)
			}
		}
	}
}

// addOffMapEdges gives tiles on the map boundary (poles, or
// non-wrapping map edges) an OffMap neighbor for each exposed compass
// direction their Edge tag carries.
func addOffMapEdges(m *worldmap.TileMap, ext geometry.Extent) {
	wraps := ext.WrapsMeridian()
	m.Each(func(t *worldmap.Tile) {
		if t.Edge == "" {
			return
		}
		for _, dir := range edgeDirections(t.Edge) {
			if wraps && (dir == worldmap.EdgeE || dir == worldmap.EdgeW) {
				continue // handled by CrossMap wiring instead
			}
			t.Neighbors = append(t.Neighbors, worldmap.NeighborAndBearing{
				Neighbor: worldmap.OffMap(dir),
				Bearing:  bearingForEdge(dir),
			})
		}
		sort.Slice(t.Neighbors, func(i, j int) bool {
			return neighborSortKey(t.Neighbors[i].Neighbor) < neighborSortKey(t.Neighbors[j].Neighbor)
		})
	})
}

func edgeDirections(e worldmap.Edge) []worldmap.Edge {
	switch e {
	case worldmap.EdgeNE:
		return []worldmap.Edge{worldmap.EdgeN, worldmap.EdgeE}
	case worldmap.EdgeNW:
		return []worldmap.Edge{worldmap.EdgeN, worldmap.EdgeW}
	case worldmap.EdgeSE:
		return []worldmap.Edge{worldmap.EdgeS, worldmap.EdgeE}
	case worldmap.EdgeSW:
		return []worldmap.Edge{worldmap.EdgeS, worldmap.EdgeW}
	default:
		return []worldmap.Edge{e}
	}
}

func bearingForEdge(e worldmap.Edge) float64 {
	switch e {
	case worldmap.EdgeN:
		return 0
	case worldmap.EdgeE:
		return 90
	case worldmap.EdgeS:
		return 180
	case worldmap.EdgeW:
		return 270
	default:
		return 0
	}
}

// neighborSortKey gives a stable total order for sorting a mixed
// Tile/CrossMap/OffMap neighbor list by id (§5).
func neighborSortKey(n worldmap.Neighbor) string {
	switch n.Kind {
	case worldmap.NeighborTile:
		return fmt.Sprintf("0-%020d", n.ID)
	case worldmap.NeighborCrossMap:
		return fmt.Sprintf("1-%020d", n.ID)
	default:
		return fmt.Sprintf("2-%s", n.Edge)
	}
}

func vertexKey(p orb.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p[0], p[1])
}
