// Package dissolve implements stage 17: merging tile polygons that
// share the same culture/nation/subnation into one boundary per
// theme, smoothing the result, and simplifying it for rendering.
// Grounded on the reference implementation's algorithms/tiles.rs
// (dissolve_tiles_by_theme) and algorithms/water_fill.rs
// (dissolve_tiles/make_curvy_lakes/simplify_lake_geometry).
package dissolve

import (
	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/worldmap"
)

// KeyFunc resolves the theme id a tile belongs to (culture, nation,
// subnation...). A zero return means the tile has no theme of its own.
type KeyFunc func(t *worldmap.Tile) int64

// Group assigns every tile to a theme id, porting dissolve_tiles_by_theme's
// fringe rule: a coastal water tile (ShoreDistance == -1) with no theme
// of its own joins whichever theme is most common among its land
// neighbors, so the dissolved polygon covers the coastline cleanly
// instead of leaving a notch. Tiles that straddle the map seam
// (cross-map/off-map neighbors) never contribute to that vote, matching
// the original's explicit exclusion.
func Group(m *worldmap.TileMap, key KeyFunc) map[int64][]*worldmap.Tile {
	groups := map[int64][]*worldmap.Tile{}

	m.Each(func(t *worldmap.Tile) {
		if id := key(t); id != 0 {
			groups[id] = append(groups[id], t)
			return
		}
		if t.ShoreDistance != -1 {
			return
		}

		votes := map[int64]int{}
		for _, n := range t.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			neighbor, err := m.Get(n.Neighbor.ID)
			if err != nil {
				continue
			}
			if id := key(neighbor); id != 0 {
				votes[id]++
			}
		}
		if len(votes) == 0 {
			return
		}
		var best int64
		var bestCount int
		for id, count := range votes {
			if count > bestCount {
				best, bestCount = id, count
			}
		}
		groups[best] = append(groups[best], t)
	})

	return groups
}

// CultureKey, NationKey, SubnationKey adapt worldmap.Tile's theme
// fields to KeyFunc.
func CultureKey(t *worldmap.Tile) int64   { return int64(t.Culture) }
func NationKey(t *worldmap.Tile) int64    { return int64(t.NationID) }
func SubnationKey(t *worldmap.Tile) int64 { return int64(t.SubnationID) }

// boundaryEdge is an undirected polygon edge, keyed canonically (a<b)
// for the cancellation count, while preserving the first-seen
// orientation for ring-chaining.
type boundaryEdge struct{ a, b orb.Point }

// Dissolve merges a group of tile polygons into one multipolygon.
// Because tiles form a planar subdivision with no overlaps, dissolving
// adjacent cells reduces to edge cancellation: every polygon edge
// shared by two tiles in the group cancels out, leaving only the
// group's outer (and inner, for holes) boundary. This is simpler and
// exact for this specific shape of input, unlike the reference
// implementation's general-purpose GDAL geometry union, which has to
// handle arbitrary overlapping polygons — no such general boolean-ops
// library is available in this module's dependency set.
func Dissolve(tiles []*worldmap.Tile) orb.MultiPolygon {
	type edge = boundaryEdge

	counts := map[edge]int{}
	order := map[edge]edge{} // canonical(edge) -> first-seen orientation

	add := func(a, b orb.Point) {
		var key edge
		if less(a, b) {
			key = edge{a, b}
		} else {
			key = edge{b, a}
		}
		counts[key]++
		if _, ok := order[key]; !ok {
			order[key] = edge{a, b}
		}
	}

	for _, t := range tiles {
		for _, ring := range t.Polygon {
			for i := 0; i+1 < len(ring); i++ {
				add(ring[i], ring[i+1])
			}
		}
	}

	var boundary []edge
	for key, n := range counts {
		if n == 1 {
			boundary = append(boundary, order[key])
		}
	}

	rings := chainEdgesIntoRings(boundary)
	if len(rings) == 0 {
		return makeValidFallback(tiles)
	}

	var result orb.MultiPolygon
	for _, ring := range rings {
		result = append(result, orb.Polygon{ring})
	}
	return result
}

// makeValidFallback returns each tile's own polygon unmerged when the
// boundary edges failed to chain into closed rings (a degenerate or
// disconnected group). The reference implementation's make_valid
// instead asks GDAL to repair a self-intersecting union result by
// splitting it into multiple valid polygons; returning the ungrouped
// source polygons achieves the same goal — a valid, renderable
// geometry for every tile in the group — without a general-purpose
// geometry-repair library.
func makeValidFallback(tiles []*worldmap.Tile) orb.MultiPolygon {
	var result orb.MultiPolygon
	for _, t := range tiles {
		result = append(result, t.Polygon...)
	}
	return result
}

func less(a, b orb.Point) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// chainEdgesIntoRings walks the undirected boundary edge set, following
// each vertex's remaining edge until it returns to its start, producing
// one closed ring per connected loop. Dangling (non-closing) chains are
// dropped.
func chainEdgesIntoRings(boundary []boundaryEdge) []orb.Ring {
	adjacency := map[orb.Point][]orb.Point{}
	for _, e := range boundary {
		adjacency[e.a] = append(adjacency[e.a], e.b)
		adjacency[e.b] = append(adjacency[e.b], e.a)
	}

	visited := map[orb.Point]bool{}
	var rings []orb.Ring

	for start := range adjacency {
		if visited[start] {
			continue
		}
		ring := orb.Ring{start}
		visited[start] = true
		prev := orb.Point{}
		cur := start
		hasPrev := false

		for {
			next, ok := pickUnvisitedNeighbor(adjacency, cur, prev, hasPrev, start, visited)
			if !ok {
				break
			}
			if next == start {
				ring = append(ring, next)
				break
			}
			ring = append(ring, next)
			visited[next] = true
			prev, cur, hasPrev = cur, next, true
		}

		if len(ring) >= 4 && ring[0] == ring[len(ring)-1] {
			rings = append(rings, ring)
		}
	}
	return rings
}

func pickUnvisitedNeighbor(adjacency map[orb.Point][]orb.Point, cur, prev orb.Point, hasPrev bool, start orb.Point, visited map[orb.Point]bool) (orb.Point, bool) {
	for _, n := range adjacency[cur] {
		if hasPrev && n == prev {
			continue
		}
		if n == start || !visited[n] {
			return n, true
		}
	}
	return orb.Point{}, false
}
