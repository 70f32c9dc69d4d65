package tiles

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/geometry"
)

// frame returns padding points well outside the extent, so every real
// site's Voronoi cell closes before clipping; this is the standard
// "bound the Delaunay dual" trick rather than an unbounded Fortune sweep.
func frame(ext geometry.Extent) []orb.Point {
	w, h := ext.Width(), ext.Height()
	pad := math.Max(w, h)*2 + 1
	cx := (ext.West + ext.East) / 2
	cy := (ext.South + ext.North) / 2
	return []orb.Point{
		{cx - pad, cy - pad}, {cx, cy - pad}, {cx + pad, cy - pad},
		{cx - pad, cy}, {cx + pad, cy},
		{cx - pad, cy + pad}, {cx, cy + pad}, {cx + pad, cy + pad},
	}
}

// cellPolygons computes the Voronoi cell of every index in [0,realCount)
// from the Delaunay triangulation of (real sites ++ frame points), then
// clips each cell to ext.
func cellPolygons(sites []orb.Point, ext geometry.Extent) []orb.Polygon {
	pad := frame(ext)
	all := append(append([]orb.Point{}, sites...), pad...)
	tris := triangulate(all)

	incident := make(map[int][]int) // site index -> triangle indices
	for ti, t := range tris {
		incident[t.a] = append(incident[t.a], ti)
		incident[t.b] = append(incident[t.b], ti)
		incident[t.c] = append(incident[t.c], ti)
	}

	centers := make([]orb.Point, len(tris))
	for i, t := range tris {
		centers[i] = circumcenter(all[t.a], all[t.b], all[t.c])
	}

	out := make([]orb.Polygon, len(sites))
	bound := ext.Bound()
	for i := range sites {
		ring := cellRing(sites[i], incident[i], centers)
		ring = clipToBound(ring, bound)
		if len(ring) < 3 {
			// degenerate cell (can happen for near-duplicate sites);
			// fall back to a tiny square around the site so downstream
			// stages always have a non-empty polygon.
			ring = tinySquare(sites[i])
		}
		closeRing(&ring)
		out[i] = orb.Polygon{ring}
	}
	return out
}

func cellRing(site orb.Point, triIdx []int, centers []orb.Point) orb.Ring {
	pts := make([]orb.Point, len(triIdx))
	for i, ti := range triIdx {
		pts[i] = centers[ti]
	}
	sort.Slice(pts, func(i, j int) bool {
		return math.Atan2(pts[i][1]-site[1], pts[i][0]-site[0]) <
			math.Atan2(pts[j][1]-site[1], pts[j][0]-site[0])
	})
	return orb.Ring(pts)
}

func tinySquare(center orb.Point) orb.Ring {
	const eps = 1e-6
	return orb.Ring{
		{center[0] - eps, center[1] - eps},
		{center[0] + eps, center[1] - eps},
		{center[0] + eps, center[1] + eps},
		{center[0] - eps, center[1] + eps},
	}
}

func closeRing(ring *orb.Ring) {
	if len(*ring) == 0 {
		return
	}
	first, last := (*ring)[0], (*ring)[len(*ring)-1]
	if first != last {
		*ring = append(*ring, first)
	}
}

// clipToBound runs Sutherland-Hodgman polygon clipping against an
// axis-aligned rectangle.
func clipToBound(ring orb.Ring, b orb.Bound) orb.Ring {
	out := []orb.Point(ring)
	out = clipEdge(out, func(p orb.Point) bool { return p[0] >= b.Min[0] },
		func(a, c orb.Point) orb.Point { return xIntersect(a, c, b.Min[0]) })
	out = clipEdge(out, func(p orb.Point) bool { return p[0] <= b.Max[0] },
		func(a, c orb.Point) orb.Point { return xIntersect(a, c, b.Max[0]) })
	out = clipEdge(out, func(p orb.Point) bool { return p[1] >= b.Min[1] },
		func(a, c orb.Point) orb.Point { return yIntersect(a, c, b.Min[1]) })
	out = clipEdge(out, func(p orb.Point) bool { return p[1] <= b.Max[1] },
		func(a, c orb.Point) orb.Point { return yIntersect(a, c, b.Max[1]) })
	return orb.Ring(out)
}

func clipEdge(poly []orb.Point, inside func(orb.Point) bool, intersect func(a, b orb.Point) orb.Point) []orb.Point {
	if len(poly) == 0 {
		return poly
	}
	var out []orb.Point
	prev := poly[len(poly)-1]
	prevIn := inside(prev)
	for _, cur := range poly {
		curIn := inside(cur)
		if curIn {
			if !prevIn {
				out = append(out, intersect(prev, cur))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, intersect(prev, cur))
		}
		prev, prevIn = cur, curIn
	}
	return out
}

func xIntersect(a, b orb.Point, x float64) orb.Point {
	if b[0] == a[0] {
		return orb.Point{x, a[1]}
	}
	t := (x - a[0]) / (b[0] - a[0])
	return orb.Point{x, a[1] + t*(b[1]-a[1])}
}

func yIntersect(a, b orb.Point, y float64) orb.Point {
	if b[1] == a[1] {
		return orb.Point{a[0], y}
	}
	t := (y - a[1]) / (b[1] - a[1])
	return orb.Point{a[0] + t*(b[0]-a[0]), y}
}
