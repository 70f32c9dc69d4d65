package tiles

import (
	"math"

	"github.com/paulmach/orb"
)

// triangle is three indices into the shared point slice, in clockwise
// order (the super-triangle's orientation, which every triangle built
// from its edges inherits).
type triangle struct {
	a, b, c int
}

// circumcenter returns the circumcenter of the triangle formed by p1,p2,p3.
func circumcenter(p1, p2, p3 orb.Point) orb.Point {
	ax, ay := p1[0], p1[1]
	bx, by := p2[0], p2[1]
	cx, cy := p3[0], p3[1]

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		// degenerate (near-collinear); fall back to centroid.
		return orb.Point{(ax + bx + cx) / 3, (ay + by + cy) / 3}
	}
	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d
	return orb.Point{ux, uy}
}

func inCircumcircle(p, a, b, c orb.Point) bool {
	center := circumcenter(a, b, c)
	r2 := sqDist(center, a)
	return sqDist(center, p) <= r2+1e-9
}

func sqDist(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

type edge struct{ u, v int }

// triangulate computes the Delaunay triangulation of pts using the
// classic Bowyer-Watson incremental algorithm. pts must already include
// a super-triangle's worth of margin (callers pass a far bounding frame
// so real sites never touch the outer hull).
func triangulate(pts []orb.Point) []triangle {
	n := len(pts)
	if n < 3 {
		return nil
	}

	// Super-triangle enclosing every point, appended at the end so its
	// indices are stable and easy to strip afterwards.
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := pts[0][0], pts[0][1]
	for _, p := range pts {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	dx, dy := maxX-minX, maxY-minY
	deltaMax := math.Max(dx, dy) * 20
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	super := []orb.Point{
		{midX - 2*deltaMax, midY - deltaMax},
		{midX, midY + 2*deltaMax},
		{midX + 2*deltaMax, midY - deltaMax},
	}
	work := append(append([]orb.Point{}, pts...), super...)
	superA, superB, superC := n, n+1, n+2

	tris := []triangle{{superA, superB, superC}}

	for i := 0; i < n; i++ {
		p := work[i]
		var bad []triangle
		badSet := map[triangle]bool{}
		for _, t := range tris {
			if inCircumcircle(p, work[t.a], work[t.b], work[t.c]) {
				bad = append(bad, t)
				badSet[t] = true
			}
		}

		// Find the boundary of the polygonal hole left by removing bad triangles.
		edgeCount := map[edge]int{}
		for _, t := range bad {
			for _, e := range triEdges(t) {
				key := normEdge(e)
				edgeCount[key]++
			}
		}
		var boundary []edge
		for _, t := range bad {
			for _, e := range triEdges(t) {
				if edgeCount[normEdge(e)] == 1 {
					boundary = append(boundary, e)
				}
			}
		}

		var kept []triangle
		for _, t := range tris {
			if !badSet[t] {
				kept = append(kept, t)
			}
		}
		for _, e := range boundary {
			kept = append(kept, triangle{e.u, e.v, i})
		}
		tris = kept
	}

	var out []triangle
	for _, t := range tris {
		if t.a >= n || t.b >= n || t.c >= n {
			continue // touches the super-triangle; discard
		}
		out = append(out, t)
	}
	return out
}

func triEdges(t triangle) [3]edge {
	return [3]edge{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}}
}

func normEdge(e edge) edge {
	if e.u > e.v {
		return edge{e.v, e.u}
	}
	return e
}
