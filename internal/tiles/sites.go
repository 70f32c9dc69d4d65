package tiles

import (
	"math"
	"math/rand"
	"sort"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/geometry"
)

// GenerateSites places approximately targetCount sites within ext,
// quasi-randomly: a jittered grid of evenly spaced rows whose column
// count per row is latitude dependent so that, on a sphere world
// shape, sites remain
// approximately uniform per unit area (§4.1) rather than bunching near
// the poles the way a naive equirectangular grid would.
func GenerateSites(rng *rand.Rand, ext geometry.Extent, targetCount int, shape geometry.WorldShape) []orb.Point {
	if targetCount <= 0 {
		return nil
	}
	height := ext.Height()
	aspect := ext.Width() / height
	rows := int(math.Max(1, math.Round(math.Sqrt(float64(targetCount)/math.Max(aspect, 1e-9)))))
	rowHeight := height / float64(rows)

	var pts []orb.Point
	for r := 0; r < rows; r++ {
		latCenter := ext.South + (float64(r)+0.5)*rowHeight

		colsBase := float64(targetCount) / float64(rows)
		cols := colsBase
		if shape == geometry.ShapeSphere {
			cols = colsBase * math.Cos(latCenter*math.Pi/180)
		}
		nCols := int(math.Max(1, math.Round(cols)))
		colWidth := ext.Width() / float64(nCols)

		for c := 0; c < nCols; c++ {
			lonCenter := ext.West + (float64(c)+0.5)*colWidth

			lon := lonCenter + (rng.Float64()-0.5)*colWidth*0.8
			lat := latCenter + (rng.Float64()-0.5)*rowHeight*0.8

			lon = clamp(lon, ext.West, ext.East)
			lat = clamp(lat, ext.South, ext.North)

			pts = append(pts, orb.Point{lon, lat})
		}
	}

	// Tiles are inserted in a reproducible order: sort by (lon, lat)
	// before writing, so the id sequence is deterministic given the seed (§4.1).
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})
	return pts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
