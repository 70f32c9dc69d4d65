// Package tiles implements stage 1 of the pipeline: quasi-random site
// placement, Delaunay triangulation, and the derived Voronoi tile
// polygons (§4.1).
package tiles

import (
	"database/sql"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

// Generate runs stage 1: it places sites, triangulates them, derives
// tile polygons, computes area and edge tags, and returns tiles in the
// deterministic id order described by §4.1 (GenerateSites returns the
// sites already sorted).
func Generate(rng *rand.Rand, ext geometry.Extent, targetCount int, shape geometry.WorldShape, obs progress.Observer) []*worldmap.Tile {
	obs.StartUnknown("Placing tile sites")
	sites := GenerateSites(rng, ext, targetCount, shape)
	obs.Finish()

	obs.StartKnown("Triangulating", len(sites))
	polys := cellPolygons(sites, ext)
	obs.Update(len(sites))
	obs.Finish()

	tiles := make([]*worldmap.Tile, len(sites))
	obs.StartKnown("Building tiles", len(sites))
	for i, site := range sites {
		poly := polys[i]
		t := &worldmap.Tile{
			ID:       worldmap.TileID(i + 1),
			Site:     site,
			Polygon:  poly,
			Area:     geometry.Area(shape, poly),
			Grouping: worldmap.GroupingContinent,
			Edge:     edgeTag(poly, ext),
		}
		tiles[i] = t
		obs.Update(i + 1)
	}
	obs.Finish()

	return tiles
}

// edgeTag reports which side(s) of the extent a polygon's vertices
// touch, combined into the nearest compass direction. A polygon only
// touching one boundary gets a cardinal tag (N/E/S/W); touching two
// adjacent boundaries (a literal map corner) gets an intercardinal tag.
func edgeTag(poly orb.Polygon, ext geometry.Extent) worldmap.Edge {
	if len(poly) == 0 {
		return ""
	}
	const eps = 1e-7
	var north, south, east, west bool
	for _, p := range poly[0] {
		if p[1] >= ext.North-eps {
			north = true
		}
		if p[1] <= ext.South+eps {
			south = true
		}
		if p[0] >= ext.East-eps {
			east = true
		}
		if p[0] <= ext.West+eps {
			west = true
		}
	}
	switch {
	case north && east:
		return worldmap.EdgeNE
	case north && west:
		return worldmap.EdgeNW
	case south && east:
		return worldmap.EdgeSE
	case south && west:
		return worldmap.EdgeSW
	case north:
		return worldmap.EdgeN
	case south:
		return worldmap.EdgeS
	case east:
		return worldmap.EdgeE
	case west:
		return worldmap.EdgeW
	default:
		return ""
	}
}

// Persist writes the generated tiles, the temporary points scaffolding
// (no triangles are written), and the properties every later stage
// reads back, inside a single transaction (§5).
func Persist(db *sql.DB, tiles []*worldmap.Tile, sites []orb.Point, ext geometry.Extent, shape geometry.WorldShape, seed uint64, limits store.ElevationLimits) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	w := store.NewTileWriter(tx)
	for _, t := range tiles {
		if err := w.Put(t); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tx.Rollback()
		return err
	}

	for i, s := range sites {
		if err := store.PutPoint(tx, int64(i+1), s); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := store.PutExtent(tx, ext); err != nil {
		tx.Rollback()
		return err
	}
	if err := store.PutWorldShape(tx, shape); err != nil {
		tx.Rollback()
		return err
	}
	if err := store.PutSeed(tx, seed); err != nil {
		tx.Rollback()
		return err
	}
	if err := store.PutElevationLimits(tx, limits); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
