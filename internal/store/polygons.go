package store

import (
	"database/sql"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// PutPoint writes a single row of the points (voronoi site) layer.
// This layer is temporary scaffolding for tile generation (§6).
func PutPoint(tx *sql.Tx, id int64, p orb.Point) error {
	b, err := encodeGeometry(p)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO points (id, point_wkb) VALUES (?,?)
		ON CONFLICT(id) DO UPDATE SET point_wkb=excluded.point_wkb`, id, b)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting point %d", id)
	}
	return nil
}

// PutTriangle writes a single row of the triangles (Delaunay) layer.
func PutTriangle(tx *sql.Tx, id int64, tri orb.Polygon) error {
	b, err := encodeGeometry(tri)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO triangles (id, polygon_wkb) VALUES (?,?)
		ON CONFLICT(id) DO UPDATE SET polygon_wkb=excluded.polygon_wkb`, id, b)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting triangle %d", id)
	}
	return nil
}

// PutCoastline writes a single row of the coastlines layer.
func PutCoastline(tx *sql.Tx, id int64, poly orb.Polygon) error {
	b, err := encodeGeometry(poly)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO coastlines (id, polygon_wkb) VALUES (?,?)
		ON CONFLICT(id) DO UPDATE SET polygon_wkb=excluded.polygon_wkb`, id, b)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting coastline %d", id)
	}
	return nil
}

// PutOcean writes a single row of the oceans layer.
func PutOcean(tx *sql.Tx, id int64, poly orb.Polygon) error {
	b, err := encodeGeometry(poly)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO oceans (id, polygon_wkb) VALUES (?,?)
		ON CONFLICT(id) DO UPDATE SET polygon_wkb=excluded.polygon_wkb`, id, b)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting ocean %d", id)
	}
	return nil
}

// PutCultureBoundary writes the dissolved territory multipolygon for an
// already-persisted culture row.
func PutCultureBoundary(tx *sql.Tx, id int64, mp orb.MultiPolygon) error {
	return putBoundary(tx, "cultures", id, mp)
}

// PutNationBoundary writes the dissolved territory multipolygon for an
// already-persisted nation row.
func PutNationBoundary(tx *sql.Tx, id int64, mp orb.MultiPolygon) error {
	return putBoundary(tx, "nations", id, mp)
}

// PutSubnationBoundary writes the dissolved territory multipolygon for an
// already-persisted subnation row.
func PutSubnationBoundary(tx *sql.Tx, id int64, mp orb.MultiPolygon) error {
	return putBoundary(tx, "subnations", id, mp)
}

func putBoundary(tx *sql.Tx, table string, id int64, mp orb.MultiPolygon) error {
	b, err := encodeGeometry(mp)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`UPDATE `+table+` SET multipolygon_wkb = ? WHERE id = ?`, b, id)
	if err != nil {
		return atlaserr.Backend("store", err, "writing %s boundary %d", table, id)
	}
	return nil
}

// ClearTemporaryLayers empties the points/triangles scaffolding layers.
// No stage command calls it, so the points the tiles stage writes stay
// in the world file.
func ClearTemporaryLayers(tx *sql.Tx) error {
	for _, layer := range []string{LayerPoints, LayerTriangles} {
		if _, err := tx.Exec("DELETE FROM " + layer); err != nil {
			return atlaserr.Backend("store", err, "clearing %s", layer)
		}
	}
	return nil
}
