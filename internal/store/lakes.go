package store

import (
	"database/sql"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/worldmap"
)

// PutLake upserts a single lake row (the lakes layer is small enough
// that each lake is written individually rather than batched).
func PutLake(tx *sql.Tx, lake *worldmap.Lake) error {
	mpWKB, err := encodeGeometry(lake.MultiPolygon)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO lakes (id, elevation, lake_type, size, temperature, flow, multipolygon_wkb)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			elevation=excluded.elevation, lake_type=excluded.lake_type, size=excluded.size,
			temperature=excluded.temperature, flow=excluded.flow, multipolygon_wkb=excluded.multipolygon_wkb`,
		int64(lake.ID), lake.Elevation, string(lake.Type), lake.Size, lake.AvgTemperature, lake.Flow, mpWKB)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting lake %d", lake.ID)
	}
	return nil
}

// LakeRow is the subset of Lake persisted to (and read back from) the store.
type LakeRow struct {
	ID          worldmap.LakeID
	Elevation   float64
	Type        worldmap.LakeType
	Size        float64
	Temperature float64
	Flow        float64
}

// ReadLakes loads every lake row in ascending id order.
func ReadLakes(db *sql.DB) ([]LakeRow, error) {
	rows, err := db.Query(`SELECT id, elevation, lake_type, size, temperature, flow FROM lakes ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying lakes")
	}
	defer rows.Close()

	var out []LakeRow
	for rows.Next() {
		var r LakeRow
		var id int64
		var lakeType string
		if err := rows.Scan(&id, &r.Elevation, &lakeType, &r.Size, &r.Temperature, &r.Flow); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning lake row")
		}
		r.ID = worldmap.LakeID(id)
		r.Type, err = DecodeLakeType(lakeType)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
