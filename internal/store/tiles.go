package store

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/worldmap"
)

// TileWriter batches tile upserts the way the teacher's mbtiles.Writer
// batches tile PNGs, flushing every BatchSize rows inside the caller's
// transaction.
type TileWriter struct {
	tx        *sql.Tx
	batch     []*worldmap.Tile
	batchSize int
}

// NewTileWriter returns a batched writer bound to an open transaction.
func NewTileWriter(tx *sql.Tx) *TileWriter {
	return &TileWriter{tx: tx, batch: make([]*worldmap.Tile, 0, DefaultBatchSize), batchSize: DefaultBatchSize}
}

// Put stages a tile for upsert, flushing automatically once the batch fills.
func (w *TileWriter) Put(t *worldmap.Tile) error {
	w.batch = append(w.batch, t)
	if len(w.batch) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes any buffered tiles immediately.
func (w *TileWriter) Flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	stmt, err := w.tx.Prepare(`INSERT INTO tiles (
		id, site_lon, site_lat, polygon_wkb, area, edge, neighbors,
		elevation, elevation_scaled, grouping, grouping_id, shore_distance,
		temperature, wind, precipitation, water_flow, water_accumulation,
		flow_to, lake_id, outlet_from, biome, habitability, population,
		culture, town_id, nation_id, subnation_id
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT(id) DO UPDATE SET
		site_lon=excluded.site_lon, site_lat=excluded.site_lat,
		polygon_wkb=excluded.polygon_wkb, area=excluded.area, edge=excluded.edge,
		neighbors=excluded.neighbors, elevation=excluded.elevation,
		elevation_scaled=excluded.elevation_scaled, grouping=excluded.grouping,
		grouping_id=excluded.grouping_id, shore_distance=excluded.shore_distance,
		temperature=excluded.temperature, wind=excluded.wind,
		precipitation=excluded.precipitation, water_flow=excluded.water_flow,
		water_accumulation=excluded.water_accumulation, flow_to=excluded.flow_to,
		lake_id=excluded.lake_id, outlet_from=excluded.outlet_from,
		biome=excluded.biome, habitability=excluded.habitability,
		population=excluded.population, culture=excluded.culture,
		town_id=excluded.town_id, nation_id=excluded.nation_id,
		subnation_id=excluded.subnation_id`)
	if err != nil {
		return atlaserr.Backend("store", err, "preparing tile upsert")
	}
	defer stmt.Close()

	for _, t := range w.batch {
		polyWKB, err := encodeGeometry(t.Polygon)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(
			int64(t.ID), t.Site[0], t.Site[1], polyWKB, t.Area, string(t.Edge),
			EncodeNeighborList(t.Neighbors),
			t.Elevation, t.ElevationScaled, string(t.Grouping), t.GroupingID, t.ShoreDistance,
			t.Temperature, t.Wind, t.Precipitation, t.WaterFlow, t.WaterAccumulation,
			encodeIDList(t.FlowTo), int64(t.LakeID), encodeIDList(t.OutletFrom),
			int64(t.Biome), t.Habitability, t.Population,
			int64(t.Culture), int64(t.TownID), int64(t.NationID), int64(t.SubnationID),
		)
		if err != nil {
			return atlaserr.Backend("store", err, "inserting tile %d", t.ID)
		}
	}
	w.batch = w.batch[:0]
	return nil
}

// idType is the constraint shared by every int64-based id alias in
// package worldmap, so the id-list codec can be written once.
type idType interface{ ~int64 }

func encodeIDList[T idType](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func decodeIDList[T idType](s string) ([]T, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, atlaserr.Schema("store", "invalid id list element %q", p)
		}
		out = append(out, T(v))
	}
	return out, nil
}

// ReadTiles loads every tile in the tiles layer, in ascending id order.
func ReadTiles(db *sql.DB) ([]*worldmap.Tile, error) {
	rows, err := db.Query(`SELECT id, site_lon, site_lat, polygon_wkb, area, edge, neighbors,
		elevation, elevation_scaled, grouping, grouping_id, shore_distance,
		temperature, wind, precipitation, water_flow, water_accumulation,
		flow_to, lake_id, outlet_from, biome, habitability, population,
		culture, town_id, nation_id, subnation_id
		FROM tiles ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying tiles")
	}
	defer rows.Close()

	var out []*worldmap.Tile
	for rows.Next() {
		t := &worldmap.Tile{}
		var id int64
		var lon, lat float64
		var polyWKB []byte
		var edge, grouping, neighbors, flowTo, outletFrom string
		var lakeID, biome, culture, townID, nationID, subnationID int64
		if err := rows.Scan(&id, &lon, &lat, &polyWKB, &t.Area, &edge, &neighbors,
			&t.Elevation, &t.ElevationScaled, &grouping, &t.GroupingID, &t.ShoreDistance,
			&t.Temperature, &t.Wind, &t.Precipitation, &t.WaterFlow, &t.WaterAccumulation,
			&flowTo, &lakeID, &outletFrom, &biome, &t.Habitability, &t.Population,
			&culture, &townID, &nationID, &subnationID); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning tile row")
		}
		t.ID = worldmap.TileID(id)
		t.Site = [2]float64{lon, lat}
		poly, err := decodePolygon(polyWKB)
		if err != nil {
			return nil, err
		}
		t.Polygon = poly
		t.Edge = worldmap.Edge(edge)
		t.Grouping, err = DecodeGrouping(grouping)
		if err != nil {
			return nil, err
		}
		t.Neighbors, err = DecodeNeighborList(neighbors)
		if err != nil {
			return nil, err
		}
		t.FlowTo, err = decodeIDList[worldmap.TileID](flowTo)
		if err != nil {
			return nil, err
		}
		t.OutletFrom, err = decodeIDList[worldmap.TileID](outletFrom)
		if err != nil {
			return nil, err
		}
		t.LakeID = worldmap.LakeID(lakeID)
		t.Biome = worldmap.BiomeID(biome)
		t.Culture = worldmap.CultureID(culture)
		t.TownID = worldmap.TownID(townID)
		t.NationID = worldmap.NationID(nationID)
		t.SubnationID = worldmap.SubnationID(subnationID)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, atlaserr.Backend("store", err, "iterating tiles")
	}
	return out, nil
}
