package store

import (
	"database/sql"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/worldmap"
)

// RiverWriter batches river segment inserts.
type RiverWriter struct {
	tx        *sql.Tx
	batch     []worldmap.RiverSegment
	batchSize int
}

// NewRiverWriter returns a batched writer bound to an open transaction.
func NewRiverWriter(tx *sql.Tx) *RiverWriter {
	return &RiverWriter{tx: tx, batch: make([]worldmap.RiverSegment, 0, DefaultBatchSize), batchSize: DefaultBatchSize}
}

// Put stages a river segment, flushing automatically once the batch fills.
func (w *RiverWriter) Put(seg worldmap.RiverSegment) error {
	w.batch = append(w.batch, seg)
	if len(w.batch) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes any buffered segments immediately.
func (w *RiverWriter) Flush() error {
	if len(w.batch) == 0 {
		return nil
	}
	stmt, err := w.tx.Prepare(`INSERT INTO rivers (from_tile, to_tile, from_type, to_type, flows, line_wkb)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return atlaserr.Backend("store", err, "preparing river insert")
	}
	defer stmt.Close()

	for _, seg := range w.batch {
		lineWKB, err := encodeGeometry(seg.Line)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(int64(seg.FromTile), int64(seg.ToTile), string(seg.FromType), string(seg.ToType), seg.Flows, lineWKB); err != nil {
			return atlaserr.Backend("store", err, "inserting river segment %d->%d", seg.FromTile, seg.ToTile)
		}
	}
	w.batch = w.batch[:0]
	return nil
}

// ReadRivers loads every river segment in insertion order.
func ReadRivers(db *sql.DB) ([]worldmap.RiverSegment, error) {
	rows, err := db.Query(`SELECT from_tile, to_tile, from_type, to_type, flows, line_wkb FROM rivers ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying rivers")
	}
	defer rows.Close()

	var out []worldmap.RiverSegment
	for rows.Next() {
		var seg worldmap.RiverSegment
		var from, to int64
		var fromType, toType string
		var lineWKB []byte
		if err := rows.Scan(&from, &to, &fromType, &toType, &seg.Flows, &lineWKB); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning river row")
		}
		seg.FromTile = worldmap.TileID(from)
		seg.ToTile = worldmap.TileID(to)
		seg.FromType = worldmap.RiverNodeKind(fromType)
		seg.ToType = worldmap.RiverNodeKind(toType)
		line, err := decodeLineString(lineWKB)
		if err != nil {
			return nil, err
		}
		seg.Line = line
		out = append(out, seg)
	}
	return out, rows.Err()
}
