package store

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/worldforge/atlas/internal/atlaserr"
)

func encodeGeometry(g orb.Geometry) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	b, err := wkb.Marshal(g)
	if err != nil {
		return nil, atlaserr.Geometry("store", "marshalling geometry: %v", err)
	}
	return b, nil
}

func decodePolygon(b []byte) (orb.Polygon, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, atlaserr.Geometry("store", "unmarshalling polygon: %v", err)
	}
	poly, ok := g.(orb.Polygon)
	if !ok {
		return nil, atlaserr.Schema("store", "expected Polygon, got %T", g)
	}
	return poly, nil
}

func decodeMultiPolygon(b []byte) (orb.MultiPolygon, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, atlaserr.Geometry("store", "unmarshalling multipolygon: %v", err)
	}
	mp, ok := g.(orb.MultiPolygon)
	if !ok {
		return nil, atlaserr.Schema("store", "expected MultiPolygon, got %T", g)
	}
	return mp, nil
}

func decodePoint(b []byte) (orb.Point, error) {
	if len(b) == 0 {
		return orb.Point{}, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return orb.Point{}, atlaserr.Geometry("store", "unmarshalling point: %v", err)
	}
	p, ok := g.(orb.Point)
	if !ok {
		return orb.Point{}, atlaserr.Schema("store", "expected Point, got %T", g)
	}
	return p, nil
}

func decodeLineString(b []byte) (orb.LineString, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, atlaserr.Geometry("store", "unmarshalling linestring: %v", err)
	}
	ls, ok := g.(orb.LineString)
	if !ok {
		return nil, atlaserr.Schema("store", "expected LineString, got %T", g)
	}
	return ls, nil
}
