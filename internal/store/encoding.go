package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/worldmap"
)

// This file implements the tagged-text codec from §6: compound values
// are encoded as human-readable text. Unit variants are bare
// identifiers, tuple variants are "Name(a,b,...)", and sequences are
// "[a,b,...]". Neighbor is untagged: the shape of the text
// discriminates the variant.

// EncodeNeighbor renders a Neighbor per the untagged scheme: a bare
// integer is a Tile, "(int,edge)" is a CrossMap, and a bare edge
// identifier is an OffMap.
func EncodeNeighbor(n worldmap.Neighbor) string {
	switch n.Kind {
	case worldmap.NeighborTile:
		return strconv.FormatInt(int64(n.ID), 10)
	case worldmap.NeighborCrossMap:
		return fmt.Sprintf("(%d,%s)", n.ID, n.Edge)
	case worldmap.NeighborOffMap:
		return string(n.Edge)
	default:
		return ""
	}
}

// DecodeNeighbor parses the untagged Neighbor encoding.
func DecodeNeighbor(s string) (worldmap.Neighbor, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		parts := strings.SplitN(inner, ",", 2)
		if len(parts) != 2 {
			return worldmap.Neighbor{}, atlaserr.Schema("store", "invalid CrossMap neighbor %q", s)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return worldmap.Neighbor{}, atlaserr.Schema("store", "invalid CrossMap tile id in %q: %v", s, err)
		}
		return worldmap.CrossMap(worldmap.TileID(id), worldmap.Edge(strings.TrimSpace(parts[1]))), nil
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return worldmap.TileNeighbor(worldmap.TileID(id)), nil
	}
	return worldmap.OffMap(worldmap.Edge(s)), nil
}

// EncodeNeighborList renders the full NeighborAndBearing list as a
// bracketed sequence of "(neighbor,bearing)" pairs.
func EncodeNeighborList(list []worldmap.NeighborAndBearing) string {
	parts := make([]string, len(list))
	for i, nb := range list {
		parts[i] = fmt.Sprintf("(%s,%s)", EncodeNeighbor(nb.Neighbor), formatFloat(nb.Bearing))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// DecodeNeighborList parses the bracketed sequence produced by EncodeNeighborList.
func DecodeNeighborList(s string) ([]worldmap.NeighborAndBearing, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, atlaserr.Schema("store", "invalid neighbor list %q", s)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, nil
	}
	items, err := splitTopLevel(inner)
	if err != nil {
		return nil, err
	}
	out := make([]worldmap.NeighborAndBearing, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		item = strings.TrimSuffix(strings.TrimPrefix(item, "("), ")")
		idx := strings.LastIndex(item, ",")
		if idx < 0 {
			return nil, atlaserr.Schema("store", "invalid neighbor pair %q", item)
		}
		// The neighbor portion may itself contain a comma (CrossMap), so
		// rejoin everything before the bearing, which is the last field.
		nbPart, bearingPart := rejoinNeighbor(item, idx)
		n, err := DecodeNeighbor(nbPart)
		if err != nil {
			return nil, err
		}
		bearing, err := strconv.ParseFloat(strings.TrimSpace(bearingPart), 64)
		if err != nil {
			return nil, atlaserr.Schema("store", "invalid bearing in %q: %v", item, err)
		}
		out = append(out, worldmap.NeighborAndBearing{Neighbor: n, Bearing: bearing})
	}
	return out, nil
}

// rejoinNeighbor splits "(a,b),bearing"-shaped text correctly by
// preferring the paren-closing boundary over a naive last comma.
func rejoinNeighbor(item string, fallback int) (string, string) {
	if close := strings.LastIndex(item, ")"); close >= 0 && close+1 < len(item) && item[close+1] == ',' {
		return item[:close+1], item[close+2:]
	}
	return item[:fallback], item[fallback+1:]
}

// splitTopLevel splits a comma-separated list, respecting nested parens.
func splitTopLevel(s string) ([]string, error) {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, atlaserr.Schema("store", "unbalanced parens in %q", s)
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// EncodeGrouping renders a Grouping as its bare identifier.
func EncodeGrouping(g worldmap.Grouping) string { return string(g) }

// DecodeGrouping parses a Grouping identifier.
func DecodeGrouping(s string) (worldmap.Grouping, error) {
	switch worldmap.Grouping(s) {
	case worldmap.GroupingOcean, worldmap.GroupingLake, worldmap.GroupingContinent,
		worldmap.GroupingIsland, worldmap.GroupingIslet, worldmap.GroupingLakeIsland:
		return worldmap.Grouping(s), nil
	default:
		return "", atlaserr.Schema("store", "invalid Grouping value %q", s)
	}
}

// EncodeLakeType renders a LakeType as its bare identifier.
func EncodeLakeType(t worldmap.LakeType) string { return string(t) }

// DecodeLakeType parses a LakeType identifier.
func DecodeLakeType(s string) (worldmap.LakeType, error) {
	switch worldmap.LakeType(s) {
	case worldmap.LakeFresh, worldmap.LakeSalt, worldmap.LakeFrozen,
		worldmap.LakePluvial, worldmap.LakeDry, worldmap.LakeMarsh:
		return worldmap.LakeType(s), nil
	default:
		return "", atlaserr.Schema("store", "InvalidValueForLakeType: %q", s)
	}
}

// EncodeEdge renders an Edge as its bare identifier (may be empty).
func EncodeEdge(e worldmap.Edge) string { return string(e) }

// DecodeEdge parses an Edge identifier.
func DecodeEdge(s string) worldmap.Edge { return worldmap.Edge(s) }

// EncodeBool renders a bool as 0/1 per §6.
func EncodeBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DecodeBool parses the 0/1 integer encoding.
func DecodeBool(v int) bool { return v != 0 }

// EncodeBiomeCriteria renders a BiomeCriteria as a tagged tuple/sequence.
func EncodeBiomeCriteria(c worldmap.BiomeCriteria) string {
	switch c.Kind {
	case worldmap.CriteriaOcean:
		return "Ocean"
	case worldmap.CriteriaGlacier:
		return fmt.Sprintf("Glacier(%s)", formatFloat(c.GlacierTemp))
	case worldmap.CriteriaWetland:
		return fmt.Sprintf("Wetland(%s)", formatFloat(c.WetThresh))
	case worldmap.CriteriaMatrix:
		parts := make([]string, len(c.MatrixSlots))
		for i, s := range c.MatrixSlots {
			parts[i] = fmt.Sprintf("(%d,%d)", s.Moisture, s.Temp)
		}
		return "Matrix([" + strings.Join(parts, ",") + "])"
	default:
		return ""
	}
}

// DecodeBiomeCriteria parses the BiomeCriteria tagged encoding.
func DecodeBiomeCriteria(s string) (worldmap.BiomeCriteria, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "Ocean":
		return worldmap.BiomeCriteria{Kind: worldmap.CriteriaOcean}, nil
	case strings.HasPrefix(s, "Glacier("):
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimPrefix(s, "Glacier("), ")"), 64)
		if err != nil {
			return worldmap.BiomeCriteria{}, atlaserr.Schema("store", "InvalidBiomeMatrixValue in %q", s)
		}
		return worldmap.BiomeCriteria{Kind: worldmap.CriteriaGlacier, GlacierTemp: v}, nil
	case strings.HasPrefix(s, "Wetland("):
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimPrefix(s, "Wetland("), ")"), 64)
		if err != nil {
			return worldmap.BiomeCriteria{}, atlaserr.Schema("store", "InvalidBiomeMatrixValue in %q", s)
		}
		return worldmap.BiomeCriteria{Kind: worldmap.CriteriaWetland, WetThresh: v}, nil
	case strings.HasPrefix(s, "Matrix(["):
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "Matrix(["), "])")
		items, err := splitTopLevel(inner)
		if err != nil {
			return worldmap.BiomeCriteria{}, err
		}
		var slots []worldmap.MoistureTempBand
		for _, item := range items {
			item = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(item), "("), ")"))
			if item == "" {
				continue
			}
			parts := strings.SplitN(item, ",", 2)
			if len(parts) != 2 {
				return worldmap.BiomeCriteria{}, atlaserr.Schema("store", "InvalidBiomeMatrixValue %q", item)
			}
			m, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			t, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil {
				return worldmap.BiomeCriteria{}, atlaserr.Schema("store", "InvalidBiomeMatrixValue %q", item)
			}
			slots = append(slots, worldmap.MoistureTempBand{Moisture: m, Temp: t})
		}
		return worldmap.BiomeCriteria{Kind: worldmap.CriteriaMatrix, MatrixSlots: slots}, nil
	default:
		return worldmap.BiomeCriteria{}, atlaserr.Schema("store", "invalid BiomeCriteria value %q", s)
	}
}
