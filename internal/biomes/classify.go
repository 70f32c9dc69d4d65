package biomes

import (
	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// moistureBand buckets precipitation into 5 bands (dry to wet),
// matching DEFAULT_MATRIX's row count. The reference implementation's
// exact bucket edges were not present in the retrieved source; these
// quartile-style edges are a reasonable stand-in.
func moistureBand(precipitation float64) int {
	switch {
	case precipitation < 25:
		return 0
	case precipitation < 50:
		return 1
	case precipitation < 100:
		return 2
	case precipitation < 150:
		return 3
	default:
		return 4
	}
}

// temperatureBand buckets temperature into DEFAULT_MATRIX's 26 columns,
// running from hot (above 18°C, band 0) to cold (-6°C and below,
// band 25).
func temperatureBand(temp float64) int {
	band := int(19 - temp)
	if band < 0 {
		band = 0
	}
	if band > 25 {
		band = 25
	}
	return band
}

type lookup struct {
	byID    map[worldmap.BiomeID]*worldmap.Biome
	matrix  [5][26]worldmap.BiomeID
	glacier *worldmap.Biome
	wetland *worldmap.Biome
	ocean   *worldmap.Biome
}

func buildLookup(set []*worldmap.Biome) (*lookup, error) {
	l := &lookup{byID: map[worldmap.BiomeID]*worldmap.Biome{}}
	for _, b := range set {
		l.byID[b.ID] = b
		switch b.Criteria.Kind {
		case worldmap.CriteriaOcean:
			if l.ocean != nil {
				return nil, atlaserr.Recipe("biomes", "duplicate ocean biome %q", b.Name)
			}
			l.ocean = b
		case worldmap.CriteriaGlacier:
			if l.glacier != nil {
				return nil, atlaserr.Recipe("biomes", "duplicate glacier biome %q", b.Name)
			}
			l.glacier = b
		case worldmap.CriteriaWetland:
			if l.wetland != nil {
				return nil, atlaserr.Recipe("biomes", "duplicate wetland biome %q", b.Name)
			}
			l.wetland = b
		case worldmap.CriteriaMatrix:
			for _, slot := range b.Criteria.MatrixSlots {
				if l.matrix[slot.Moisture][slot.Temp] != 0 {
					return nil, atlaserr.Recipe("biomes", "duplicate matrix slot (%d,%d)", slot.Moisture, slot.Temp)
				}
				l.matrix[slot.Moisture][slot.Temp] = b.ID
			}
		}
	}
	if l.ocean == nil {
		return nil, atlaserr.Recipe("biomes", "biome set is missing an Ocean entry")
	}
	if l.glacier == nil {
		return nil, atlaserr.Recipe("biomes", "biome set is missing a Glacier entry")
	}
	if l.wetland == nil {
		return nil, atlaserr.Recipe("biomes", "biome set is missing a Wetland entry")
	}
	for m := 0; m < 5; m++ {
		for t := 0; t < 26; t++ {
			if l.matrix[m][t] == 0 {
				return nil, atlaserr.Recipe("biomes", "matrix slot (%d,%d) has no biome", m, t)
			}
		}
	}
	return l, nil
}

// Classify assigns every tile a biome id, checking Ocean, then
// Glacier, then Wetland, then falling back to the moisture/temperature
// matrix (§4, table row 11).
func Classify(m *worldmap.TileMap, set []*worldmap.Biome, obs progress.Observer) error {
	l, err := buildLookup(set)
	if err != nil {
		return err
	}

	obs.StartKnown("Classifying biomes", m.Len())
	i := 0
	m.Each(func(t *worldmap.Tile) {
		t.Biome = classifyTile(t, l)
		i++
		obs.Update(i)
	})
	obs.Finish()
	return nil
}

func classifyTile(t *worldmap.Tile, l *lookup) worldmap.BiomeID {
	if t.Grouping.IsOcean() {
		return l.ocean.ID
	}
	if t.Temperature <= l.glacier.Criteria.GlacierTemp {
		return l.glacier.ID
	}
	if t.WaterFlow >= l.wetland.Criteria.WetThresh {
		return l.wetland.ID
	}
	mb := moistureBand(t.Precipitation)
	tb := temperatureBand(t.Temperature)
	return l.matrix[mb][tb]
}
