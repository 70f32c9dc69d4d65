package terrain

import (
	"math"
	"math/rand"
	"sort"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/raster"
	"github.com/worldforge/atlas/internal/worldmap"
)

// Loader resolves a Recipe(path) / RecipeSet(path,name) reference to
// file bytes; callers typically wire this to os.ReadFile.
type Loader func(path string) ([]byte, error)

// Driver executes a Recipe against a TileMap, lazily building the
// nearest-site quadtree the first primitive that needs point queries
// runs (§4.2's "point-index dependency" note).
type Driver struct {
	Map     *worldmap.TileMap
	Params  Params
	Rand    *rand.Rand
	Obs     progress.Observer
	Load    Loader
	Rasters map[string]raster.Raster

	index *geometry.SiteIndex
}

func NewDriver(m *worldmap.TileMap, p Params, rng *rand.Rand, obs progress.Observer, load Loader, rasters map[string]raster.Raster) *Driver {
	return &Driver{Map: m, Params: p, Rand: rng, Obs: obs, Load: load, Rasters: rasters}
}

// Run executes every step of the recipe in order.
func (d *Driver) Run(recipe Recipe) error {
	for _, step := range recipe {
		if err := d.runStep(step); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runStep(s Step) error {
	switch s.Kind {
	case KindRecipe:
		return d.runSubRecipe(s.Recipe.Path, "")
	case KindRecipeSet:
		return d.runSubRecipe(s.RecipeSet.Path, s.RecipeSet.Name)
	case KindClear:
		return d.runMultiply(nil, 0)
	case KindClearOcean:
		return d.clearOcean()
	case KindRandomUniform:
		return d.randomUniform(s.RandomUniform)
	case KindAddHill:
		return d.addHill(s.AddHill)
	case KindAddRange:
		return d.addRange(s.AddRange)
	case KindAddStrait:
		return d.addStrait(s.AddStrait)
	case KindMask:
		return d.mask(s.Mask)
	case KindInvert:
		return d.invert(s.Invert)
	case KindAdd:
		return d.add(s.Add)
	case KindMultiply:
		return d.runMultiply(s.Multiply.HeightFilter, s.Multiply.HeightFactor)
	case KindSmooth:
		return d.smooth(s.Smooth)
	case KindSeedOcean:
		return d.seedOcean(s.SeedOcean)
	case KindFloodOcean:
		return d.floodOcean()
	case KindFillOcean:
		return d.fillOcean()
	case KindSampleOceanBelow:
		return d.sampleOceanBelow(s.SampleOceanBelow)
	case KindSampleOceanMasked:
		return d.sampleOceanMasked(s.SampleOceanMasked)
	case KindSampleElevation:
		return d.sampleElevation(s.SampleElevation)
	default:
		return atlaserr.Recipe("terrain", "unhandled primitive %q", s.Kind)
	}
}

func (d *Driver) runSubRecipe(path, name string) error {
	if d.Load == nil {
		return atlaserr.Recipe("terrain", "no recipe loader configured for Recipe(%s)", path)
	}
	data, err := d.Load(path)
	if err != nil {
		return atlaserr.Recipe("terrain", "loading %q: %v", path, err)
	}
	sub, err := ParseRecipeFile(data, name)
	if err != nil {
		return err
	}
	return d.Run(sub)
}

func (d *Driver) ensureIndex() error {
	if d.index != nil {
		return nil
	}
	ids := make([]int64, 0, d.Map.Len())
	sites := make([]orb.Point, 0, d.Map.Len())
	for _, t := range d.Map.Slice() {
		ids = append(ids, int64(t.ID))
		sites = append(sites, t.Site)
	}
	idx, err := geometry.NewSiteIndex(d.Params.Extent.Bound(), ids, sites)
	if err != nil {
		return err
	}
	d.index = idx
	return nil
}

func (d *Driver) nearestTile(p orb.Point) (*worldmap.Tile, error) {
	if err := d.ensureIndex(); err != nil {
		return nil, err
	}
	id, ok := d.index.Nearest(p)
	if !ok {
		return nil, atlaserr.Geometry("terrain", "no tile found nearest %v", p)
	}
	return d.Map.Get(worldmap.TileID(id))
}

func (d *Driver) clearOcean() error {
	for _, t := range d.Map.Slice() {
		if t.Grouping == worldmap.GroupingOcean {
			t.Grouping = worldmap.GroupingContinent
		}
	}
	return nil
}

func (d *Driver) randomUniform(p *RandomUniform) error {
	filter := d.Params.ConvertHeightFilter(p.HeightFilter)
	for _, t := range d.Map.Slice() {
		if !filter.Includes(t.Elevation) {
			continue
		}
		delta := d.Params.SignedHeightDelta(p.HeightDelta.Choose(d.Rand))
		t.Elevation += delta
	}
	return nil
}

// addHill implements the blob-spread propagation exactly as described
// in §4.2: a flood fill where each step's delta decays by blob_power
// with a small multiplicative jitter, queued only while the remaining
// delta still matters.
func (d *Driver) addHill(p *AddHill) error {
	if err := d.ensureIndex(); err != nil {
		return err
	}
	count := p.Count.ChooseInt(d.Rand)
	d.Obs.Announce("Generating %d hills.", count)

	for i := 0; i < count; i++ {
		heightDelta := d.Params.ConvertHeight(math.Abs(p.HeightDelta.Choose(d.Rand)))
		sign := 1.0
		if p.HeightDelta.Choose(d.Rand) < 0 {
			sign = -1.0
		}

		var start *worldmap.Tile
		for limit := 0; ; limit++ {
			x := d.Params.GenX(d.Rand, p.XFilter)
			y := d.Params.GenY(d.Rand, p.YFilter)
			tile, err := d.nearestTile(orb.Point{x, y})
			if err != nil {
				return err
			}
			start = tile
			if limit >= 50 || d.Params.IsElevationWithin(tile.Elevation+heightDelta*sign, 0.9) {
				break
			}
		}

		changes := map[worldmap.TileID]float64{start.ID: heightDelta}
		queue := []worldmap.TileID{start.ID}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			tile, err := d.Map.Get(id)
			if err != nil {
				return err
			}
			last := changes[id]
			for _, n := range tile.Neighbors {
				if n.Neighbor.Kind != worldmap.NeighborTile {
					continue
				}
				nid := worldmap.TileID(n.Neighbor.ID)
				if _, seen := changes[nid]; seen {
					continue
				}
				jitter := d.Rand.Float64()*0.2 + 0.9
				next := math.Pow(last, d.Params.BlobPower) * jitter
				changes[nid] = next
				if next > 1.0 {
					queue = append(queue, nid)
				}
			}
		}

		for id, delta := range changes {
			tile, err := d.Map.Get(id)
			if err != nil {
				return err
			}
			tile.Elevation += delta * sign
		}
	}
	return nil
}

// addRange walks a jagged ridge from one random endpoint to another,
// spreads elevation in decaying rings, then carves occasional
// downhill prominences (§4.2).
func (d *Driver) addRange(p *AddRange) error {
	if err := d.ensureIndex(); err != nil {
		return err
	}
	count := p.Count.ChooseInt(d.Rand)
	d.Obs.Announce("Generating %d ranges.", count)

	lowerDist := d.Params.Extent.Width() / 8.0
	upperDist := d.Params.Extent.Width() / 3.0

	for ri := 0; ri < count; ri++ {
		used := map[worldmap.TileID]bool{}
		heightDelta := d.Params.ConvertHeight(math.Abs(p.HeightDelta.Choose(d.Rand)))
		sign := 1.0
		if p.HeightDelta.Choose(d.Rand) < 0 {
			sign = -1.0
		}

		startX := d.Params.GenX(d.Rand, p.XFilter)
		startY := d.Params.GenY(d.Rand, p.YFilter)
		startPt := orb.Point{startX, startY}

		var endPt orb.Point
		for limit := 0; ; limit++ {
			ex := d.Params.GenEndX(d.Rand)
			ey := d.Params.GenEndY(d.Rand)
			endPt = orb.Point{ex, ey}
			dist := geoDistance(startPt, endPt)
			if limit >= 50 || (dist >= lowerDist && dist <= upperDist) {
				break
			}
		}

		start, err := d.nearestTile(startPt)
		if err != nil {
			return err
		}
		end, err := d.nearestTile(endPt)
		if err != nil {
			return err
		}

		ridge, err := d.walkRange(start.ID, end.ID, used, 0.85)
		if err != nil {
			return err
		}

		queue := append([]worldmap.TileID{}, ridge...)
		spreadCount := 0
		for len(queue) > 0 {
			frontier := queue
			queue = nil
			spreadCount++
			for _, id := range frontier {
				tile, err := d.Map.Get(id)
				if err != nil {
					return err
				}
				tile.Elevation += (heightDelta * (d.Rand.Float64()*0.3 + 0.85)) * sign
				for _, n := range tile.Neighbors {
					if n.Neighbor.Kind != worldmap.NeighborTile {
						continue
					}
					nid := worldmap.TileID(n.Neighbor.ID)
					if !used[nid] {
						used[nid] = true
						queue = append(queue, nid)
					}
				}
			}
			heightDelta = math.Pow(heightDelta, d.Params.LinePower) - 1.0
			if heightDelta < 2.0 {
				break
			}
		}

		for i, id := range ridge {
			if i%6 != 0 {
				continue
			}
			current := id
			for s := 0; s < spreadCount; s++ {
				tile, err := d.Map.Get(current)
				if err != nil {
					return err
				}
				currentElevation := tile.Elevation
				var minID worldmap.TileID
				var minElevation float64
				found := false
				for _, n := range tile.Neighbors {
					if n.Neighbor.Kind != worldmap.NeighborTile {
						continue
					}
					nid := worldmap.TileID(n.Neighbor.ID)
					neighbor, err := d.Map.Get(nid)
					if err != nil {
						return err
					}
					if !found || neighbor.Elevation < minElevation {
						found = true
						minID = nid
						minElevation = neighbor.Elevation
					}
				}
				if !found {
					break
				}
				min, err := d.Map.Get(minID)
				if err != nil {
					return err
				}
				min.Elevation = ((currentElevation * 2.0) + minElevation*sign) / 3.0
				current = minID
			}
		}
	}
	return nil
}

func (d *Driver) walkRange(start, end worldmap.TileID, used map[worldmap.TileID]bool, jaggedProb float64) ([]worldmap.TileID, error) {
	endTile, err := d.Map.Get(end)
	if err != nil {
		return nil, err
	}
	cur := start
	ridge := []worldmap.TileID{cur}
	used[cur] = true
	for cur != end {
		curTile, err := d.Map.Get(cur)
		if err != nil {
			return nil, err
		}
		min := math.Inf(1)
		next := cur
		for _, n := range curTile.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			nid := worldmap.TileID(n.Neighbor.ID)
			if used[nid] {
				continue
			}
			neighborTile, err := d.Map.Get(nid)
			if err != nil {
				return nil, err
			}
			diff := geoDistance(endTile.Site, neighborTile.Site)
			if d.Rand.Float64() < jaggedProb {
				diff /= 2.0
			}
			if diff < min {
				min = diff
				next = nid
			}
		}
		if math.IsInf(min, 1) {
			break
		}
		cur = next
		ridge = append(ridge, cur)
		used[cur] = true
	}
	return ridge, nil
}

func geoDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// addStrait cuts a long gradual trough across the map along a
// horizontal or vertical axis, depth falling off across width tiers.
func (d *Driver) addStrait(p *AddStrait) error {
	width := p.Width.Choose(d.Rand)
	if width < 1 && d.Rand.Float64() < (1-width) {
		return nil
	}
	if width < 1 {
		width = 1
	}
	horizontal := p.Direction == DirectionHorizontal

	axisStart, axisEnd := d.Params.Extent.South, d.Params.Extent.North
	if horizontal {
		axisStart, axisEnd = d.Params.Extent.West, d.Params.Extent.East
	}
	axisMid := (axisStart + axisEnd) / 2

	span := axisEnd - axisStart
	tierWidth := span / 2 / width

	for _, t := range d.Map.Slice() {
		pos := t.Site[1]
		if horizontal {
			pos = t.Site[0]
		}
		dist := math.Abs(pos - axisMid)
		tier := dist / tierWidth
		if tier >= width {
			continue
		}
		depth := math.Pow(0.5, tier)
		t.Elevation -= depth * d.Params.ExpanseAboveSeaLevel * 0.1
	}
	return nil
}

// mask scales elevation toward zero at the map edges by a parabolic
// (1-nx²)(1-ny²) factor, inverted when power is negative, blended
// against the original by |power| (§4.2).
func (d *Driver) mask(p *Mask) error {
	factor := math.Abs(p.Power)
	if factor == 0 {
		factor = 1
	}
	ext := d.Params.Extent
	for _, t := range d.Map.Slice() {
		x := t.Site[0] - ext.West
		y := t.Site[1] - ext.South
		nx := (x*2)/ext.Width() - 1
		ny := (y*2)/ext.Height() - 1
		distance := (1 - nx*nx) * (1 - ny*ny)
		if p.Power < 0 {
			distance = 1 - distance
		}
		masked := t.Elevation * distance
		t.Elevation = ((t.Elevation * (factor - 1)) + masked) / factor
	}
	return nil
}

// invert mirrors elevations across the chosen axes with probability
// p.Probability, via the nearest-point index.
func (d *Driver) invert(p *Invert) error {
	if d.Rand.Float64() >= p.Probability {
		d.Obs.Announce("Inversion improbable, skipping.")
		return nil
	}
	if err := d.ensureIndex(); err != nil {
		return err
	}
	ext := d.Params.Extent
	type change struct {
		id        worldmap.TileID
		elevation float64
	}
	switches := map[worldmap.TileID]worldmap.TileID{}
	var changes []change
	for _, t := range d.Map.Slice() {
		x, y := t.Site[0], t.Site[1]
		switchX, switchY := x, y
		if p.Axes == AxisX || p.Axes == AxisBoth {
			switchX = ext.West + (ext.Width() - (x - ext.West))
		}
		if p.Axes == AxisY || p.Axes == AxisBoth {
			switchY = ext.South + (ext.Height() - (y - ext.South))
		}
		other, ok := switches[t.ID]
		var otherTile *worldmap.Tile
		var err error
		if ok {
			otherTile, err = d.Map.Get(other)
		} else {
			otherTile, err = d.nearestTile(orb.Point{switchX, switchY})
			if err == nil {
				switches[otherTile.ID] = t.ID
			}
		}
		if err != nil {
			return err
		}
		changes = append(changes, change{id: t.ID, elevation: otherTile.Elevation})
	}
	for _, c := range changes {
		tile, err := d.Map.Get(c.id)
		if err != nil {
			return err
		}
		tile.Elevation = c.elevation
	}
	return nil
}

func (d *Driver) add(p *Add) error {
	filter := d.Params.ConvertHeightFilter(p.HeightFilter)
	delta := d.Params.SignedHeightDelta(p.HeightDelta)
	for _, t := range d.Map.Slice() {
		if filter.Includes(t.Elevation) {
			t.Elevation += delta
		}
	}
	return nil
}

func (d *Driver) runMultiply(filterRange *Range, factor float64) error {
	filter := d.Params.ConvertHeightFilter(filterRange)
	for _, t := range d.Map.Slice() {
		if filter.Includes(t.Elevation) {
			t.Elevation *= factor
		}
	}
	return nil
}

func (d *Driver) smooth(p *Smooth) error {
	fr := p.Fr
	if fr == 0 {
		fr = 2
	}
	type change struct {
		id     worldmap.TileID
		newVal float64
	}
	var changes []change
	for _, t := range d.Map.Slice() {
		sum := t.Elevation
		n := 1
		for _, nb := range t.Neighbors {
			if nb.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			neighbor, err := d.Map.Get(worldmap.TileID(nb.Neighbor.ID))
			if err != nil {
				return err
			}
			sum += neighbor.Elevation
			n++
		}
		average := sum / float64(n)
		var newHeight float64
		if fr == 1 {
			newHeight = average
		} else {
			newHeight = d.Params.ClampElevation((t.Elevation*(fr-1) + average) / fr)
		}
		changes = append(changes, change{id: t.ID, newVal: newHeight})
	}
	for _, c := range changes {
		tile, err := d.Map.Get(c.id)
		if err != nil {
			return err
		}
		tile.Elevation = c.newVal
	}
	return nil
}

// seedOcean walks downhill from random start points until a
// below-sea-level tile is reached, and marks it Ocean.
func (d *Driver) seedOcean(p *SeedOcean) error {
	if err := d.ensureIndex(); err != nil {
		return err
	}
	if d.Params.Limits.Min >= 0 {
		d.Obs.Announce("World is above sea level, ocean seeds will not be placed.")
	}
	count := p.Count.ChooseInt(d.Rand)
	d.Obs.Announce("Placing %d ocean seeds.", count)

	for i := 0; i < count; i++ {
		x := d.Params.GenX(d.Rand, p.XFilter)
		y := d.Params.GenY(d.Rand, p.YFilter)
		seed, err := d.nearestTile(orb.Point{x, y})
		if err != nil {
			return err
		}

		found := seed.Elevation < 0
		for !found {
			diff := 0.0
			foundDownslope := false
			for _, nb := range seed.Neighbors {
				if nb.Neighbor.Kind != worldmap.NeighborTile {
					continue
				}
				neighbor, err := d.Map.Get(worldmap.TileID(nb.Neighbor.ID))
				if err != nil {
					return err
				}
				if neighbor.Elevation < seed.Elevation {
					nd := seed.Elevation - neighbor.Elevation
					if nd > diff {
						foundDownslope = true
						diff = nd
						seed = neighbor
						if seed.Elevation < 0 {
							found = true
						}
					}
				}
			}
			if found || !foundDownslope {
				break
			}
		}

		if found {
			seed.Grouping = worldmap.GroupingOcean
		}
	}
	return nil
}

// floodOcean runs a BFS from existing ocean tiles across every
// neighbor whose elevation is below sea level.
func (d *Driver) floodOcean() error {
	queue := []worldmap.TileID{}
	for _, t := range d.Map.Slice() {
		if t.Grouping == worldmap.GroupingOcean {
			queue = append(queue, t.ID)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })
	visited := map[worldmap.TileID]bool{}
	for _, id := range queue {
		visited[id] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		tile, err := d.Map.Get(id)
		if err != nil {
			return err
		}
		for _, nb := range tile.Neighbors {
			if nb.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			nid := worldmap.TileID(nb.Neighbor.ID)
			if visited[nid] {
				continue
			}
			neighbor, err := d.Map.Get(nid)
			if err != nil {
				return err
			}
			if neighbor.Elevation < 0 {
				neighbor.Grouping = worldmap.GroupingOcean
				visited[nid] = true
				queue = append(queue, nid)
			}
		}
	}
	return nil
}

func (d *Driver) fillOcean() error {
	for _, t := range d.Map.Slice() {
		if t.Elevation < 0 {
			t.Grouping = worldmap.GroupingOcean
		}
	}
	return nil
}

func (d *Driver) sampleOceanBelow(p *SampleOceanBelow) error {
	r, err := d.rasterFor(p.Raster)
	if err != nil {
		return err
	}
	for _, t := range d.Map.Slice() {
		if r.Sample(t.Site[0], t.Site[1]) < p.Threshold {
			t.Grouping = worldmap.GroupingOcean
		}
	}
	return nil
}

func (d *Driver) sampleOceanMasked(p *SampleOceanMasked) error {
	r, err := d.rasterFor(p.Raster)
	if err != nil {
		return err
	}
	for _, t := range d.Map.Slice() {
		if r.Sample(t.Site[0], t.Site[1]) > 0 {
			t.Grouping = worldmap.GroupingOcean
		}
	}
	return nil
}

func (d *Driver) sampleElevation(p *SampleElevation) error {
	r, err := d.rasterFor(p.Raster)
	if err != nil {
		return err
	}
	for _, t := range d.Map.Slice() {
		t.Elevation = r.Sample(t.Site[0], t.Site[1])
	}
	return nil
}

func (d *Driver) rasterFor(name string) (raster.Raster, error) {
	r, ok := d.Rasters[name]
	if !ok {
		return nil, atlaserr.Recipe("terrain", "unknown raster %q", name)
	}
	return r, nil
}
