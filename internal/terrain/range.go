package terrain

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// Range is the "a..b" / "a..=b" / scalar argument syntax (§4.2).
type Range struct {
	Min, Max  float64
	Inclusive bool
	Single    bool
}

func SingleRange(v float64) Range { return Range{Min: v, Max: v, Single: true} }

// ParseRange parses the textual range syntax used throughout recipe
// primitive arguments.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "..="); idx >= 0 {
		min, err1 := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
		max, err2 := strconv.ParseFloat(strings.TrimSpace(s[idx+3:]), 64)
		if err1 != nil || err2 != nil {
			return Range{}, atlaserr.Recipe("terrain", "invalid range argument %q", s)
		}
		return Range{Min: min, Max: max, Inclusive: true}, nil
	}
	if idx := strings.Index(s, ".."); idx >= 0 {
		min, err1 := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
		max, err2 := strconv.ParseFloat(strings.TrimSpace(s[idx+2:]), 64)
		if err1 != nil || err2 != nil {
			return Range{}, atlaserr.Recipe("terrain", "invalid range argument %q", s)
		}
		return Range{Min: min, Max: max}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Range{}, atlaserr.Recipe("terrain", "invalid range argument %q", s)
	}
	return SingleRange(v), nil
}

func (r Range) String() string {
	if r.Single {
		return formatNumber(r.Min)
	}
	if r.Inclusive {
		return fmt.Sprintf("%s..=%s", formatNumber(r.Min), formatNumber(r.Max))
	}
	return fmt.Sprintf("%s..%s", formatNumber(r.Min), formatNumber(r.Max))
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Range) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Choose picks a uniform random value in the range (the endpoint
// itself, for a Single range).
func (r Range) Choose(rng *rand.Rand) float64 {
	if r.Single {
		return r.Min
	}
	lo, hi := r.Min, r.Max
	if r.Inclusive {
		return lo + rng.Float64()*(hi-lo)
	}
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// ChooseInt is Choose truncated toward zero to an integer count, always
// at least 0.
func (r Range) ChooseInt(rng *rand.Rand) int {
	v := int(r.Choose(rng))
	if v < 0 {
		return 0
	}
	return v
}

// Includes reports whether v lies in the (possibly open) range.
func (r Range) Includes(v float64) bool {
	if r.Single {
		return v == r.Min
	}
	if r.Inclusive {
		return v >= r.Min && v <= r.Max
	}
	return v >= r.Min && v < r.Max
}

// ConvertHeightFilter turns a relative-height Range (values in
// [-100,100]) into an absolute elevation Range via Params, applying
// floor/ceil truncation exactly as the original recipe driver does.
func (p Params) ConvertHeightFilter(r *Range) Range {
	if r == nil {
		return Range{Min: p.Limits.Min, Max: p.Limits.Max, Inclusive: true}
	}
	if r.Single {
		v := p.ConvertHeightFloor(r.Min)
		vc := p.ConvertHeightCeil(r.Min)
		return Range{Min: v, Max: vc, Inclusive: true}
	}
	return Range{
		Min:       p.ConvertHeightFloor(r.Min),
		Max:       p.ConvertHeightCeil(r.Max),
		Inclusive: r.Inclusive,
	}
}

// GenX / GenY map a percentage-of-extent Range onto absolute
// longitude/latitude coordinates within the params' extent.
func (p Params) GenX(rng *rand.Rand, r Range) float64 {
	x := (r.Choose(rng) / 100.0) * p.Extent.Width()
	return p.Extent.West + clampF(x, 0, p.Extent.Width())
}

func (p Params) GenY(rng *rand.Rand, r Range) float64 {
	y := (r.Choose(rng) / 100.0) * p.Extent.Height()
	return p.Extent.South + clampF(y, 0, p.Extent.Height())
}

// GenEndX / GenEndY pick a far endpoint for AddRange, biased toward
// the interior of the map.
func (p Params) GenEndX(rng *rand.Rand) float64 {
	return rng.Float64()*(p.Extent.Width()*0.8) + p.Extent.Width()*0.1 + p.Extent.West
}

func (p Params) GenEndY(rng *rand.Rand) float64 {
	return rng.Float64()*(p.Extent.Height()*0.7) + p.Extent.Height()*0.15 + p.Extent.South
}
