package terrain

import (
	"encoding/json"
	"fmt"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// Kind tags a recipe step's variant for the externally-tagged JSON
// encoding (§4.2, §6).
type Kind string

const (
	KindRecipe            Kind = "Recipe"
	KindRecipeSet         Kind = "RecipeSet"
	KindClear             Kind = "Clear"
	KindClearOcean        Kind = "ClearOcean"
	KindRandomUniform     Kind = "RandomUniform"
	KindAddHill           Kind = "AddHill"
	KindAddRange          Kind = "AddRange"
	KindAddStrait         Kind = "AddStrait"
	KindMask              Kind = "Mask"
	KindInvert            Kind = "Invert"
	KindAdd               Kind = "Add"
	KindMultiply          Kind = "Multiply"
	KindSmooth            Kind = "Smooth"
	KindSeedOcean         Kind = "SeedOcean"
	KindFloodOcean        Kind = "FloodOcean"
	KindFillOcean         Kind = "FillOcean"
	KindSampleOceanBelow  Kind = "SampleOceanBelow"
	KindSampleOceanMasked Kind = "SampleOceanMasked"
	KindSampleElevation   Kind = "SampleElevation"
)

type RecipeRef struct {
	Path string `json:"path"`
}

type RecipeSetRef struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

type Clear struct{}

type ClearOcean struct{}

type RandomUniform struct {
	HeightFilter *Range `json:"height_filter,omitempty"`
	HeightDelta  Range  `json:"height_delta"`
}

type AddHill struct {
	Count       Range `json:"count"`
	HeightDelta Range `json:"height_delta"`
	XFilter     Range `json:"x_filter"`
	YFilter     Range `json:"y_filter"`
}

type AddRange struct {
	Count       Range `json:"count"`
	HeightDelta Range `json:"height_delta"`
	XFilter     Range `json:"x_filter"`
	YFilter     Range `json:"y_filter"`
}

type Direction string

const (
	DirectionHorizontal Direction = "Horizontal"
	DirectionVertical   Direction = "Vertical"
)

type AddStrait struct {
	Width     Range     `json:"width"`
	Direction Direction `json:"direction"`
}

type Mask struct {
	Power float64 `json:"power"`
}

type Axes string

const (
	AxisX    Axes = "X"
	AxisY    Axes = "Y"
	AxisBoth Axes = "Both"
)

type Invert struct {
	Probability float64 `json:"probability"`
	Axes        Axes    `json:"axes"`
}

type Add struct {
	HeightFilter *Range  `json:"height_filter,omitempty"`
	HeightDelta  float64 `json:"height_delta"`
}

type Multiply struct {
	HeightFilter *Range  `json:"height_filter,omitempty"`
	HeightFactor float64 `json:"height_factor"`
}

type Smooth struct {
	Fr float64 `json:"fr"`
}

type SeedOcean struct {
	Count   Range `json:"count"`
	XFilter Range `json:"x_filter"`
	YFilter Range `json:"y_filter"`
}

type FloodOcean struct{}

type FillOcean struct{}

type SampleOceanBelow struct {
	Raster    string  `json:"raster"`
	Threshold float64 `json:"threshold"`
}

type SampleOceanMasked struct {
	Raster string `json:"raster"`
}

type SampleElevation struct {
	Raster string `json:"raster"`
}

// Step is one element of a recipe: exactly one of its variant fields
// is populated, matching Kind.
type Step struct {
	Kind Kind

	Recipe            *RecipeRef
	RecipeSet         *RecipeSetRef
	Clear             *Clear
	ClearOcean        *ClearOcean
	RandomUniform     *RandomUniform
	AddHill           *AddHill
	AddRange          *AddRange
	AddStrait         *AddStrait
	Mask              *Mask
	Invert            *Invert
	Add               *Add
	Multiply          *Multiply
	Smooth            *Smooth
	SeedOcean         *SeedOcean
	FloodOcean        *FloodOcean
	FillOcean         *FillOcean
	SampleOceanBelow  *SampleOceanBelow
	SampleOceanMasked *SampleOceanMasked
	SampleElevation   *SampleElevation
}

// Recipe is an ordered list of terrain primitives.
type Recipe []Step

// RecipeSet maps a recipe name to its steps, as loaded from a
// `RecipeSet(path, name?)` file.
type RecipeSet map[string]Recipe

func (s Step) MarshalJSON() ([]byte, error) {
	var payload any
	switch s.Kind {
	case KindRecipe:
		payload = s.Recipe
	case KindRecipeSet:
		payload = s.RecipeSet
	case KindClear:
		payload = struct{}{}
	case KindClearOcean:
		payload = struct{}{}
	case KindRandomUniform:
		payload = s.RandomUniform
	case KindAddHill:
		payload = s.AddHill
	case KindAddRange:
		payload = s.AddRange
	case KindAddStrait:
		payload = s.AddStrait
	case KindMask:
		payload = s.Mask
	case KindInvert:
		payload = s.Invert
	case KindAdd:
		payload = s.Add
	case KindMultiply:
		payload = s.Multiply
	case KindSmooth:
		payload = s.Smooth
	case KindSeedOcean:
		payload = s.SeedOcean
	case KindFloodOcean:
		payload = struct{}{}
	case KindFillOcean:
		payload = struct{}{}
	case KindSampleOceanBelow:
		payload = s.SampleOceanBelow
	case KindSampleOceanMasked:
		payload = s.SampleOceanMasked
	case KindSampleElevation:
		payload = s.SampleElevation
	default:
		return nil, fmt.Errorf("terrain: unknown step kind %q", s.Kind)
	}
	return json.Marshal(map[string]any{string(s.Kind): payload})
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if len(wrapper) != 1 {
		return atlaserr.Recipe("terrain", "recipe step must have exactly one tag, got %d", len(wrapper))
	}
	for k, raw := range wrapper {
		kind := Kind(k)
		s.Kind = kind
		switch kind {
		case KindRecipe:
			s.Recipe = &RecipeRef{}
			return json.Unmarshal(raw, s.Recipe)
		case KindRecipeSet:
			s.RecipeSet = &RecipeSetRef{}
			return json.Unmarshal(raw, s.RecipeSet)
		case KindClear:
			s.Clear = &Clear{}
			return nil
		case KindClearOcean:
			s.ClearOcean = &ClearOcean{}
			return nil
		case KindRandomUniform:
			s.RandomUniform = &RandomUniform{}
			return json.Unmarshal(raw, s.RandomUniform)
		case KindAddHill:
			s.AddHill = &AddHill{}
			return json.Unmarshal(raw, s.AddHill)
		case KindAddRange:
			s.AddRange = &AddRange{}
			return json.Unmarshal(raw, s.AddRange)
		case KindAddStrait:
			s.AddStrait = &AddStrait{}
			return json.Unmarshal(raw, s.AddStrait)
		case KindMask:
			s.Mask = &Mask{}
			return json.Unmarshal(raw, s.Mask)
		case KindInvert:
			s.Invert = &Invert{}
			return json.Unmarshal(raw, s.Invert)
		case KindAdd:
			s.Add = &Add{}
			return json.Unmarshal(raw, s.Add)
		case KindMultiply:
			s.Multiply = &Multiply{}
			return json.Unmarshal(raw, s.Multiply)
		case KindSmooth:
			s.Smooth = &Smooth{}
			return json.Unmarshal(raw, s.Smooth)
		case KindSeedOcean:
			s.SeedOcean = &SeedOcean{}
			return json.Unmarshal(raw, s.SeedOcean)
		case KindFloodOcean:
			s.FloodOcean = &FloodOcean{}
			return nil
		case KindFillOcean:
			s.FillOcean = &FillOcean{}
			return nil
		case KindSampleOceanBelow:
			s.SampleOceanBelow = &SampleOceanBelow{}
			return json.Unmarshal(raw, s.SampleOceanBelow)
		case KindSampleOceanMasked:
			s.SampleOceanMasked = &SampleOceanMasked{}
			return json.Unmarshal(raw, s.SampleOceanMasked)
		case KindSampleElevation:
			s.SampleElevation = &SampleElevation{}
			return json.Unmarshal(raw, s.SampleElevation)
		default:
			return atlaserr.Recipe("terrain", "unknown recipe primitive %q", k)
		}
	}
	return nil
}

// ParseRecipeFile decodes a recipe file's contents, accepting either a
// bare JSON array of steps or an object mapping recipe-name to steps
// (in which case name selects one, or the sole entry is used if name
// is empty).
func ParseRecipeFile(data []byte, name string) (Recipe, error) {
	var arr Recipe
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, nil
	}
	var set RecipeSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, atlaserr.Recipe("terrain", "malformed recipe file: %v", err)
	}
	if name != "" {
		r, ok := set[name]
		if !ok {
			return nil, atlaserr.Recipe("terrain", "unknown recipe name %q", name)
		}
		return r, nil
	}
	if len(set) != 1 {
		return nil, atlaserr.Recipe("terrain", "recipe file has %d named recipes, specify one", len(set))
	}
	for _, r := range set {
		return r, nil
	}
	return nil, nil
}
