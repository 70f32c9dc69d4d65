package terrain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRangeRoundTripsThroughJSON(t *testing.T) {
	cases := []Range{
		SingleRange(5),
		SingleRange(-12.5),
		{Min: 1, Max: 10},
		{Min: -50, Max: 50, Inclusive: true},
		{Min: -100, Max: 100, Inclusive: true},
	}
	for _, want := range cases {
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %+v: %v", want, err)
		}
		var got Range
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if got != want {
			t.Errorf("round-trip %+v through %s produced %+v", want, data, got)
		}
	}
}

func TestParseRangeSyntaxForms(t *testing.T) {
	cases := map[string]Range{
		"5":        SingleRange(5),
		"-12.5":    SingleRange(-12.5),
		"1..10":    {Min: 1, Max: 10},
		"-50..=50": {Min: -50, Max: 50, Inclusive: true},
	}
	for s, want := range cases {
		got, err := ParseRange(s)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseRange(%q) = %+v, want %+v", s, got, want)
		}
	}
}

// recipeSteps builds one Step per Kind, each with its variant field
// populated, for the round-trip property test below.
func recipeSteps() []Step {
	return []Step{
		{Kind: KindRecipe, Recipe: &RecipeRef{Path: "sub.json"}},
		{Kind: KindRecipeSet, RecipeSet: &RecipeSetRef{Path: "sub.json", Name: "continents"}},
		{Kind: KindClear, Clear: &Clear{}},
		{Kind: KindClearOcean, ClearOcean: &ClearOcean{}},
		{Kind: KindRandomUniform, RandomUniform: &RandomUniform{
			HeightFilter: &Range{Min: -10, Max: 10, Inclusive: true},
			HeightDelta:  SingleRange(3),
		}},
		{Kind: KindAddHill, AddHill: &AddHill{
			Count:       SingleRange(1),
			HeightDelta: Range{Min: 20, Max: 50, Inclusive: true},
			XFilter:     Range{Min: 40, Max: 60, Inclusive: true},
			YFilter:     Range{Min: 40, Max: 60, Inclusive: true},
		}},
		{Kind: KindAddRange, AddRange: &AddRange{
			Count:       SingleRange(1),
			HeightDelta: Range{Min: -30, Max: -15, Inclusive: true},
			XFilter:     Range{Min: 0, Max: 100, Inclusive: true},
			YFilter:     Range{Min: 0, Max: 100, Inclusive: true},
		}},
		{Kind: KindAddStrait, AddStrait: &AddStrait{Width: SingleRange(2), Direction: DirectionVertical}},
		{Kind: KindMask, Mask: &Mask{Power: 2}},
		{Kind: KindInvert, Invert: &Invert{Probability: 0.5, Axes: AxisBoth}},
		{Kind: KindAdd, Add: &Add{HeightFilter: &Range{Min: 0, Max: 100, Inclusive: true}, HeightDelta: 5}},
		{Kind: KindMultiply, Multiply: &Multiply{HeightFactor: 1.5}},
		{Kind: KindSmooth, Smooth: &Smooth{Fr: 3}},
		{Kind: KindSeedOcean, SeedOcean: &SeedOcean{
			Count:   SingleRange(1),
			XFilter: SingleRange(50),
			YFilter: SingleRange(50),
		}},
		{Kind: KindFloodOcean, FloodOcean: &FloodOcean{}},
		{Kind: KindFillOcean, FillOcean: &FillOcean{}},
		{Kind: KindSampleOceanBelow, SampleOceanBelow: &SampleOceanBelow{Raster: "bathymetry", Threshold: 0.3}},
		{Kind: KindSampleOceanMasked, SampleOceanMasked: &SampleOceanMasked{Raster: "mask"}},
		{Kind: KindSampleElevation, SampleElevation: &SampleElevation{Raster: "heightmap"}},
	}
}

// TestRecipeRoundTripsThroughJSON is the universal "Recipe round-trip"
// property test (§8): every step kind must marshal and unmarshal back
// to an equal value, and a whole Recipe must survive the round trip too.
func TestRecipeRoundTripsThroughJSON(t *testing.T) {
	for _, want := range recipeSteps() {
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("marshal %s step: %v", want.Kind, err)
		}
		var got Step
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s step from %s: %v", want.Kind, data, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s step round-trip mismatch:\n got  %+v\n want %+v\n json %s", want.Kind, got, want, data)
		}
	}

	recipe := Recipe(recipeSteps())
	data, err := json.Marshal(recipe)
	if err != nil {
		t.Fatalf("marshal recipe: %v", err)
	}
	parsed, err := ParseRecipeFile(data, "")
	if err != nil {
		t.Fatalf("ParseRecipeFile: %v", err)
	}
	if !reflect.DeepEqual(parsed, recipe) {
		t.Fatalf("recipe round-trip mismatch:\n got  %+v\n want %+v", parsed, recipe)
	}
}

func TestParseRecipeFileSelectsNamedSetMember(t *testing.T) {
	data := []byte(`{"continents": [{"Clear": {}}], "islands": [{"ClearOcean": {}}]}`)

	got, err := ParseRecipeFile(data, "islands")
	if err != nil {
		t.Fatalf("ParseRecipeFile: %v", err)
	}
	if len(got) != 1 || got[0].Kind != KindClearOcean {
		t.Fatalf("expected the islands recipe, got %+v", got)
	}

	if _, err := ParseRecipeFile(data, "mountains"); err == nil {
		t.Fatal("expected an error for an unknown recipe name")
	}

	if _, err := ParseRecipeFile(data, ""); err == nil {
		t.Fatal("expected an error when a multi-recipe file has no name selected")
	}
}
