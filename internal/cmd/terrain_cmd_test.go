package cmd

import "testing"

func TestFilenameStem(t *testing.T) {
	cases := map[string]string{
		"recipe.json":          "recipe",
		"/a/b/continents.json": "continents",
		"plain":                "plain",
	}
	for path, want := range cases {
		if got := filenameStem(path); got != want {
			t.Errorf("filenameStem(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseRasterFlagsValidPairs(t *testing.T) {
	out, err := parseRasterFlags([]string{"heightmap=40", "moisture=12.5"}, 7)
	if err != nil {
		t.Fatalf("parseRasterFlags: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rasters, got %d", len(out))
	}
	for _, name := range []string{"heightmap", "moisture"} {
		if _, ok := out[name]; !ok {
			t.Errorf("expected raster %q to be present", name)
		}
	}
}

func TestParseRasterFlagsRejectsMalformedPair(t *testing.T) {
	if _, err := parseRasterFlags([]string{"heightmap"}, 7); err == nil {
		t.Fatal("expected an error for a pair missing '='")
	}
	if _, err := parseRasterFlags([]string{"heightmap=notanumber"}, 7); err == nil {
		t.Fatal("expected an error for a non-numeric scale")
	}
}

func TestParseRasterFlagsEmpty(t *testing.T) {
	out, err := parseRasterFlags(nil, 7)
	if err != nil {
		t.Fatalf("parseRasterFlags: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no rasters, got %d", len(out))
	}
}
