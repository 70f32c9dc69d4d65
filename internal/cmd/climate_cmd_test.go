package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWindsDefaultsWhenNoPath(t *testing.T) {
	winds, err := loadWinds("")
	if err != nil {
		t.Fatalf("loadWinds: %v", err)
	}
	if len(winds) != 0 {
		t.Fatalf("expected the empty default, got %v", winds)
	}
}

func TestLoadWindsParsesLatitudeBands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winds.json")
	if err := os.WriteFile(path, []byte(`{"30": 45, "-30": 225}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	winds, err := loadWinds(path)
	if err != nil {
		t.Fatalf("loadWinds: %v", err)
	}
	if got, want := winds[30], 45.0; got != want {
		t.Errorf("winds[30] = %v, want %v", got, want)
	}
	if got, want := winds[-30], 225.0; got != want {
		t.Errorf("winds[-30] = %v, want %v", got, want)
	}
}

func TestLoadWindsRejectsMalformedBandKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winds.json")
	if err := os.WriteFile(path, []byte(`{"north": 45}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := loadWinds(path); err == nil {
		t.Fatal("expected an error for a non-numeric band key")
	}
}
