package naming

import (
	"math/rand"
	"testing"
)

func testSeeds() []string {
	return []string{"anora", "bethel", "corwin", "dalmoria", "eskander", "farwick"}
}

func TestMarkovMakeWordProducesPronounceableOutput(t *testing.T) {
	g := newMarkovGenerator(MarkovConfig{
		MinLen:    4,
		CutoffLen: 12,
		SeedWords: testSeeds(),
	})
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		w := g.makeWord(rng)
		if len([]rune(w)) < 2 {
			t.Fatalf("word %q shorter than the 2-rune floor", w)
		}
	}
}

func TestListPickerExhaustsBeforeRepeatingWithinAPass(t *testing.T) {
	p := newListPicker([]string{"a", "b", "c"})
	rng := rand.New(rand.NewSource(1))

	seen := map[string]int{}
	for i := 0; i < 3; i++ {
		seen[p.makeWord(rng)]++
	}
	for _, w := range []string{"a", "b", "c"} {
		if seen[w] != 1 {
			t.Fatalf("expected %q exactly once in one pass, got %d", w, seen[w])
		}
	}
}

func TestNamerMakeStateNameIsTitleCased(t *testing.T) {
	set := NewNamerSet()
	set.AddSource(NamerSource{
		Name: "testland",
		MarkovConfig: MarkovConfig{
			MinLen:    4,
			CutoffLen: 10,
			SeedWords: testSeeds(),
		},
		StateSuffix: StateSuffixBehavior{Kind: SuffixDefault},
	})

	namer, err := set.Prepare("testland")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 20; i++ {
		name := namer.MakeStateName(rng)
		if name == "" {
			t.Fatalf("got empty state name")
		}
		if r := []rune(name); r[0] < 'A' || r[0] > 'Z' {
			t.Fatalf("expected title case, got %q", name)
		}
	}
}

func TestValidateSuffixAvoidsDuplicateLetterJoin(t *testing.T) {
	got := validateSuffix("Korin", "nia")
	if got != "Korinia" {
		t.Fatalf("expected the duplicated 'n' to collapse, got %q", got)
	}
	if got := validateSuffix("Dorna", "ia"); got != "Dornaia" {
		t.Fatalf("expected no collapse for a non-duplicate join, got %q", got)
	}
}

func TestPrepareUnknownLanguageErrors(t *testing.T) {
	set := NewNamerSet()
	if _, err := set.Prepare("nope"); err == nil {
		t.Fatalf("expected an error for an unregistered language")
	}
}
