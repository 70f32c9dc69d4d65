package naming

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// NamerSource is the serializable definition of one language: either a
// Markov config (MinLen/CutoffLen/SeedWords populated) or a flat word
// list consumed as a ListPicker (Words populated, MarkovConfig left
// zero).
type NamerSource struct {
	Name         string              `json:"name"`
	MarkovConfig MarkovConfig        `json:"markov,omitempty"`
	Words        []string            `json:"words,omitempty"`
	StateName    []StateNameBehavior `json:"state_name,omitempty"`
	StateSuffix  StateSuffixBehavior `json:"state_suffix,omitempty"`
}

func (s NamerSource) isMarkov() bool {
	return len(s.MarkovConfig.SeedWords) > 0
}

// NamerSet owns every language's raw source data and lazily compiles
// each into a Namer on first use, mirroring the reference
// implementation's NamerSet::prepare laziness.
type NamerSet struct {
	sources  map[string]NamerSource
	prepared map[string]*Namer
}

// NewNamerSet returns an empty set; languages are added via
// AddSource, ExtendFromJSON, or ExtendFromText.
func NewNamerSet() *NamerSet {
	return &NamerSet{
		sources:  map[string]NamerSource{},
		prepared: map[string]*Namer{},
	}
}

// AddSource registers (or replaces) one language's raw definition.
func (s *NamerSet) AddSource(src NamerSource) {
	s.sources[src.Name] = src
	delete(s.prepared, src.Name)
}

// ExtendFromJSON loads a JSON array of NamerSource values, as the
// reference implementation's add_language/extend_from_json does for a
// namebase manifest.
func (s *NamerSet) ExtendFromJSON(r io.Reader) error {
	var sources []NamerSource
	if err := json.NewDecoder(r).Decode(&sources); err != nil {
		return &atlaserr.Error{Kind: atlaserr.KindRecipe, Stage: "naming", Message: "decode namer json", Cause: err}
	}
	for _, src := range sources {
		s.AddSource(src)
	}
	return nil
}

// ExtendFromText loads a plain word list (one word per line) as a
// ListPicker-backed language, matching extend_from_text's handling of
// a bare .txt namebase file.
func (s *NamerSet) ExtendFromText(language string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &atlaserr.Error{Kind: atlaserr.KindRecipe, Stage: "naming", Message: "read namer text", Cause: err}
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	s.AddSource(NamerSource{Name: language, Words: words})
	return nil
}

// ExtendFromFile dispatches on extension: .json loads a manifest of
// sources, anything else (.txt by convention) loads a single
// ListPicker language named after the file stem.
func (s *NamerSet) ExtendFromFile(path string, r io.Reader) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return s.ExtendFromJSON(r)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s.ExtendFromText(stem, r)
}

// ListLanguages returns every registered language name.
func (s *NamerSet) ListLanguages() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	return names
}

// Prepare compiles (and caches) the Namer for one language.
func (s *NamerSet) Prepare(name string) (*Namer, error) {
	if n, ok := s.prepared[name]; ok {
		return n, nil
	}
	src, ok := s.sources[name]
	if !ok {
		return nil, atlaserr.Recipe("naming", "unknown language %q", name)
	}

	var method namerMethod
	if src.isMarkov() {
		method = newMarkovGenerator(src.MarkovConfig)
	} else {
		method = newListPicker(src.Words)
	}

	n := &Namer{
		method:      method,
		stateName:   src.StateName,
		stateSuffix: src.StateSuffix,
	}
	s.prepared[name] = n
	return n, nil
}
