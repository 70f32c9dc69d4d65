// Package naming implements §4.6's name generation: a Markov-chain or
// list-picker word generator per language, plus the state-name suffix
// pipeline applied to nation/subnation names. Ported from the
// reference implementation's naming/mod.rs, which itself is a direct
// port of Azgaar's Fantasy Map Generator's namebase algorithm.
package naming

import (
	"math/rand"
	"strings"
)

// vowels mirrors is_ref_vowel's latin-adjacent vowel set. Only the
// plain ASCII vowels plus 'y' are common in practice, but the full
// accented set is kept so imported namebases in other languages split
// the same way the reference implementation does.
var vowels = map[rune]bool{}

func init() {
	for _, r := range "aeiouyɑ'əøɛœæɶɒɨɪɔɐʊɤɯаоиеёэыуюяàèìòùỳẁȁȅȉȍȕáéíóúýẃőűâêîôûŷŵäëïöüÿẅãẽĩõũỹąęįǫųāēīōūȳăĕĭŏŭǎěǐǒǔȧėȯẏẇạẹịọụỵẉḛḭṵṳ" {
		vowels[r] = true
	}
}

func isVowel(r rune) bool { return vowels[r] }

func choose[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// MarkovConfig is the serializable seed data for one language's chain.
type MarkovConfig struct {
	MinLen              int      `json:"min_len"`
	CutoffLen           int      `json:"cutoff_len"`
	DuplicatableLetters []rune   `json:"duplicatable_letters"`
	SeedWords           []string `json:"seed_words"`
}

// markovGenerator is a compiled Markov chain over pseudo-syllables,
// indexed by the character preceding each syllable; word-initial
// syllables are kept separately in chainStart.
type markovGenerator struct {
	chain             map[rune][]string
	chainStart        []string
	minLen, cutoffLen int
	duplicatable      map[rune]bool
	seedWords         []string
}

func calculateChain(words []string) (map[rune][]string, []string) {
	chain := map[rune][]string{}
	var start []string

	for _, w := range words {
		name := []rune(strings.ToLower(strings.TrimSpace(w)))
		basic := true
		for _, c := range name {
			if c > 0x7f {
				basic = false
				break
			}
		}

		i := 0
		for i < len(name) {
			var prevChar rune
			hasPrev := i > 0
			if hasPrev {
				prevChar = name[i-1]
			}

			var syllable []rune
			vowelFound := false
			for c := i; c < len(name); c++ {
				current := name[c]
				syllable = append(syllable, current)
				s := string(syllable)
				if s == " " || s == "-" {
					break
				}

				var next rune
				hasNext := c+1 < len(name)
				if hasNext {
					next = name[c+1]
					if next == ' ' || next == '-' {
						hasNext = false
					}
				}
				if !hasNext {
					break
				}

				if isVowel(current) {
					vowelFound = true
				}

				isDigraph := false
				switch {
				case current == 'y' && next == 'e':
					isDigraph = true
				case basic && ((current == 'o' && next == 'o') ||
					(current == 'e' && next == 'e') ||
					(current == 'a' && next == 'e') ||
					(current == 'c' && next == 'h')):
					isDigraph = true
				}

				if !isDigraph {
					if isVowel(current) && next == current {
						break
					}
					if vowelFound && c+2 < len(name) && isVowel(name[c+2]) {
						break
					}
				}

				if len(syllable) >= 5 {
					break
				}
			}

			step := len(syllable)
			if step < 1 {
				step = 1
			}
			i += step

			s := string(syllable)
			if hasPrev {
				chain[prevChar] = append(chain[prevChar], s)
			} else {
				start = append(start, s)
			}
		}
	}
	return chain, start
}

func newMarkovGenerator(cfg MarkovConfig) *markovGenerator {
	chain, start := calculateChain(cfg.SeedWords)
	dup := map[rune]bool{}
	for _, r := range cfg.DuplicatableLetters {
		dup[r] = true
	}
	return &markovGenerator{
		chain:        chain,
		chainStart:   start,
		minLen:       cfg.MinLen,
		cutoffLen:    cfg.CutoffLen,
		duplicatable: dup,
		seedWords:    cfg.SeedWords,
	}
}

func (g *markovGenerator) lookup(prev rune, hasPrev bool) []string {
	if !hasPrev {
		return g.chainStart
	}
	if s, ok := g.chain[prev]; ok {
		return s
	}
	return g.chainStart
}

// makeWord generates one raw (lowercase) word from the chain,
// following make_word's walk-and-cutoff algorithm exactly.
func (g *markovGenerator) makeWord(rng *rand.Rand) string {
	choices := g.chainStart
	cur := choose(rng, choices)
	var word strings.Builder

	for n := 0; n < 20; n++ {
		if cur == "" {
			if word.Len() < g.minLen {
				cur = ""
				word.Reset()
				choices = g.chainStart
			} else {
				break
			}
		} else {
			if word.Len()+len(cur) > g.cutoffLen {
				if word.Len() < g.minLen {
					word.WriteString(cur)
				} else if !contains(choices, "") {
					word.WriteString(cur)
				}
				break
			}
			last, hasLast := lastRune(cur)
			choices = g.lookup(last, hasLast)
		}

		word.WriteString(cur)
		cur = choose(rng, choices)
	}

	return g.finalize(rng, word.String())
}

func (g *markovGenerator) finalize(rng *rand.Rand, raw string) string {
	trimmed := strings.TrimRight(raw, "' -")
	word := []rune(trimmed)

	var name []rune
	for i, c := range word {
		if i+1 < len(word) && word[i+1] == c && !g.duplicatable[c] {
			continue
		}
		if len(name) > 0 && name[len(name)-1] == '-' && c == ' ' {
			continue
		}
		if c == 'a' && i+1 < len(word) && word[i+1] == 'e' {
			continue
		}
		if i+2 < len(word) && word[i+1] == c && word[i+2] == c {
			continue
		}
		name = append(name, c)
	}

	result := string(name)
	parts := strings.Split(result, " ")
	for _, p := range parts {
		if len([]rune(p)) < 2 {
			result = strings.Join(parts, "")
			break
		}
	}

	if len([]rune(result)) < 2 {
		return choose(rng, g.seedWords)
	}
	return result
}

func contains(s []string, target string) bool {
	for _, v := range s {
		if v == target {
			return true
		}
	}
	return false
}

func lastRune(s string) (rune, bool) {
	r := []rune(s)
	if len(r) == 0 {
		return 0, false
	}
	return r[len(r)-1], true
}
