package naming

import "math/rand"

// listPicker is the other NamerMethod: a fixed word list consumed in
// shuffled order, refilling and reshuffling once exhausted so the same
// word can recur across a long run without ever repeating within one
// pass.
type listPicker struct {
	all    []string
	remain []string
}

func newListPicker(words []string) *listPicker {
	cp := make([]string, len(words))
	copy(cp, words)
	return &listPicker{all: cp}
}

func (p *listPicker) makeWord(rng *rand.Rand) string {
	if len(p.all) == 0 {
		return ""
	}
	if len(p.remain) == 0 {
		p.remain = make([]string, len(p.all))
		copy(p.remain, p.all)
		rng.Shuffle(len(p.remain), func(i, j int) {
			p.remain[i], p.remain[j] = p.remain[j], p.remain[i]
		})
	}
	w := p.remain[len(p.remain)-1]
	p.remain = p.remain[:len(p.remain)-1]
	return w
}
