package lower

import (
	"strconv"

	"github.com/strager/guestc/tree"
)

// Namer mints temporaries that are unique within one pass. The counter
// alone makes names unique except when a base ends in digits (arr1 + 1 and
// arr + 11 both spell arr11), so every minted name is also remembered.
type Namer struct {
	prefix string
	n      int
	minted map[string]struct{}
}

func NewNamer(prefix string) *Namer {
	return &Namer{prefix: prefix, minted: make(map[string]struct{})}
}

// Next returns a fresh temporary named after base.
func (m *Namer) Next(base string) tree.Ident {
	for {
		m.n++
		name := m.spell(base)
		if m.claim(name) {
			return tree.Ident(name)
		}
	}
}

// Pair returns two fresh temporaries sharing one counter value, for
// constructs that need a matched pair such as if_result_true3 and
// if_result_false3. The bases must differ.
func (m *Namer) Pair(a, b string) (tree.Ident, tree.Ident) {
	if a == b {
		panic(errorf(nil, "temporary pair needs two different bases, got %q twice", a))
	}
	for {
		m.n++
		first, second := m.spell(a), m.spell(b)
		if m.taken(first) || m.taken(second) {
			continue
		}
		m.claim(first)
		m.claim(second)
		return tree.Ident(first), tree.Ident(second)
	}
}

// Count returns how many counter values have been consumed.
func (m *Namer) Count() int { return m.n }

func (m *Namer) spell(base string) string {
	return m.prefix + base + strconv.Itoa(m.n)
}

func (m *Namer) taken(name string) bool {
	_, ok := m.minted[name]
	return ok
}

func (m *Namer) claim(name string) bool {
	if m.taken(name) {
		return false
	}
	m.minted[name] = struct{}{}
	return true
}
