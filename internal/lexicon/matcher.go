package lexicon

import (
	"github.com/dotcommander/plotarc/internal/textnorm"
)

// Matcher counts whole-word occurrences of every vocabulary entry in one
// pass over the text's tokens. Entries are indexed by their first token so
// the cost is linear in text length instead of entries × text length.
type Matcher struct {
	entries []entry
	byFirst map[string][]int
}

type entry struct {
	word     string
	category Category
	tokens   []string
}

// Match is the per-category outcome of a scan. Found keeps vocabulary order.
type Match struct {
	Counts map[Category]int
	Found  map[Category][]string
}

func newMatcher(lists Lists) *Matcher {
	m := &Matcher{byFirst: make(map[string][]int)}
	for _, c := range Categories {
		for _, w := range lists.get(c) {
			tokens := textnorm.Words(w)
			if len(tokens) == 0 {
				continue
			}
			m.byFirst[tokens[0]] = append(m.byFirst[tokens[0]], len(m.entries))
			m.entries = append(m.entries, entry{word: w, category: c, tokens: tokens})
		}
	}
	return m
}

// Scan matches entries against already-normalized (lower-cased) text.
// Overlapping hits of the same entry are not counted twice.
func (m *Matcher) Scan(text string) Match {
	res := Match{
		Counts: make(map[Category]int, len(Categories)),
		Found:  make(map[Category][]string, len(Categories)),
	}
	if m == nil || len(m.entries) == 0 {
		return res
	}

	tokens := textnorm.Words(text)
	hits := make([]int, len(m.entries))
	nextFree := make([]int, len(m.entries))

	for i, tok := range tokens {
		for _, idx := range m.byFirst[tok] {
			e := m.entries[idx]
			if i < nextFree[idx] || !hasPrefixTokens(tokens[i:], e.tokens) {
				continue
			}
			hits[idx]++
			nextFree[idx] = i + len(e.tokens)
		}
	}

	for idx, e := range m.entries {
		if hits[idx] == 0 {
			continue
		}
		res.Counts[e.category] += hits[idx]
		res.Found[e.category] = append(res.Found[e.category], e.word)
	}
	return res
}

func hasPrefixTokens(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}
