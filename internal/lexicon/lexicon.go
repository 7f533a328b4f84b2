// Package lexicon holds the tension vocabulary used by the scene scorer.
//
// A Lexicon is an immutable snapshot of three ordered word lists. The
// mutable side lives in Store (copy-on-write snapshots) and Service (the
// add/remove/reset/export use cases with persistence).
package lexicon

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category names one of the three tension vocabularies
type Category string

const (
	High   Category = "high"
	Medium Category = "medium"
	Low    Category = "low"
)

// Categories lists the vocabularies in export order
var Categories = []Category{High, Medium, Low}

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrDuplicateWord   = errors.New("word already exists")
	ErrEmptyWord       = errors.New("word is empty")
	ErrInvalidWord     = errors.New("word contains a reserved character")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotFound        = errors.New("lexicon not found")
	ErrMalformedExport = errors.New("malformed lexicon text")
)

// ParseCategory accepts a category name in any case
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case High:
		return High, nil
	case Medium:
		return Medium, nil
	case Low:
		return Low, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Lists is the plain persisted form of a lexicon
type Lists struct {
	High   []string `yaml:"high" json:"high"`
	Medium []string `yaml:"medium" json:"medium"`
	Low    []string `yaml:"low" json:"low"`
}

// Lexicon is a read-only snapshot. Callers never mutate the slices it
// returns; Store replaces the whole snapshot on every edit.
type Lexicon struct {
	lists   Lists
	matcher *Matcher
}

// New builds a snapshot from lists. Words are trimmed and lower-cased;
// empty entries are dropped. Cross-category uniqueness is not enforced here.
func New(lists Lists) *Lexicon {
	l := &Lexicon{
		lists: Lists{
			High:   cleanWords(lists.High),
			Medium: cleanWords(lists.Medium),
			Low:    cleanWords(lists.Low),
		},
	}
	l.matcher = newMatcher(l.lists)
	return l
}

// Default returns the shipped vocabulary
func Default() *Lexicon {
	return New(DefaultLists())
}

// Words returns the list for a category. A nil lexicon has no words.
func (l *Lexicon) Words(c Category) []string {
	if l == nil {
		return nil
	}
	switch c {
	case High:
		return l.lists.High
	case Medium:
		return l.lists.Medium
	case Low:
		return l.lists.Low
	}
	return nil
}

// Lists returns a deep copy suitable for persistence or editing
func (l *Lexicon) Lists() Lists {
	if l == nil {
		return Lists{}
	}
	return Lists{
		High:   append([]string(nil), l.lists.High...),
		Medium: append([]string(nil), l.lists.Medium...),
		Low:    append([]string(nil), l.lists.Low...),
	}
}

// Matcher returns the compiled matcher for this snapshot
func (l *Lexicon) Matcher() *Matcher {
	if l == nil {
		return newMatcher(Lists{})
	}
	return l.matcher
}

// CategoryOf reports which category already holds word, if any
func (l *Lexicon) CategoryOf(word string) (Category, bool) {
	if l == nil {
		return "", false
	}
	return l.lists.categoryOf(NormalizeWord(word))
}

// Len returns the total number of words across categories
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.lists.High) + len(l.lists.Medium) + len(l.lists.Low)
}

// NormalizeWord is the canonical stored form of a vocabulary entry
func NormalizeWord(w string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(w))), " ")
}

func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = NormalizeWord(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (l Lists) get(c Category) []string {
	switch c {
	case High:
		return l.High
	case Medium:
		return l.Medium
	case Low:
		return l.Low
	}
	return nil
}

func (l *Lists) set(c Category, words []string) {
	switch c {
	case High:
		l.High = words
	case Medium:
		l.Medium = words
	case Low:
		l.Low = words
	}
}

func (l Lists) categoryOf(word string) (Category, bool) {
	for _, c := range Categories {
		for _, w := range l.get(c) {
			if w == word {
				return c, true
			}
		}
	}
	return "", false
}
