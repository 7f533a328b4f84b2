// Package textnorm turns scene markup into lower-cased plain text for matching and word counting
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// blockElements emit a separator so words on either side of a block
// boundary never run together once the tags are gone.
var blockElements = map[atom.Atom]struct{}{
	atom.P: {}, atom.Div: {}, atom.Br: {}, atom.Hr: {},
	atom.H1: {}, atom.H2: {}, atom.H3: {}, atom.H4: {}, atom.H5: {}, atom.H6: {},
	atom.Li: {}, atom.Ul: {}, atom.Ol: {}, atom.Blockquote: {}, atom.Pre: {},
	atom.Tr: {}, atom.Td: {}, atom.Th: {},
	atom.Section: {}, atom.Article: {}, atom.Header: {}, atom.Footer: {},
}

// Normalize strips markup and returns the lower-cased plain text together
// with its word count. Empty or whitespace-only content yields ("", 0).
func Normalize(markup string) (string, int) {
	if strings.TrimSpace(markup) == "" {
		return "", 0
	}

	plain := collapseSpace(strings.ToLower(norm.NFC.String(stripTags(markup))))
	if plain == "" {
		return "", 0
	}
	return plain, len(Words(plain))
}

// stripTags walks the markup with the html tokenizer. The tokenizer stops
// at an unterminated tag; whatever it had not consumed by then
// is kept verbatim as text.
func stripTags(markup string) string {
	var b strings.Builder
	b.Grow(len(markup))

	z := html.NewTokenizer(strings.NewReader(markup))
	consumed := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if consumed < len(markup) {
				b.WriteString(markup[consumed:])
			}
			return b.String()
		}
		consumed += len(z.Raw())

		switch tt {
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if _, ok := blockElements[atom.Lookup(name)]; ok {
				b.WriteByte(' ')
			}
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Words splits text on anything that is not a letter. Combining marks stay
// attached so decomposed accents do not split a word.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}

// CountWords returns the number of letter words in markup
func CountWords(markup string) int {
	_, n := Normalize(markup)
	return n
}
