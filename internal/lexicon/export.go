package lexicon

import (
	"bufio"
	"fmt"
	"strings"
)

const exportHeader = "# plotarc tension lexicon\n# one [category] header per section, words separated by commas or newlines\n"

// Export renders lex as flat text grouped by category:
//
//	[high]
//	mort, sang
//	[medium]
//	...
func Export(lex *Lexicon) string {
	var b strings.Builder
	b.WriteString(exportHeader)
	for _, c := range Categories {
		fmt.Fprintf(&b, "[%s]\n", c)
		if words := lex.Words(c); len(words) > 0 {
			b.WriteString(strings.Join(words, ", "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ParseExport reads the Export format back. Words appearing in more than one
// category keep their first occurrence; skipped counts the rest. Text without
// any [category] header is rejected so an empty import cannot wipe the lexicon.
func ParseExport(text string) (lists Lists, skipped int, err error) {
	var current Category
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			c, err := ParseCategory(strings.Trim(line, "[]"))
			if err != nil {
				return Lists{}, 0, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current = c
			continue
		}

		if current == "" {
			return Lists{}, 0, fmt.Errorf("%w: line %d: words before any [category] header", ErrMalformedExport, lineNo)
		}

		for _, raw := range strings.Split(line, ",") {
			w := NormalizeWord(raw)
			if w == "" {
				continue
			}
			if _, dup := seen[w]; dup {
				skipped++
				continue
			}
			seen[w] = struct{}{}
			lists.set(current, append(lists.get(current), w))
		}
	}
	if err := sc.Err(); err != nil {
		return Lists{}, 0, fmt.Errorf("reading lexicon text: %w", err)
	}
	if current == "" {
		return Lists{}, 0, fmt.Errorf("%w: no [category] header", ErrMalformedExport)
	}
	return lists, skipped, nil
}
