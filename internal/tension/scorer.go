// Package tension scores the dramatic tension of a single scene from its
// vocabulary, punctuation and structural position.
package tension

import (
	"math"
	"strings"

	"github.com/dotcommander/plotarc/internal/lexicon"
	"github.com/dotcommander/plotarc/internal/textnorm"
)

// Calibrated weights.
const (
	highWeight   = 8.0
	mediumWeight = 4.0
	lowWeight    = -5.0

	exclamationWeight = 1.5
	questionWeight    = 0.5
	ellipsisWeight    = 2.0

	// minDensityWords floors the square root so short scenes are not inflated
	minDensityWords  = 50
	densityScale     = 5.2
	fallbackBaseline = 25.0
	cliffhangerBonus = 5.0

	MinScore = 5
	MaxScore = 95
)

// FoundWords lists which vocabulary entries matched, in lexicon order
type FoundWords struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
	Low    []string `json:"low"`
}

// Result is the outcome of scoring one scene. It is a plain value.
type Result struct {
	Score       int        `json:"score"`
	HighCount   int        `json:"high_count"`
	MediumCount int        `json:"medium_count"`
	LowCount    int        `json:"low_count"`
	FoundWords  FoundWords `json:"found_words"`
}

// Scorer computes scene tension. The zero value is ready to use and safe
// for concurrent use.
type Scorer struct{}

// Score rates markup against lex. A nil position falls back to a fixed
// baseline; a nil lexicon scores as if every list were empty. Empty text
// scores 0, anything else lands in [MinScore, MaxScore].
func (Scorer) Score(markup string, lex *lexicon.Lexicon, pos *Position) Result {
	text, wordCount := textnorm.Normalize(markup)
	if text == "" {
		return Result{}
	}

	match := lex.Matcher().Scan(text)
	res := Result{
		HighCount:   match.Counts[lexicon.High],
		MediumCount: match.Counts[lexicon.Medium],
		LowCount:    match.Counts[lexicon.Low],
		FoundWords: FoundWords{
			High:   nonNil(match.Found[lexicon.High]),
			Medium: nonNil(match.Found[lexicon.Medium]),
			Low:    nonNil(match.Found[lexicon.Low]),
		},
	}

	lexical := highWeight*float64(res.HighCount) +
		mediumWeight*float64(res.MediumCount) +
		lowWeight*float64(res.LowCount)
	lexical += punctuationBonus(text)

	textIntensity := lexical / math.Sqrt(math.Max(minDensityWords, float64(wordCount))) * densityScale

	baseline, cliffhanger := fallbackBaseline, false
	if pos != nil {
		baseline, cliffhanger = Baseline(*pos)
	}

	final := baseline + textIntensity
	if cliffhanger {
		final += cliffhangerBonus
	}
	res.Score = clampRound(final)
	return res
}

func punctuationBonus(text string) float64 {
	return float64(strings.Count(text, "!"))*exclamationWeight +
		float64(strings.Count(text, "?"))*questionWeight +
		float64(strings.Count(text, "..."))*ellipsisWeight
}

func clampRound(v float64) int {
	if math.IsNaN(v) {
		return MinScore
	}
	v = math.Max(MinScore, math.Min(MaxScore, v))
	return int(math.Round(v))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
