// Package pacing detects monotonous stretches in a tension curve and turns
// curve statistics into writing suggestions.
package pacing

import (
	"fmt"

	"github.com/dotcommander/plotarc/internal/curve"
)

const (
	windowSize       = 3
	flatZoneVariance = 5.0
)

// FlatZone marks a window of consecutive points whose intensities barely
// move. The window covers StartIndex..StartIndex+2.
type FlatZone struct {
	StartIndex int `json:"start_index" yaml:"start_index"`
}

// FindFlatZones slides a three-point window across the curve and reports
// every window whose population variance is under the flat threshold.
// Overlapping windows are reported individually.
func FindFlatZones(points []curve.Point) []FlatZone {
	values := curve.Intensities(points)
	zones := []FlatZone{}
	for i := 0; i+windowSize <= len(values); i++ {
		if curve.Variance(values[i:i+windowSize]) < flatZoneVariance {
			zones = append(zones, FlatZone{StartIndex: i})
		}
	}
	return zones
}

// Kind identifies the advice a Suggestion carries
type Kind string

const (
	KindAddTwist     Kind = "add_twist"
	KindRaiseTension Kind = "raise_tension"
	KindAddPauses    Kind = "add_pauses"
	KindMoveClimax   Kind = "move_climax"
	KindEscalate     Kind = "escalate"
	KindAddPeaks     Kind = "add_peaks"
)

// Suggestion is one piece of generic pacing guidance
type Suggestion struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Suggest derives guidance from the statistics and flat zones of a curve of
// n points. It is pure; an empty result means nothing needs attention.
func Suggest(stats curve.Statistics, zones []FlatZone, n int) []Suggestion {
	suggestions := []Suggestion{}
	if n == 0 {
		return suggestions
	}

	if len(zones) > 0 {
		suggestions = append(suggestions, Suggestion{
			Kind:    KindAddTwist,
			Message: fmt.Sprintf("%d flat stretch(es) detected: add a twist or a conflict to break the monotony", len(zones)),
		})
	}
	if stats.Mean < curve.LowMeanThreshold {
		suggestions = append(suggestions, Suggestion{
			Kind:    KindRaiseTension,
			Message: "Raise the overall tension: add obstacles and raise the stakes",
		})
	}
	if stats.Mean > curve.HighMeanThreshold {
		suggestions = append(suggestions, Suggestion{
			Kind:    KindAddPauses,
			Message: "Give the reader some breathing room: add pauses or quieter moments",
		})
	}
	if !stats.ClimaxInLastThird {
		suggestions = append(suggestions, Suggestion{
			Kind:    KindMoveClimax,
			Message: "Move the climax later, into the last third of the story",
		})
	}
	if !stats.IsRising {
		suggestions = append(suggestions, Suggestion{
			Kind:    KindEscalate,
			Message: "Escalate the conflicts progressively toward the ending",
		})
	}
	if stats.PeaksCount == 0 {
		suggestions = append(suggestions, Suggestion{
			Kind:    KindAddPeaks,
			Message: "Create sharp dramatic moments: revelations, confrontations, reversals",
		})
	}
	return suggestions
}
