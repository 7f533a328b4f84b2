// Package report assembles a full curve analysis and renders or archives it.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/pacing"
)

// Analysis is everything the tool knows about one manuscript's curve
type Analysis struct {
	Title       string              `json:"title" yaml:"title"`
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Points      []curve.Point       `json:"points" yaml:"points"`
	Statistics  curve.Statistics    `json:"statistics" yaml:"statistics"`
	Diagnostics []curve.Diagnostic  `json:"diagnostics" yaml:"diagnostics"`
	FlatZones   []pacing.FlatZone   `json:"flat_zones" yaml:"flat_zones"`
	Suggestions []pacing.Suggestion `json:"suggestions" yaml:"suggestions"`
}

// Build scores every scene of m and analyzes the resulting curve. It
// returns curve.ErrEmptyCurve when m has no scenes.
func Build(ctx context.Context, b *curve.Builder, m *manuscript.Manuscript) (*Analysis, error) {
	points, err := b.Build(ctx, m)
	if err != nil {
		return nil, err
	}
	title := ""
	if m != nil {
		title = m.Title
	}
	return FromPoints(title, points)
}

// FromPoints analyzes an existing curve
func FromPoints(title string, points []curve.Point) (*Analysis, error) {
	stats, err := curve.Analyze(points)
	if err != nil {
		return nil, fmt.Errorf("analyzing %q: %w", title, err)
	}

	n := len(points)
	zones := pacing.FindFlatZones(points)
	a := &Analysis{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		Points:      points,
		Statistics:  stats,
		Diagnostics: curve.Report(stats, n),
		FlatZones:   zones,
		Suggestions: pacing.Suggest(stats, zones, n),
	}

	slog.Debug("Curve analyzed",
		"title", title,
		"point_count", n,
		"mean", stats.Mean,
		"peaks_count", stats.PeaksCount,
		"flat_zone_count", len(zones),
	)
	return a, nil
}
