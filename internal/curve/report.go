package curve

import (
	"fmt"
	"math"
)

// Level grades a diagnostic for display
type Level string

const (
	LevelGood    Level = "good"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Verdict identifies one row of the qualitative report
type Verdict string

const (
	VerdictLowTension       Verdict = "low_tension"
	VerdictHighTension      Verdict = "high_tension"
	VerdictBalancedTension  Verdict = "balanced_tension"
	VerdictClimaxWellPlaced Verdict = "climax_well_placed"
	VerdictClimaxTooEarly   Verdict = "climax_too_early"
	VerdictRising           Verdict = "rising"
	VerdictDecreasing       Verdict = "decreasing"
	VerdictTooFlat          Verdict = "too_flat"
	VerdictTooIrregular     Verdict = "too_irregular"
	VerdictBalancedVariance Verdict = "balanced_variation"
	VerdictNoPeaks          Verdict = "no_peaks"
	VerdictTooManyPeaks     Verdict = "too_many_peaks"
	VerdictPeaksAppropriate Verdict = "peaks_appropriate"
)

// Report thresholds
const (
	LowMeanThreshold  = 40.0
	HighMeanThreshold = 70.0
	FlatStdDev        = 10.0
	IrregularStdDev   = 25.0
)

// Diagnostic is one row of the qualitative report
type Diagnostic struct {
	Metric  string  `json:"metric" yaml:"metric"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`
	Level   Level   `json:"level" yaml:"level"`
	Message string  `json:"message" yaml:"message"`
}

// Report turns statistics over n points into user-facing diagnostics, one
// per metric: mean tension, climax placement, trend, variation and peaks.
func Report(stats Statistics, n int) []Diagnostic {
	return []Diagnostic{
		meanDiagnostic(stats),
		climaxDiagnostic(stats, n),
		trendDiagnostic(stats),
		variationDiagnostic(stats),
		peaksDiagnostic(stats, n),
	}
}

func meanDiagnostic(s Statistics) Diagnostic {
	d := Diagnostic{Metric: "mean_tension"}
	switch {
	case s.Mean < LowMeanThreshold:
		d.Verdict, d.Level = VerdictLowTension, LevelWarning
		d.Message = fmt.Sprintf("Average tension is low (%.0f/100); readers may lose interest", s.Mean)
	case s.Mean > HighMeanThreshold:
		d.Verdict, d.Level = VerdictHighTension, LevelWarning
		d.Message = fmt.Sprintf("Average tension is very high (%.0f/100); risk of reader fatigue", s.Mean)
	default:
		d.Verdict, d.Level = VerdictBalancedTension, LevelGood
		d.Message = fmt.Sprintf("Average tension is balanced (%.0f/100)", s.Mean)
	}
	return d
}

func climaxDiagnostic(s Statistics, n int) Diagnostic {
	d := Diagnostic{Metric: "climax_placement"}
	if s.ClimaxInLastThird {
		d.Verdict, d.Level = VerdictClimaxWellPlaced, LevelGood
		d.Message = "The climax sits in the last third of the story"
		return d
	}
	pct := 0.0
	if n > 0 {
		pct = math.Round(float64(s.MaxIndex) / float64(n) * 100)
	}
	d.Verdict, d.Level = VerdictClimaxTooEarly, LevelWarning
	d.Message = fmt.Sprintf("The climax comes too early, at %.0f%% of the story", pct)
	return d
}

func trendDiagnostic(s Statistics) Diagnostic {
	d := Diagnostic{Metric: "trend"}
	if s.IsRising {
		d.Verdict, d.Level = VerdictRising, LevelGood
		d.Message = "Tension rises over the course of the story"
		return d
	}
	d.Verdict, d.Level = VerdictDecreasing, LevelWarning
	d.Message = "Tension is decreasing on average"
	return d
}

func variationDiagnostic(s Statistics) Diagnostic {
	d := Diagnostic{Metric: "variation"}
	switch {
	case s.StdDev < FlatStdDev:
		d.Verdict, d.Level = VerdictTooFlat, LevelWarning
		d.Message = fmt.Sprintf("The curve is too flat (deviation %.1f); vary the intensity", s.StdDev)
	case s.StdDev > IrregularStdDev:
		d.Verdict, d.Level = VerdictTooIrregular, LevelInfo
		d.Message = fmt.Sprintf("The curve is very irregular (deviation %.1f); fine if intentional", s.StdDev)
	default:
		d.Verdict, d.Level = VerdictBalancedVariance, LevelGood
		d.Message = fmt.Sprintf("Variation is balanced (deviation %.1f)", s.StdDev)
	}
	return d
}

func peaksDiagnostic(s Statistics, n int) Diagnostic {
	d := Diagnostic{Metric: "peaks"}
	switch {
	case s.PeaksCount == 0:
		d.Verdict, d.Level = VerdictNoPeaks, LevelWarning
		d.Message = "No major dramatic peaks"
	case float64(s.PeaksCount) > float64(n)/3:
		d.Verdict, d.Level = VerdictTooManyPeaks, LevelWarning
		d.Message = fmt.Sprintf("Too many peaks (%d); the reader gets no breathing room", s.PeaksCount)
	default:
		d.Verdict, d.Level = VerdictPeaksAppropriate, LevelGood
		d.Message = fmt.Sprintf("%d dramatic peaks, an appropriate rhythm", s.PeaksCount)
	}
	return d
}
