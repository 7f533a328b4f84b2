package curve

import (
	"errors"
	"math"
)

// ErrEmptyCurve is returned when there is nothing to analyze; callers
// should ask the writer to create scenes first.
var ErrEmptyCurve = errors.New("curve has no points")

const (
	peakMargin      = 20
	lastThirdFactor = 0.66
)

// Statistics summarizes a curve. It is derived and never mutated.
type Statistics struct {
	Mean              float64 `json:"mean" yaml:"mean"`
	Max               int     `json:"max" yaml:"max"`
	MaxIndex          int     `json:"max_index" yaml:"max_index"`
	Min               int     `json:"min" yaml:"min"`
	MinIndex          int     `json:"min_index" yaml:"min_index"`
	Amplitude         int     `json:"amplitude" yaml:"amplitude"`
	StdDev            float64 `json:"std_dev" yaml:"std_dev"`
	PeaksCount        int     `json:"peaks_count" yaml:"peaks_count"`
	ClimaxInLastThird bool    `json:"climax_in_last_third" yaml:"climax_in_last_third"`
	IsRising          bool    `json:"is_rising" yaml:"is_rising"`
}

// Analyze computes descriptive statistics over the intensities of points
func Analyze(points []Point) (Statistics, error) {
	n := len(points)
	if n == 0 {
		return Statistics{}, ErrEmptyCurve
	}

	values := Intensities(points)
	stats := Statistics{
		Mean:     mean(values),
		Max:      values[0],
		Min:      values[0],
		MaxIndex: 0,
		MinIndex: 0,
	}
	for i, v := range values {
		if v > stats.Max {
			stats.Max, stats.MaxIndex = v, i
		}
		if v < stats.Min {
			stats.Min, stats.MinIndex = v, i
		}
	}
	stats.Amplitude = stats.Max - stats.Min
	stats.StdDev = math.Sqrt(variance(values, stats.Mean))
	stats.ClimaxInLastThird = stats.MaxIndex >= int(math.Floor(float64(n)*lastThirdFactor))

	half := n / 2
	stats.IsRising = mean(values[half:]) > mean(values[:half])
	stats.PeaksCount = len(Peaks(values))

	return stats, nil
}

// Peaks returns the interior indices whose value beats both neighbours by
// more than the peak margin
func Peaks(values []int) []int {
	var peaks []int
	for i := 1; i < len(values)-1; i++ {
		if values[i] > values[i-1]+peakMargin && values[i] > values[i+1]+peakMargin {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// Intensities extracts the intensity series of points
func Intensities(points []Point) []int {
	values := make([]int, len(points))
	for i, p := range points {
		values[i] = p.Intensity
	}
	return values
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// variance is the population variance around m
func variance(values []int, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := float64(v) - m
		sum += d * d
	}
	return sum / float64(len(values))
}

// Variance is the population variance of values
func Variance(values []int) float64 {
	return variance(values, mean(values))
}
