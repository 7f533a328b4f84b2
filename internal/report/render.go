package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/plotarc/internal/curve"
)

// Format selects how an Analysis is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Render writes a in format f to w
func Render(w io.Writer, a *Analysis, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		return renderText(w, a)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

const barScale = 5

func renderText(w io.Writer, a *Analysis) error {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	levels := map[curve.Level]lipgloss.Style{
		curve.LevelGood:    r.NewStyle().Foreground(lipgloss.Color("2")),
		curve.LevelWarning: r.NewStyle().Foreground(lipgloss.Color("3")),
		curve.LevelInfo:    r.NewStyle().Foreground(lipgloss.Color("6")),
	}

	var b strings.Builder
	title := a.Title
	if title == "" {
		title = "Untitled manuscript"
	}
	fmt.Fprintln(&b, heading.Render(title))
	fmt.Fprintf(&b, "%d scenes analyzed\n\n", len(a.Points))

	fmt.Fprintln(&b, heading.Render("Curve"))
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, p := range a.Points {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.Position+1, p.Breadcrumb, p.Intensity, strings.Repeat("#", p.Intensity/barScale))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := a.Statistics
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("Statistics"))
	fmt.Fprintf(&b, "  mean %.1f  stddev %.1f  min %d  max %d (scene %d)  amplitude %d  peaks %d\n",
		s.Mean, s.StdDev, s.Min, s.Max, s.MaxIndex+1, s.Amplitude, s.PeaksCount)

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("Diagnostics"))
	for _, d := range a.Diagnostics {
		marker := levels[d.Level].Render(fmt.Sprintf("[%s]", d.Level))
		fmt.Fprintf(&b, "  %s %s\n", marker, d.Message)
	}

	if len(a.FlatZones) > 0 {
		starts := make([]string, len(a.FlatZones))
		for i, z := range a.FlatZones {
			starts[i] = fmt.Sprintf("%d-%d", z.StartIndex+1, z.StartIndex+3)
		}
		fmt.Fprintf(&b, "\n%s\n  scenes %s\n", heading.Render("Flat zones"), strings.Join(starts, ", "))
	}

	if len(a.Suggestions) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, heading.Render("Suggestions"))
		for _, sg := range a.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", sg.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
