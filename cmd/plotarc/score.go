package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/tension"
)

var (
	scoreManuscript string
	scoreScene      string
	scoreJSON       bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [file|-]",
	Short: "Score the tension of one scene",
	Long: `Score reads scene markup from a file or standard input and prints its
tension score with the matched vocabulary. With --manuscript and --scene the
scene's structural position weights the score; when no markup is given the
scene's stored content is scored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	var m *manuscript.Manuscript
	if scoreManuscript != "" {
		var err error
		if m, err = manuscript.Load(scoreManuscript); err != nil {
			return err
		}
	}

	markup, err := sceneMarkup(cmd, args, m)
	if err != nil {
		return err
	}

	res := current.builder.ScoreScene(m, scoreScene, markup)
	if scoreJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// sceneMarkup picks the text to score: an explicit file, stdin, or the
// content of --scene inside the manuscript
func sceneMarkup(cmd *cobra.Command, args []string, m *manuscript.Manuscript) (string, error) {
	switch {
	case len(args) == 1 && args[0] != "-":
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading scene: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	if scoreScene == "" {
		return "", fmt.Errorf("nothing to score: pass a file, - for stdin, or --manuscript with --scene")
	}
	sc, ok := m.Scene(scoreScene)
	if !ok {
		return "", fmt.Errorf("scene %q not found in %s", scoreScene, scoreManuscript)
	}
	return sc.Content, nil
}

func printResult(w io.Writer, res tension.Result) {
	fmt.Fprintf(w, "Tension: %d/100\n", res.Score)
	rows := []struct {
		label string
		count int
		words []string
	}{
		{"high", res.HighCount, res.FoundWords.High},
		{"medium", res.MediumCount, res.FoundWords.Medium},
		{"low", res.LowCount, res.FoundWords.Low},
	}
	for _, r := range rows {
		if r.count == 0 {
			fmt.Fprintf(w, "  %-6s  0\n", r.label)
			continue
		}
		fmt.Fprintf(w, "  %-6s  %d  %s\n", r.label, r.count, strings.Join(r.words, ", "))
	}
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreManuscript, "manuscript", "m", "", "manuscript file (yaml or json) giving the scene's position")
	scoreCmd.Flags().StringVarP(&scoreScene, "scene", "s", "", "scene id inside --manuscript")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(scoreCmd)
}
