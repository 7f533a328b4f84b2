package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/plotarc/internal/curve"
	"github.com/dotcommander/plotarc/internal/manuscript"
	"github.com/dotcommander/plotarc/internal/report"
)

var (
	curveFormat string
	curveSave   bool
)

var curveCmd = &cobra.Command{
	Use:   "curve <manuscript>",
	Short: "Build the tension curve of a manuscript and report on its pacing",
	Args:  cobra.ExactArgs(1),
	RunE:  runCurve,
}

func runCurve(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(curveFormat)
	if err != nil {
		return err
	}
	m, err := manuscript.Load(args[0])
	if err != nil {
		return err
	}

	analysis, err := report.Build(cmd.Context(), current.builder, m)
	if errors.Is(err, curve.ErrEmptyCurve) {
		return fmt.Errorf("%s has no scenes; create scenes first", args[0])
	}
	if err != nil {
		return err
	}

	if curveSave {
		dir, err := current.archiver.Save(cmd.Context(), analysis)
		if err != nil {
			return err
		}
		current.logger.Info("Report saved", "path", filepath.Join(current.files.Root(), dir))
	}
	return report.Render(cmd.OutOrStdout(), analysis, format)
}

func init() {
	curveCmd.Flags().StringVarP(&curveFormat, "format", "f", "text", "output format: text, json or yaml")
	curveCmd.Flags().BoolVar(&curveSave, "save", false, "archive the report in a session directory under the data dir")
	rootCmd.AddCommand(curveCmd)
}
