package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/plotarc/internal/lexicon"
)

var exportOutput string

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "View and edit the tension vocabulary",
}

var lexiconListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List vocabulary words with their indexes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := lexicon.Categories
		if len(args) == 1 {
			cat, err := lexicon.ParseCategory(args[0])
			if err != nil {
				return err
			}
			cats = []lexicon.Category{cat}
		}
		lex := current.lexicon.Snapshot()
		w := cmd.OutOrStdout()
		for _, cat := range cats {
			words := lex.Words(cat)
			fmt.Fprintf(w, "[%s] %d words\n", cat, len(words))
			for i, word := range words {
				fmt.Fprintf(w, "  %3d  %s\n", i, word)
			}
		}
		return nil
	},
}

var lexiconAddCmd = &cobra.Command{
	Use:   "add <category> <word>",
	Short: "Add a word to a category",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		word := strings.Join(args[1:], " ")
		return reportOp(cmd, current.lexicon.AddWord(cmd.Context(), args[0], word))
	},
}

var lexiconRemoveCmd = &cobra.Command{
	Use:   "remove <category> <index>",
	Short: "Remove the word at index from a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("index must be an integer, got %q", args[1])
		}
		return reportOp(cmd, current.lexicon.RemoveWord(cmd.Context(), args[0], index))
	},
}

var lexiconResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportOp(cmd, current.lexicon.ResetToDefault(cmd.Context()))
	},
}

var lexiconExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the vocabulary in its editable text format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, res := current.lexicon.ExportLexicon()
		if exportOutput == "" || exportOutput == "-" {
			_, err := io.WriteString(cmd.OutOrStdout(), text)
			return err
		}
		if err := os.WriteFile(exportOutput, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		current.logger.Info("Lexicon exported", "path", exportOutput, "result", res.Message)
		return nil
	},
}

var lexiconImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the vocabulary with an exported text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading import: %w", err)
		}
		return reportOp(cmd, current.lexicon.ImportLexicon(cmd.Context(), string(data)))
	},
}

// reportOp prints a successful edit, or turns a failed one into the
// command's error
func reportOp(cmd *cobra.Command, res lexicon.OpResult) error {
	if !res.Success {
		if res.Err != nil {
			return res.Err
		}
		return errors.New(res.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}

func init() {
	lexiconExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	lexiconCmd.AddCommand(lexiconListCmd, lexiconAddCmd, lexiconRemoveCmd, lexiconResetCmd, lexiconExportCmd, lexiconImportCmd)
	rootCmd.AddCommand(lexiconCmd)
}
