package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage archived curve reports",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions with their directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := current.archiver.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(w, "No archived sessions")
			return nil
		}
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%s\n", name, sessionPath(name))
		}
		return nil
	},
}

var sessionsRemoveCmd = &cobra.Command{
	Use:   "rm <session>...",
	Short: "Delete archived sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			if err := current.archiver.Remove(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
		}
		return nil
	},
}

// sessionPath is the absolute directory of an archived session
func sessionPath(name string) string {
	return filepath.Join(current.files.Root(), "sessions", name)
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsRemoveCmd)
	rootCmd.AddCommand(sessionsCmd)
}
