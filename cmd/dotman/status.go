package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman/pager"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree's status against HEAD and the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := repo.Status()
		if err != nil {
			return err
		}

		opts := pager.SelectOptions{
			Command:       "status",
			NoPager:       noPager,
			ConfigEnabled: repo.Config.Pager.Status,
			ConfigCommand: repo.Config.Core.Pager,
			MinLines:      repo.Config.Pager.MinLines,
			Stdout:        os.Stdout,
		}
		w := pager.New(os.Stdout, pager.Select(opts), repo.Config.Pager.MinLines)
		defer w.Close()

		if len(report.Entries) == 0 {
			fmt.Fprintln(w, "nothing to report, working tree clean")
			return nil
		}
		for _, e := range report.Entries {
			fmt.Fprintf(w, "%-10s %s\n", e.Category, e.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
