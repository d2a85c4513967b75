package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman/pager"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log [ref]",
	Short: "Show commit history, newest first, following first parents",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := "HEAD"
		if len(args) == 1 {
			ref = args[0]
		}
		commits, err := repo.Log(ref, logLimit)
		if err != nil {
			return err
		}

		opts := pager.SelectOptions{
			Command:       "log",
			NoPager:       noPager,
			ConfigEnabled: repo.Config.Pager.Log,
			ConfigCommand: repo.Config.Pager.LogPager,
			MinLines:      repo.Config.Pager.MinLines,
			Stdout:        os.Stdout,
		}
		w := pager.New(os.Stdout, pager.Select(opts), repo.Config.Pager.MinLines)
		defer w.Close()

		for _, c := range commits {
			when := time.Unix(c.Timestamp, 0)
			fmt.Fprintf(w, "commit %s\nAuthor: %s\nDate:   %s\n\n    %s\n\n", c.ID, c.Author, when.Format(time.RFC1123Z), c.Message)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "limit the number of commits shown")
	rootCmd.AddCommand(logCmd)
}
