package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman"
)

var (
	commitMessage string
	commitAll     bool
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Snapshot the staged tree and advance HEAD",
	RunE: func(cmd *cobra.Command, args []string) error {
		commit, err := repo.Commit(dotman.CommitOptions{
			Message:    commitMessage,
			RefreshAll: commitAll,
		})
		if err != nil {
			return err
		}
		fmt.Printf("[%s] %s\n", commit.ShortID(8), commit.Message)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "refresh every tracked entry against disk before committing")
	commitCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(commitCmd)
}
