package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	stashLabel            string
	stashIncludeUntracked bool
	stashApplyOrPopIndex  int
	stashDropIndex        int
)

var stashCmd = &cobra.Command{
	Use:   "stash",
	Short: "Save or restore the working tree's uncommitted changes",
}

var stashPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Save the current tracked (and optionally untracked) changes, then restore HEAD's snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.StashPush(stashLabel, stashIncludeUntracked); err != nil {
			return err
		}
		fmt.Println("saved stash entry")
		return nil
	},
}

var stashPopCmd = &cobra.Command{
	Use:   "pop",
	Short: "Apply the most recent stash entry and remove it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.StashPop()
	},
}

var stashApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a stash entry without removing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.StashApply(stashApplyOrPopIndex)
	},
}

var stashDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove a stash entry without applying it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.StashDrop(stashDropIndex)
	},
}

var stashClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stash entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return repo.StashClear()
	},
}

var stashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stash entries, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := repo.StashList()
		if err != nil {
			return err
		}
		for i, e := range entries {
			fmt.Printf("stash@{%d}: %s\n", i, e.Label)
		}
		return nil
	},
}

func init() {
	stashPushCmd.Flags().StringVarP(&stashLabel, "message", "m", "", "label for the stash entry")
	stashPushCmd.Flags().BoolVarP(&stashIncludeUntracked, "include-untracked", "u", false, "also stash untracked files")
	stashApplyCmd.Flags().IntVar(&stashApplyOrPopIndex, "index", -1, "stack index to apply (default: most recent)")
	stashDropCmd.Flags().IntVar(&stashDropIndex, "index", -1, "stack index to drop (default: most recent)")

	stashCmd.AddCommand(stashPushCmd, stashPopCmd, stashApplyCmd, stashDropCmd, stashClearCmd, stashListCmd)
	rootCmd.AddCommand(stashCmd)
}
