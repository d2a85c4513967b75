package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rebaseContinue bool
	rebaseAbort    bool
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase [<onto>]",
	Short: "Replay the current branch's exclusive commits onto another ref",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case rebaseContinue:
			return repo.RebaseContinue()
		case rebaseAbort:
			return repo.RebaseAbort()
		}
		if len(args) != 1 {
			return fmt.Errorf("rebase: an <onto> ref is required unless --continue or --abort is given")
		}
		return repo.RebaseBegin(args[0])
	},
}

func init() {
	rebaseCmd.Flags().BoolVar(&rebaseContinue, "continue", false, "resume a conflicted rebase")
	rebaseCmd.Flags().BoolVar(&rebaseAbort, "abort", false, "abort an in-progress rebase and restore the original HEAD")
	rebaseCmd.MarkFlagsMutuallyExclusive("continue", "abort")
	rootCmd.AddCommand(rebaseCmd)
}
