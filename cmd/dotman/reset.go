package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman"
)

var (
	resetSoft  bool
	resetHard  bool
	resetMixed bool
)

var resetCmd = &cobra.Command{
	Use:   "reset <ref>",
	Short: "Move HEAD (and optionally the index and working tree) to the given commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := dotman.ResetMixed
		switch {
		case resetSoft:
			mode = dotman.ResetSoft
		case resetHard:
			mode = dotman.ResetHard
		}
		if err := repo.Reset(args[0], mode); err != nil {
			return err
		}
		fmt.Println("reset to", args[0])
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetSoft, "soft", false, "move HEAD only")
	resetCmd.Flags().BoolVar(&resetMixed, "mixed", false, "move HEAD and reset the index (default)")
	resetCmd.Flags().BoolVar(&resetHard, "hard", false, "move HEAD, the index, and the working tree")
	resetCmd.MarkFlagsMutuallyExclusive("soft", "mixed", "hard")
	rootCmd.AddCommand(resetCmd)
}
