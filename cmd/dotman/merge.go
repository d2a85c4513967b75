package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <ref>",
	Short: "Fast-forward the current branch onto another ref, if possible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := repo.Merge(args[0])
		if err != nil {
			return err
		}
		if result.Conflicted {
			return fmt.Errorf("merge: %s is not a fast-forward of HEAD; non-fast-forward merges are not content-merged", args[0])
		}
		fmt.Println("fast-forwarded to", result.NewHead)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
