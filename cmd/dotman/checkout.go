package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman"
)

var checkoutForce bool

var checkoutCmd = &cobra.Command{
	Use:   "checkout <ref>",
	Short: "Switch the working tree to the given branch, tag, or commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.Checkout(args[0], dotman.CheckoutOptions{Force: checkoutForce}); err != nil {
			return err
		}
		fmt.Println("switched to", args[0])
		return nil
	},
}

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "discard uncommitted changes")
	rootCmd.AddCommand(checkoutCmd)
}
