package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotman-vcs/dotman"
)

var (
	branchDeleteName  string
	branchDeleteForce bool
)

var branchCmd = &cobra.Command{
	Use:   "branch [name] [start-point]",
	Short: "List, create, or delete branches",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if branchDeleteName != "" {
			return repo.BranchDelete(branchDeleteName, dotman.BranchDeleteOptions{Force: branchDeleteForce})
		}
		if len(args) == 0 {
			branches, err := repo.Refs.ListBranches()
			if err != nil {
				return err
			}
			head, err := repo.Refs.ReadHead()
			if err != nil {
				return err
			}
			for _, b := range branches {
				marker := "  "
				if b == head.Branch {
					marker = "* "
				}
				fmt.Println(marker + b)
			}
			return nil
		}
		startPoint := ""
		if len(args) == 2 {
			startPoint = args[1]
		}
		if err := repo.BranchCreate(args[0], startPoint); err != nil {
			return err
		}
		fmt.Println("created branch", args[0])
		return nil
	},
}

func init() {
	branchCmd.Flags().StringVarP(&branchDeleteName, "delete", "d", "", "delete the named branch")
	branchCmd.Flags().BoolVarP(&branchDeleteForce, "force", "f", false, "force-delete even if unmerged, or delete main")
	rootCmd.AddCommand(branchCmd)
}
