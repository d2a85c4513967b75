package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Stage one or more files for the next commit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := repo.Add(path); err != nil {
				return err
			}
			fmt.Println("staged", path)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Stage one or more tracked files for removal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := repo.Remove(path); err != nil {
				return err
			}
			fmt.Println("staged removal of", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd, rmCmd)
}
